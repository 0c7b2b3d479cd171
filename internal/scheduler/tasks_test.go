package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/vibelabs/vibechat/internal/database"
	"github.com/vibelabs/vibechat/internal/scheduler"
)

type fakeStore struct {
	database.Store

	maintenanceErr    error
	maintenanceCalled bool
}

func (f *fakeStore) RunSQLMaintenance(_ context.Context) error {
	f.maintenanceCalled = true
	return f.maintenanceErr
}

type fakeCounter struct {
	count int64
	err   error
}

func (f *fakeCounter) PointsCount(_ context.Context) (int64, error) {
	return f.count, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	tasks := scheduler.RegisterAllTasks(scheduler.TaskDeps{
		Logger:   discardLogger(),
		Store:    &fakeStore{},
		Memories: &fakeCounter{},
	})

	for _, name := range []string{"sql_maintenance", "memory_health"} {
		if _, ok := tasks[name]; !ok {
			t.Errorf("RegisterAllTasks() missing task %q", name)
		}
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	tasks := scheduler.RegisterAllTasks(scheduler.TaskDeps{
		Logger:   discardLogger(),
		Store:    store,
		Memories: &fakeCounter{},
	})

	if err := tasks["sql_maintenance"](context.Background()); err != nil {
		t.Fatalf("sql_maintenance task unexpected error: %v", err)
	}
	if !store.maintenanceCalled {
		t.Error("sql_maintenance task did not run store maintenance")
	}

	store.maintenanceErr = errors.New("disk full")
	if err := tasks["sql_maintenance"](context.Background()); err == nil {
		t.Error("sql_maintenance task should surface maintenance failures")
	}
}

func TestMemoryHealthTask(t *testing.T) {
	t.Parallel()

	tasks := scheduler.RegisterAllTasks(scheduler.TaskDeps{
		Logger:   discardLogger(),
		Store:    &fakeStore{},
		Memories: &fakeCounter{count: 10},
	})
	if err := tasks["memory_health"](context.Background()); err != nil {
		t.Errorf("memory_health task unexpected error: %v", err)
	}

	failing := scheduler.RegisterAllTasks(scheduler.TaskDeps{
		Logger:   discardLogger(),
		Store:    &fakeStore{},
		Memories: &fakeCounter{err: errors.New("connection refused")},
	})
	if err := failing["memory_health"](context.Background()); err == nil {
		t.Error("memory_health task should surface backend failures")
	}
}
