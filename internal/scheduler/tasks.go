package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vibelabs/vibechat/internal/database"
)

// TaskFunc is the signature every scheduled task implements. The context
// provided by the scheduler must be respected for cancellation.
type TaskFunc func(ctx context.Context) error

// MemoryCounter reports the size of the vector memory collection.
type MemoryCounter interface {
	PointsCount(ctx context.Context) (int64, error)
}

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    database.Store
	Memories MemoryCounter
}

// RegisterAllTasks returns the name-keyed registry of scheduled tasks. The
// keys match the task names in the scheduler configuration section.
func RegisterAllTasks(deps TaskDeps) map[string]TaskFunc {
	tasks := map[string]TaskFunc{
		"sql_maintenance": newSQLMaintenanceTask(deps),
		"memory_health":   newMemoryHealthTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}

// newSQLMaintenanceTask vacuums and analyzes the selection database.
func newSQLMaintenanceTask(deps TaskDeps) TaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		startTime := time.Now()
		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance failed", "error", err)
			return fmt.Errorf("sql maintenance failed: %w", err)
		}
		log.InfoContext(ctx, "SQL maintenance completed", "duration", time.Since(startTime))
		return nil
	}
}

// newMemoryHealthTask probes the vector store and logs the collection size so
// an unreachable memory backend surfaces in the logs between chats.
func newMemoryHealthTask(deps TaskDeps) TaskFunc {
	log := deps.Logger.With("task", "memory_health")

	return func(ctx context.Context) error {
		count, err := deps.Memories.PointsCount(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Memory store health check failed", "error", err)
			return fmt.Errorf("memory health check failed: %w", err)
		}
		log.InfoContext(ctx, "Memory store healthy", "points", count)
		return nil
	}
}
