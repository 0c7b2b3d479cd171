// Package vector implements the memory store client on top of the Qdrant
// HTTP API. Memory records are appended per completed chat turn and retrieved
// by similarity search scoped to a single user.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vibelabs/vibechat/internal/config"
)

var (
	// ErrStore is returned for transport or response-shape failures of the
	// vector backend on search or save.
	ErrStore = errors.New("memory store request failed")

	// ErrMalformedMemory is returned when a retrieved record is missing
	// required payload fields. Such records are rejected, not dropped.
	ErrMalformedMemory = errors.New("malformed memory record")
)

// ChatMemory is a single retrieved past exchange with its similarity score
// (higher = more similar; the range is defined by the backend's metric).
type ChatMemory struct {
	UserInput  string
	AIResponse string
	Score      float64
}

type pointPayload struct {
	UserID     int64  `json:"userId"`
	UserInput  string `json:"userInput"`
	AIResponse string `json:"aiResponse"`
}

type point struct {
	ID      string       `json:"id"`
	Vector  []float32    `json:"vector"`
	Payload pointPayload `json:"payload"`
}

type upsertRequest struct {
	Points []point `json:"points"`
}

type matchCondition struct {
	Key   string `json:"key"`
	Match struct {
		Value int64 `json:"value"`
	} `json:"match"`
}

type searchFilter struct {
	Must []matchCondition `json:"must"`
}

type searchRequest struct {
	Vector      []float32    `json:"vector"`
	Top         int          `json:"top"`
	Filter      searchFilter `json:"filter"`
	WithPayload bool         `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		Score   float64 `json:"score"`
		Payload struct {
			UserInput  *string `json:"userInput"`
			AIResponse *string `json:"aiResponse"`
		} `json:"payload"`
	} `json:"result"`
}

type collectionInfoResponse struct {
	Result struct {
		Status      string `json:"status"`
		PointsCount int64  `json:"points_count"`
	} `json:"result"`
}

type createCollectionRequest struct {
	Vectors struct {
		Size     int    `json:"size"`
		Distance string `json:"distance"`
	} `json:"vectors"`
}

// Client is a synchronous HTTP client for one Qdrant collection.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	collection string
	vectorSize int
	logger     *slog.Logger
}

// NewClient creates a vector store client from the given configuration.
func NewClient(cfg config.VectorConfig, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
		logger:     logger.With("component", "vector_client"),
	}
}

// Save upserts exactly one new memory record for the completed turn under a
// freshly generated point id.
func (c *Client) Save(ctx context.Context, userID int64, userInput, aiResponse string, vec []float32) error {
	body := upsertRequest{
		Points: []point{{
			ID:     uuid.NewString(),
			Vector: vec,
			Payload: pointPayload{
				UserID:     userID,
				UserInput:  userInput,
				AIResponse: aiResponse,
			},
		}},
	}

	path := fmt.Sprintf("/collections/%s/points", c.collection)
	if err := c.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "Memory record saved", "user_id", userID)
	return nil
}

// Search returns up to topK memories for userID ordered by descending
// similarity, exactly as ranked by the backend. The userId filter is applied
// server-side so results can never contain another user's records.
func (c *Client) Search(ctx context.Context, userID int64, vec []float32, topK int) ([]ChatMemory, error) {
	cond := matchCondition{Key: "userId"}
	cond.Match.Value = userID
	body := searchRequest{
		Vector:      vec,
		Top:         topK,
		Filter:      searchFilter{Must: []matchCondition{cond}},
		WithPayload: true,
	}

	var parsed searchResponse
	path := fmt.Sprintf("/collections/%s/points/search", c.collection)
	if err := c.doJSON(ctx, http.MethodPost, path, body, &parsed); err != nil {
		return nil, err
	}

	memories := make([]ChatMemory, 0, len(parsed.Result))
	for i, r := range parsed.Result {
		if r.Payload.UserInput == nil || r.Payload.AIResponse == nil {
			return nil, fmt.Errorf("%w: result %d is missing payload fields", ErrMalformedMemory, i)
		}
		memories = append(memories, ChatMemory{
			UserInput:  *r.Payload.UserInput,
			AIResponse: *r.Payload.AIResponse,
			Score:      r.Score,
		})
	}

	c.logger.DebugContext(ctx, "Memory search completed", "user_id", userID, "hits", len(memories))
	return memories, nil
}

// EnsureCollection creates the collection with the configured vector size if
// it does not exist yet. Existing collections are left untouched.
func (c *Client) EnsureCollection(ctx context.Context) error {
	path := fmt.Sprintf("/collections/%s", c.collection)

	var info collectionInfoResponse
	err := c.doJSON(ctx, http.MethodGet, path, nil, &info)
	if err == nil {
		return nil
	}
	var statusErr *statusError
	if !errors.As(err, &statusErr) || statusErr.code != http.StatusNotFound {
		return err
	}

	var body createCollectionRequest
	body.Vectors.Size = c.vectorSize
	body.Vectors.Distance = "Cosine"
	if err := c.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Created memory collection",
		"collection", c.collection, "vector_size", c.vectorSize)
	return nil
}

// PointsCount returns the number of records currently in the collection.
func (c *Client) PointsCount(ctx context.Context) (int64, error) {
	var info collectionInfoResponse
	path := fmt.Sprintf("/collections/%s", c.collection)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &info); err != nil {
		return 0, err
	}
	return info.Result.PointsCount, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d", e.code)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request: %v", ErrStore, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %v", ErrStore, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.ErrorContext(ctx, "Vector backend returned error status",
			"method", method, "path", path, "status", resp.StatusCode, "body", string(snippet))
		return fmt.Errorf("%w: %w", ErrStore, &statusError{code: resp.StatusCode})
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrStore, err)
		}
	}
	return nil
}
