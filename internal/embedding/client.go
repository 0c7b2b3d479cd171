// Package embedding implements the client for the text-embedding backend.
// It turns free text into a fixed-dimensionality vector via a Voyage-style
// POST /embeddings endpoint.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vibelabs/vibechat/internal/config"
)

// ErrEmbed is returned for any transport or response-shape failure of the
// embedding backend. The client never retries; retry policy belongs to the
// caller.
var ErrEmbed = errors.New("embedding request failed")

type embedRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Client is a synchronous HTTP client for the embedding backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *slog.Logger
}

// NewClient creates an embedding client from the given configuration.
func NewClient(cfg config.EmbeddingConfig, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logger:     logger.With("component", "embedding_client"),
	}
}

// Embed returns the embedding vector for text. The vector length is whatever
// the backend's model produces; no dimensionality check happens here.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Input: text, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrEmbed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrEmbed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.ErrorContext(ctx, "Embedding backend returned error status",
			"status", resp.StatusCode, "body", string(snippet))
		return nil, fmt.Errorf("%w: status %d", ErrEmbed, resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrEmbed, err)
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: response carries no embedding", ErrEmbed)
	}

	c.logger.DebugContext(ctx, "Embedded text", "model", c.model, "dimensions", len(parsed.Data[0].Embedding))
	return parsed.Data[0].Embedding, nil
}
