// Package qdrant provides a vector index adapter backed by the Qdrant
// HTTP API. It is the only package aware of the Qdrant wire protocol.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:6333"
	DefaultCollection = "company_docs"
	DefaultTimeout    = 10 * time.Second
)

// payloadDocumentID is the payload key carrying the owning document id,
// used for cascade deletion on re-ingestion.
const payloadDocumentID = "document_id"

// Config holds configuration for the Qdrant index.
type Config struct {
	// BaseURL is the Qdrant base URL (default: http://localhost:6333).
	BaseURL string

	// Collection is the collection name (default: company_docs).
	Collection string

	// Dimension is the embedding vector size (required).
	Dimension int

	// APIKey authenticates requests when Qdrant runs with an api key.
	APIKey string

	// Timeout is the per-request timeout (default: 10s).
	Timeout time.Duration
}

// Index stores and searches chunk vectors in a Qdrant collection.
type Index struct {
	client     *http.Client
	baseURL    string
	collection string
	dimension  int
	apiKey     string
}

// searchResult captures the fields returned by Qdrant search responses.
type searchResult struct {
	ID      any            `json:"id"`
	Score   float64        `json:"score"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// NewIndex creates the index and ensures the collection exists with a
// cosine distance of the configured dimension.
func NewIndex(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("qdrant: dimension is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	x := &Index{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		apiKey:     cfg.APIKey,
	}
	if err := x.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return x, nil
}

// ensureCollection creates the collection if it does not already exist.
func (x *Index) ensureCollection(ctx context.Context) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     x.dimension,
			"distance": "Cosine",
		},
	}
	err := x.doRequest(ctx, http.MethodPut, "/collections/"+x.collection, body, nil)
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return nil
	}
	return err
}

// Upsert inserts or replaces the given points.
func (x *Index) Upsert(ctx context.Context, points []driven.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}
	list := make([]any, 0, len(points))
	for _, p := range points {
		if len(p.Vector) != x.dimension {
			return x.storeErr("upsert", fmt.Errorf("point %q dimension mismatch: got %d, want %d",
				p.ChunkID, len(p.Vector), x.dimension))
		}
		list = append(list, map[string]any{
			"id":      p.ChunkID,
			"vector":  p.Vector,
			"payload": map[string]any{payloadDocumentID: p.DocumentID},
		})
	}
	body := map[string]any{"points": list}
	path := fmt.Sprintf("/collections/%s/points?wait=true", x.collection)
	return x.doRequest(ctx, http.MethodPut, path, body, nil)
}

// Search finds the k nearest neighbours, most similar first. Stored
// vectors are requested so the retriever can re-rank for diversity.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) != x.dimension {
		return nil, x.storeErr("search", fmt.Errorf("query dimension mismatch: got %d, want %d",
			len(query), x.dimension))
	}
	request := map[string]any{
		"vector":       query,
		"limit":        k,
		"with_payload": true,
		"with_vector":  true,
	}
	var response struct {
		Result []searchResult `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", x.collection)
	if err := x.doRequest(ctx, http.MethodPost, path, request, &response); err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, 0, len(response.Result))
	for _, res := range response.Result {
		docID, _ := res.Payload[payloadDocumentID].(string)
		hits = append(hits, driven.VectorHit{
			ChunkID:    fmt.Sprint(res.ID),
			DocumentID: docID,
			Similarity: res.Score,
			Vector:     res.Vector,
		})
	}
	return hits, nil
}

// DeleteByDocument removes all points whose payload references documentID.
func (x *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	request := map[string]any{
		"filter": map[string]any{
			"must": []any{
				map[string]any{
					"key":   payloadDocumentID,
					"match": map[string]any{"value": documentID},
				},
			},
		},
	}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", x.collection)
	return x.doRequest(ctx, http.MethodPost, path, request, nil)
}

// DeleteChunks removes the points with the given chunk ids.
func (x *Index) DeleteChunks(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	request := map[string]any{"points": chunkIDs}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", x.collection)
	return x.doRequest(ctx, http.MethodPost, path, request, nil)
}

// Close releases resources.
func (x *Index) Close() error {
	x.client.CloseIdleConnections()
	return nil
}

// doRequest performs one Qdrant API call and decodes the response into out.
func (x *Index) doRequest(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return x.storeErr("request", fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, method, x.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return x.storeErr("request", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return x.storeErr("request", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return x.storeErr("request", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Status struct {
				Error string `json:"error"`
			} `json:"status"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Status.Error != "" {
			return x.storeErr("request", fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Status.Error))
		}
		return x.storeErr("request", fmt.Errorf("status %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return x.storeErr("request", fmt.Errorf("decode response: %w", err))
		}
	}
	return nil
}

// storeErr wraps an error as a domain.StoreError.
func (x *Index) storeErr(op string, err error) error {
	return &domain.StoreError{Store: "qdrant", Op: op, Err: err}
}
