// Package qdrant provides a driven.VectorStore backed by a Qdrant collection,
// spoken to over its REST API.
//
// Points carry the chunk text and the orgId/documentId payload keys. The
// collection is created with cosine distance on the first upsert.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

const (
	// DefaultURL is the local Qdrant REST endpoint.
	DefaultURL = "http://localhost:6333"

	// DefaultCollection is used when Config.Collection is empty.
	DefaultCollection = "ragdesk_chunks"

	payloadText = "text"

	defaultTimeout = 30 * time.Second
)

// errCollectionMissing is returned by do when Qdrant answers 404.
var errCollectionMissing = errors.New("collection does not exist")

// Config configures the Qdrant store.
type Config struct {
	URL        string
	APIKey     string
	Collection string

	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// Store is a Qdrant-backed vector store.
type Store struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client

	mu    sync.Mutex
	ready bool
}

// New creates a Qdrant store. No request is made until first use.
func New(cfg Config) (*Store, error) {
	base := cfg.URL
	if base == "" {
		base = DefaultURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("%w: qdrant url %q", domain.ErrInvalidInput, base)
	}
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &Store{
		baseURL:    strings.TrimSuffix(base, "/"),
		apiKey:     cfg.APIKey,
		collection: collection,
		client:     client,
	}, nil
}

type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

type condition struct {
	Key   string `json:"key"`
	Match struct {
		Value string `json:"value"`
	} `json:"match"`
}

type filterBody struct {
	Must []condition `json:"must"`
}

type scoredPoint struct {
	ID      any            `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// Upsert creates the collection if needed and writes the points.
func (s *Store) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]point, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("%w: vector record without id", domain.ErrInvalidInput)
		}
		payload := map[string]any{payloadText: rec.Text}
		for k, v := range rec.Metadata.Map() {
			payload[k] = v
		}
		points = append(points, point{ID: rec.ID, Vector: rec.Embedding, Payload: payload})
	}

	if err := s.ensureCollection(ctx, len(records[0].Embedding)); err != nil {
		return err
	}

	body := map[string]any{"points": points}
	if err := s.do(ctx, http.MethodPut, s.collectionPath("/points?wait=true"), body, nil); err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	return nil
}

// Query searches the collection restricted to the filter.
func (s *Store) Query(ctx context.Context, vector []float32, k int, filter domain.MetadataFilter) ([]domain.VectorHit, error) {
	f, err := buildFilter(filter)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = domain.DefaultTopK
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
		"filter":       f,
	}
	var resp struct {
		Result []scoredPoint `json:"result"`
	}
	err = s.do(ctx, http.MethodPost, s.collectionPath("/points/search"), body, &resp)
	if errors.Is(err, errCollectionMissing) {
		return []domain.VectorHit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}

	hits := make([]domain.VectorHit, 0, len(resp.Result))
	for _, p := range resp.Result {
		hits = append(hits, domain.VectorHit{
			ID:       fmt.Sprint(p.ID),
			Text:     payloadString(p.Payload, payloadText),
			Metadata: domain.NewVectorMetadata(payloadString(p.Payload, domain.MetadataOrganizationID), payloadString(p.Payload, domain.MetadataDocumentID)),
			Score:    p.Score,
		})
	}
	return hits, nil
}

// DeleteByFilter counts the matching points and then deletes them.
func (s *Store) DeleteByFilter(ctx context.Context, filter domain.MetadataFilter) (int, error) {
	f, err := buildFilter(filter)
	if err != nil {
		return 0, err
	}

	var count struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	err = s.do(ctx, http.MethodPost, s.collectionPath("/points/count"), map[string]any{"filter": f, "exact": true}, &count)
	if errors.Is(err, errCollectionMissing) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	if count.Result.Count == 0 {
		return 0, nil
	}

	if err := s.do(ctx, http.MethodPost, s.collectionPath("/points/delete?wait=true"), map[string]any{"filter": f}, nil); err != nil {
		return 0, fmt.Errorf("delete points: %w", err)
	}
	return count.Result.Count, nil
}

// Close releases idle connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) ensureCollection(ctx context.Context, dim int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	err := s.do(ctx, http.MethodGet, s.collectionPath(""), nil, nil)
	switch {
	case err == nil:
	case errors.Is(err, errCollectionMissing):
		body := map[string]any{"vectors": map[string]any{"size": dim, "distance": "Cosine"}}
		if err := s.do(ctx, http.MethodPut, s.collectionPath(""), body, nil); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
	default:
		return fmt.Errorf("get collection: %w", err)
	}

	s.ready = true
	return nil
}

func (s *Store) collectionPath(suffix string) string {
	return "/collections/" + url.PathEscape(s.collection) + suffix
}

func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send request: %w", domain.ErrVectorIndexUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errCollectionMissing
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("qdrant returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
		}
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// buildFilter renders a must-filter over the payload keys.
func buildFilter(filter domain.MetadataFilter) (filterBody, error) {
	if filter.IsEmpty() {
		return filterBody{}, domain.ErrUnscopedQuery
	}

	var f filterBody
	add := func(key, value string) {
		c := condition{Key: key}
		c.Match.Value = value
		f.Must = append(f.Must, c)
	}
	if filter.OrganizationID != "" {
		add(domain.MetadataOrganizationID, filter.OrganizationID)
	}
	if filter.DocumentID != "" {
		add(domain.MetadataDocumentID, filter.DocumentID)
	}
	return f, nil
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
