package game

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/fadedpez/relancina/pkg/entities"
)

// maxSearchSize is the largest page Elasticsearch serves without scrolling
const maxSearchSize = 10000

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
	ArchivePath string // Pruned rounds are written here as gzipped JSON lines; empty disables archiving
	// Transport overrides the HTTP transport, mostly for tests
	Transport http.RoundTripper
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:         "http://localhost:9200",
		IndexPrefix: "relancina",
	}
}

// ElasticsearchRepository indexes rounds for search while a base repository
// stays the system of record
type ElasticsearchRepository struct {
	baseRepo    Repository
	client      *elasticsearch.Client
	config      *ElasticsearchConfig
	roundsIndex string
}

// NewElasticsearchRepository creates a new Elasticsearch repository and its index
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	if config.IndexPrefix == "" {
		config.IndexPrefix = "relancina"
	}

	repo := &ElasticsearchRepository{
		baseRepo:    baseRepo,
		client:      client,
		config:      config,
		roundsIndex: config.IndexPrefix + "_rounds",
	}

	if err := repo.initIndices(ctx); err != nil {
		return nil, fmt.Errorf("error initializing indices: %w", err)
	}

	return repo, nil
}

// initIndices creates the rounds index if it doesn't exist
func (r *ElasticsearchRepository) initIndices(ctx context.Context) error {
	res, err := r.client.Indices.Exists([]string{r.roundsIndex}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if rounds index exists: %w", err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	roundsMapping := `{
		"mappings": {
			"properties": {
				"id": { "type": "keyword" },
				"gameId": { "type": "keyword" },
				"round": { "type": "integer" },
				"houseId": { "type": "keyword" },
				"reason": { "type": "keyword" },
				"houseScore": { "type": "float" },
				"houseBust": { "type": "boolean" },
				"houseNet": { "type": "long" },
				"completedAt": { "type": "date" },
				"players": {
					"type": "nested",
					"properties": {
						"playerId": { "type": "keyword" },
						"name": { "type": "keyword" },
						"outcome": { "type": "keyword" },
						"bet": { "type": "long" },
						"multiplier": { "type": "integer" },
						"creditsChange": { "type": "long" },
						"creditsAfter": { "type": "long" },
						"score": { "type": "float" },
						"special": { "type": "keyword" },
						"bust": { "type": "boolean" },
						"cards": { "type": "keyword" },
						"eliminated": { "type": "boolean" }
					}
				},
				"ledger": { "type": "object", "enabled": false }
			}
		}
	}`

	req := esapi.IndicesCreateRequest{
		Index: r.roundsIndex,
		Body:  strings.NewReader(roundsMapping),
	}
	createRes, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error creating rounds index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("error creating rounds index: %s", createRes.String())
	}
	return nil
}

// SaveRoundResult stores the round in the base repository, then indexes it
func (r *ElasticsearchRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	if err := r.baseRepo.SaveRoundResult(ctx, result); err != nil {
		return err
	}
	return r.IndexRoundResult(ctx, result)
}

// IndexRoundResult indexes a round under its id
func (r *ElasticsearchRepository) IndexRoundResult(ctx context.Context, result *entities.RoundResult) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error marshaling round result: %w", err)
	}

	res, err := r.client.Index(
		r.roundsIndex,
		bytes.NewReader(jsonData),
		r.client.Index.WithDocumentID(result.ID),
		r.client.Index.WithContext(ctx),
		r.client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("error indexing round result: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing round result: %s", res.String())
	}
	return nil
}

// GetPlayerResults searches the rounds a player sat in as house or player
func (r *ElasticsearchRepository) GetPlayerResults(ctx context.Context, playerID string, limit int) ([]*entities.RoundResult, error) {
	if limit <= 0 || limit > maxSearchSize {
		limit = maxSearchSize
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{"term": map[string]interface{}{"houseId": playerID}},
					map[string]interface{}{
						"nested": map[string]interface{}{
							"path":  "players",
							"query": map[string]interface{}{"term": map[string]interface{}{"players.playerId": playerID}},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []interface{}{
			map[string]interface{}{"completedAt": map[string]interface{}{"order": "desc"}},
		},
	}

	return r.search(ctx, query, limit)
}

// GetGameResults delegates to the base repository
func (r *ElasticsearchRepository) GetGameResults(ctx context.Context, gameID string) ([]*entities.RoundResult, error) {
	return r.baseRepo.GetGameResults(ctx, gameID)
}

// ListPlayerIDs delegates to the base repository
func (r *ElasticsearchRepository) ListPlayerIDs(ctx context.Context) ([]string, error) {
	return r.baseRepo.ListPlayerIDs(ctx)
}

// PruneBefore archives and deletes indexed rounds completed before cutoff.
// The base repository is pruned too when it supports it.
func (r *ElasticsearchRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	rangeQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"completedAt": map[string]interface{}{"lt": cutoff.UTC().Format(time.RFC3339Nano)},
			},
		},
	}

	if r.config.ArchivePath != "" {
		old, err := r.search(ctx, rangeQuery, maxSearchSize)
		if err != nil {
			return 0, err
		}
		if len(old) > 0 {
			if err := r.archive(old); err != nil {
				return 0, err
			}
		}
	}

	body, err := json.Marshal(rangeQuery)
	if err != nil {
		return 0, err
	}
	res, err := r.client.DeleteByQuery(
		[]string{r.roundsIndex},
		bytes.NewReader(body),
		r.client.DeleteByQuery.WithContext(ctx),
		r.client.DeleteByQuery.WithRefresh(true),
	)
	if err != nil {
		return 0, fmt.Errorf("error pruning rounds: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("error pruning rounds: %s", res.String())
	}

	var deleted struct {
		Deleted int `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&deleted); err != nil {
		return 0, fmt.Errorf("error parsing prune response: %w", err)
	}

	if pruner, ok := r.baseRepo.(Pruner); ok {
		if _, err := pruner.PruneBefore(ctx, cutoff); err != nil {
			return deleted.Deleted, err
		}
	}
	return deleted.Deleted, nil
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}

// IndexName returns the rounds index name
func (r *ElasticsearchRepository) IndexName() string {
	return r.roundsIndex
}

func (r *ElasticsearchRepository) search(ctx context.Context, query map[string]interface{}, size int) ([]*entities.RoundResult, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.roundsIndex),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithSize(size),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching rounds: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching rounds: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source entities.RoundResult `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing rounds: %w", err)
	}

	rounds := make([]*entities.RoundResult, 0, len(result.Hits.Hits))
	for i := range result.Hits.Hits {
		rounds = append(rounds, &result.Hits.Hits[i].Source)
	}
	return rounds, nil
}

// archive writes rounds to a timestamped gzip file of JSON lines
func (r *ElasticsearchRepository) archive(rounds []*entities.RoundResult) error {
	if err := os.MkdirAll(r.config.ArchivePath, 0755); err != nil {
		return fmt.Errorf("error creating archive directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.jsonl.gz", r.roundsIndex, time.Now().UTC().Format("20060102T150405"))
	file, err := os.Create(filepath.Join(r.config.ArchivePath, name))
	if err != nil {
		return fmt.Errorf("error creating archive file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if err := writeJSONLines(gz, rounds); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

func writeJSONLines(w io.Writer, rounds []*entities.RoundResult) error {
	enc := json.NewEncoder(w)
	for _, round := range rounds {
		if err := enc.Encode(round); err != nil {
			return fmt.Errorf("error archiving round %s: %w", round.ID, err)
		}
	}
	return nil
}
