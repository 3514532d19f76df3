package game

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/relancina/pkg/entities"
)

// fakeElasticsearch serves the handful of endpoints the repository calls
type fakeElasticsearch struct {
	mu           sync.Mutex
	indexCreated bool
	docs         map[string]*entities.RoundResult
	requests     []string
}

func newFakeElasticsearch() *fakeElasticsearch {
	return &fakeElasticsearch{docs: make(map[string]*entities.RoundResult)}
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodHead && len(parts) == 1:
		if !f.indexCreated {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && len(parts) == 1:
		f.indexCreated = true
		fmt.Fprint(w, `{"acknowledged":true}`)
	case (r.Method == http.MethodPut || r.Method == http.MethodPost) && len(parts) == 3 && parts[1] == "_doc":
		var doc entities.RoundResult
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.docs[parts[2]] = &doc
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"_id":%q,"result":"created"}`, parts[2])
	case len(parts) == 2 && parts[1] == "_search":
		hits := f.match(r)
		sort.Slice(hits, func(i, j int) bool { return hits[i].CompletedAt.After(hits[j].CompletedAt) })
		type hit struct {
			Source *entities.RoundResult `json:"_source"`
		}
		out := struct {
			Hits struct {
				Hits []hit `json:"hits"`
			} `json:"hits"`
		}{}
		for _, doc := range hits {
			out.Hits.Hits = append(out.Hits.Hits, hit{Source: doc})
		}
		json.NewEncoder(w).Encode(out)
	case len(parts) == 2 && parts[1] == "_delete_by_query":
		hits := f.match(r)
		for _, doc := range hits {
			delete(f.docs, doc.ID)
		}
		fmt.Fprintf(w, `{"deleted":%d}`, len(hits))
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"unexpected request"}`)
	}
}

// match understands the player query and the completedAt range query
func (f *fakeElasticsearch) match(r *http.Request) []*entities.RoundResult {
	var body struct {
		Query struct {
			Bool struct {
				Should []struct {
					Term map[string]string `json:"term"`
				} `json:"should"`
			} `json:"bool"`
			Range struct {
				CompletedAt struct {
					LT time.Time `json:"lt"`
				} `json:"completedAt"`
			} `json:"range"`
		} `json:"query"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	var out []*entities.RoundResult
	for _, doc := range f.docs {
		switch {
		case len(body.Query.Bool.Should) > 0:
			playerID := body.Query.Bool.Should[0].Term["houseId"]
			if doc.HouseID == playerID || seated(doc, playerID) {
				out = append(out, doc)
			}
		case !body.Query.Range.CompletedAt.LT.IsZero():
			if doc.CompletedAt.Before(body.Query.Range.CompletedAt.LT) {
				out = append(out, doc)
			}
		default:
			out = append(out, doc)
		}
	}
	return out
}

func seated(doc *entities.RoundResult, playerID string) bool {
	for _, p := range doc.Players {
		if p.PlayerID == playerID {
			return true
		}
	}
	return false
}

type ElasticsearchRepositoryTestSuite struct {
	suite.Suite
	ctx    context.Context
	fake   *fakeElasticsearch
	server *httptest.Server
	base   *MemoryRepository
	config *ElasticsearchConfig
	repo   *ElasticsearchRepository
}

func TestElasticsearchRepositorySuite(t *testing.T) {
	suite.Run(t, new(ElasticsearchRepositoryTestSuite))
}

func (s *ElasticsearchRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fake = newFakeElasticsearch()
	s.server = httptest.NewServer(s.fake)
	s.base = NewMemoryRepository()
	s.config = &ElasticsearchConfig{
		URL:         s.server.URL,
		IndexPrefix: "test",
		ArchivePath: filepath.Join(s.T().TempDir(), "archive"),
	}

	repo, err := NewElasticsearchRepository(s.ctx, s.base, s.config)
	s.Require().NoError(err)
	s.repo = repo
}

func (s *ElasticsearchRepositoryTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ElasticsearchRepositoryTestSuite) TestCreatesIndexOnce() {
	// Execute
	_, err := NewElasticsearchRepository(s.ctx, s.base, s.config)

	// Assert
	s.Require().NoError(err)
	creates := 0
	for _, req := range s.fake.requests {
		if req == "PUT /test_rounds" {
			creates++
		}
	}
	s.Equal(1, creates, "An existing index should not be created again")
	s.Equal("test_rounds", s.repo.IndexName())
}

func (s *ElasticsearchRepositoryTestSuite) TestSaveWritesBaseAndIndex() {
	// Setup
	round := newRound("g1", 1, "ana", baseTime, "bo", "cy")

	// Execute
	err := s.repo.SaveRoundResult(s.ctx, round)

	// Assert
	s.Require().NoError(err)
	s.Contains(s.fake.docs, round.ID)
	stored, err := s.base.GetGameResults(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(stored, 1)
}

func (s *ElasticsearchRepositoryTestSuite) TestGetPlayerResultsFromIndex() {
	// Setup
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 1, "ana", baseTime, "bo", "cy")))
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 2, "bo", baseTime.Add(time.Minute), "ana", "cy")))
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g2", 1, "dee", baseTime.Add(2*time.Minute), "eve", "fay")))

	// Execute
	results, err := s.repo.GetPlayerResults(s.ctx, "ana", 10)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(2, results[0].Round)
	s.Equal("bo", results[0].HouseID)
	s.Len(results[0].Players, 2)
}

func (s *ElasticsearchRepositoryTestSuite) TestPruneArchivesAndDeletes() {
	// Setup
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 1, "ana", baseTime, "bo", "cy")))
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 2, "ana", baseTime.Add(time.Hour), "bo", "cy")))

	// Execute
	pruned, err := s.repo.PruneBefore(s.ctx, baseTime.Add(time.Minute))

	// Assert
	s.Require().NoError(err)
	s.Equal(1, pruned)
	s.Len(s.fake.docs, 1)

	remaining, err := s.base.GetGameResults(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(remaining, 1, "The base repository should be pruned too")

	archived, err := os.ReadDir(s.config.ArchivePath)
	s.Require().NoError(err)
	s.Len(archived, 1)
}

func (s *ElasticsearchRepositoryTestSuite) TestIndexErrorIsReturned() {
	// Setup
	s.server.Close()

	// Execute
	err := s.repo.SaveRoundResult(s.ctx, newRound("g1", 1, "ana", baseTime, "bo", "cy"))

	// Assert
	s.Error(err)
}
