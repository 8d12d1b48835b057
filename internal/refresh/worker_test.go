package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guarzo/cardgap/internal/model"
	"github.com/guarzo/cardgap/internal/rules"
)

type fakeStore struct {
	mu    sync.Mutex
	cards map[string]model.CardRecord
	saved map[string]model.PriceUpdate
}

func newFakeStore(cards ...model.CardRecord) *fakeStore {
	s := &fakeStore{
		cards: make(map[string]model.CardRecord),
		saved: make(map[string]model.PriceUpdate),
	}
	for _, c := range cards {
		s.cards[c.ID] = c
	}
	return s
}

func (s *fakeStore) ListStale(limit int, maxAge time.Duration) ([]model.CardRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CardRecord
	for _, c := range s.cards {
		if len(out) == limit {
			break
		}
		if time.Since(c.LastUpdated) > maxAge {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByIDs(ids []string) ([]model.CardRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CardRecord
	for _, id := range ids {
		if c, ok := s.cards[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeStore) SavePrices(id string, up model.PriceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[id] = up
	return nil
}

type fakeFetcher struct {
	mu      sync.Mutex
	sales   []model.SaleCandidate
	err     error
	queries []string
}

func (f *fakeFetcher) Available() bool { return true }
func (f *fakeFetcher) Source() string  { return "fake" }

func (f *fakeFetcher) SearchSold(_ context.Context, query string, _ int) ([]model.SaleCandidate, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.sales, f.err
}

func testWorker(t *testing.T, store Store, fetchers ...Fetcher) *Worker {
	t.Helper()
	classifier, err := rules.NewMemoized(rules.Default(), 256)
	if err != nil {
		t.Fatalf("NewMemoized: %v", err)
	}
	return NewWorker(store, fetchers, classifier, nil, Config{Workers: 1})
}

func TestRunBatchUpdatesPrices(t *testing.T) {
	store := newFakeStore(model.CardRecord{
		ID:    "card-1",
		Title: "2018 Topps Update Shohei Ohtani rookie",
	})
	fetcher := &fakeFetcher{
		sales: []model.SaleCandidate{
			{Title: "2018 Topps Update Shohei Ohtani rookie card", Price: 25},
			{Title: "2018 Topps Update Shohei Ohtani rookie PSA 10", Price: 200},
		},
	}

	w := testWorker(t, store, fetcher)
	updated, err := w.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if updated != 1 {
		t.Fatalf("updated = %d, want 1", updated)
	}

	up, ok := store.saved["card-1"]
	if !ok {
		t.Fatal("no price update saved for card-1")
	}
	if up.RawAveragePrice != 25 {
		t.Errorf("RawAveragePrice = %v, want 25", up.RawAveragePrice)
	}
	if up.Psa10Price != 200 {
		t.Errorf("Psa10Price = %v, want 200", up.Psa10Price)
	}
	if up.Psa9AveragePrice != 0 {
		t.Errorf("Psa9AveragePrice = %v, want 0 with no PSA 9 sales", up.Psa9AveragePrice)
	}

	var comps map[model.PairKey]model.Comparison
	if err := json.Unmarshal([]byte(up.PriceComparisons), &comps); err != nil {
		t.Fatalf("unmarshal comparisons: %v", err)
	}
	c, ok := comps[model.PairRawToPSA10]
	if !ok {
		t.Fatal("expected a rawToPsa10 comparison in the saved blob")
	}
	if c.DollarDiff != 175 {
		t.Errorf("DollarDiff = %v, want 175", c.DollarDiff)
	}
	if !strings.Contains(c.Description, "+700.0%") {
		t.Errorf("Description = %q, want it to contain +700.0%%", c.Description)
	}
}

func TestRunBatchNoSalesLeavesCardAlone(t *testing.T) {
	store := newFakeStore(model.CardRecord{ID: "card-1", Title: "2018 Topps Ohtani"})
	fetcher := &fakeFetcher{}

	w := testWorker(t, store, fetcher)
	updated, err := w.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	// An empty result set still counts as a completed refresh attempt.
	if updated != 1 {
		t.Fatalf("updated = %d, want 1", updated)
	}
	if _, ok := store.saved["card-1"]; ok {
		t.Error("no sales should mean no price write")
	}
	if len(fetcher.queries) == 0 {
		t.Error("fetcher was never consulted")
	}
}

func TestRunBatchFetcherErrorSkipsCard(t *testing.T) {
	store := newFakeStore(model.CardRecord{ID: "card-1", Title: "2018 Topps Shohei Ohtani"})
	fetcher := &fakeFetcher{err: errors.New("rate limited")}

	w := testWorker(t, store, fetcher)
	updated, err := w.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0 when every fetch fails", updated)
	}
	if _, ok := store.saved["card-1"]; ok {
		t.Error("failed fetches must not write prices")
	}
}

func TestRunBatchStopsAtFirstQueryWithResults(t *testing.T) {
	store := newFakeStore(model.CardRecord{
		ID:    "card-1",
		Title: "2018 Topps Update Shohei Ohtani rookie",
	})
	fetcher := &fakeFetcher{
		sales: []model.SaleCandidate{
			{Title: "2018 Topps Update Shohei Ohtani rookie card", Price: 25},
		},
	}

	w := testWorker(t, store, fetcher)
	if _, err := w.RunBatch(context.Background()); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if len(fetcher.queries) != 1 {
		t.Errorf("fetcher saw %d queries, want 1 (first strategy hit)", len(fetcher.queries))
	}
}

func TestQueueRefresh(t *testing.T) {
	store := newFakeStore()
	w := testWorker(t, store, &fakeFetcher{})

	if pos := w.QueueRefresh("a"); pos != 1 {
		t.Errorf("first queue position = %d, want 1", pos)
	}
	if pos := w.QueueRefresh("b"); pos != 2 {
		t.Errorf("second queue position = %d, want 2", pos)
	}
	// Re-queuing returns the existing position instead of duplicating.
	if pos := w.QueueRefresh("a"); pos != 1 {
		t.Errorf("re-queued position = %d, want 1", pos)
	}
}

func TestRunBatchUrgentFirst(t *testing.T) {
	stale := time.Now().Add(-48 * time.Hour)
	store := newFakeStore(
		model.CardRecord{ID: "urgent", Title: "2018 Topps Shohei Ohtani rookie", LastUpdated: time.Now()},
		model.CardRecord{ID: "stale", Title: "2017 Prizm Patrick Mahomes rookie", LastUpdated: stale},
	)
	fetcher := &fakeFetcher{
		sales: []model.SaleCandidate{
			{Title: "2018 Topps Shohei Ohtani rookie card", Price: 25},
		},
	}

	w := testWorker(t, store, fetcher)
	w.QueueRefresh("urgent")

	updated, err := w.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	// Both the urgent card and the stale card fit in one batch.
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
	if _, ok := store.saved["urgent"]; !ok {
		t.Error("urgent card was not refreshed")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.BatchSize != 25 || cfg.Workers != 4 || cfg.MaxResults != 100 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxAge != 24*time.Hour || cfg.CacheTTL != 6*time.Hour {
		t.Errorf("unexpected duration defaults: %+v", cfg)
	}
}
