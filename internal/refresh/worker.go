// Package refresh runs the batch price-update job: it selects cards whose
// aggregates are stale, fetches their completed sales through the ranked
// search strategies, classifies and aggregates the results, and writes the
// new price fields back to storage.
package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/guarzo/cardgap/internal/aggregate"
	"github.com/guarzo/cardgap/internal/bucket"
	"github.com/guarzo/cardgap/internal/cache"
	"github.com/guarzo/cardgap/internal/filter"
	"github.com/guarzo/cardgap/internal/metrics"
	"github.com/guarzo/cardgap/internal/model"
	"github.com/guarzo/cardgap/internal/rules"
	"github.com/guarzo/cardgap/internal/search"
)

// Fetcher is a marketplace sold-sale source. Implementations coerce bad
// prices to 0 and drop empty titles before returning.
type Fetcher interface {
	Available() bool
	Source() string
	SearchSold(ctx context.Context, query string, max int) ([]model.SaleCandidate, error)
}

// Store is the slice of the storage layer the worker needs.
type Store interface {
	ListStale(limit int, maxAge time.Duration) ([]model.CardRecord, error)
	ListByIDs(ids []string) ([]model.CardRecord, error)
	SavePrices(id string, up model.PriceUpdate) error
}

// Config tunes one worker.
type Config struct {
	BatchSize  int           // cards per batch
	MaxAge     time.Duration // staleness threshold for selection
	MaxResults int           // sales requested per search
	Workers    int           // concurrent card refreshes
	RateLimit  rate.Limit    // card refreshes per second across workers
	CacheTTL   time.Duration // search-result cache lifetime
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 25
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 24 * time.Hour
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 100
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 2
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 6 * time.Hour
	}
	return c
}

// Worker is the batch price updater.
type Worker struct {
	store      Store
	fetchers   []Fetcher
	classifier rules.Classifier
	filter     *filter.Filter
	bucketizer *bucket.Bucketizer
	resultsCh  *cache.Cache // may be nil
	cfg        Config

	urgentMu sync.Mutex
	urgent   []string
}

// NewWorker wires a refresh worker. resultCache may be nil to disable
// search-result caching.
func NewWorker(store Store, fetchers []Fetcher, classifier rules.Classifier, resultCache *cache.Cache, cfg Config) *Worker {
	return &Worker{
		store:      store,
		fetchers:   fetchers,
		classifier: classifier,
		filter:     filter.New(classifier),
		bucketizer: bucket.New(classifier),
		resultsCh:  resultCache,
		cfg:        cfg.withDefaults(),
	}
}

// QueueRefresh puts a card at the front of the next batch and returns its
// queue position.
func (w *Worker) QueueRefresh(cardID string) int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()

	for i, id := range w.urgent {
		if id == cardID {
			return i + 1
		}
	}
	w.urgent = append(w.urgent, cardID)
	metrics.RefreshQueueSize.Set(float64(len(w.urgent)))
	return len(w.urgent)
}

// RunBatch refreshes one batch: urgent cards first, then the stalest.
// Returns how many cards were updated.
func (w *Worker) RunBatch(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RefreshBatchDuration.Observe(time.Since(start).Seconds())
	}()

	cards, err := w.selectBatch()
	if err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		return 0, nil
	}
	log.Printf("refresh: updating %d cards", len(cards))

	jobs := make(chan model.CardRecord, len(cards))
	for _, card := range cards {
		jobs <- card
	}
	close(jobs)

	limiter := rate.NewLimiter(w.cfg.RateLimit, w.cfg.Workers)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		updated int
	)
	for i := 0; i < w.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for card := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				if err := w.refreshCard(ctx, card); err != nil {
					log.Printf("refresh: card %s: %v", card.ID, err)
					continue
				}
				mu.Lock()
				updated++
				mu.Unlock()
				metrics.CardsUpdated.Inc()
			}
		}()
	}
	wg.Wait()

	return updated, ctx.Err()
}

// selectBatch pulls urgent ids first, then fills with stale cards.
func (w *Worker) selectBatch() ([]model.CardRecord, error) {
	w.urgentMu.Lock()
	urgentIDs := w.urgent
	if len(urgentIDs) > w.cfg.BatchSize {
		w.urgent = urgentIDs[w.cfg.BatchSize:]
		urgentIDs = urgentIDs[:w.cfg.BatchSize]
	} else {
		w.urgent = nil
	}
	metrics.RefreshQueueSize.Set(float64(len(w.urgent)))
	w.urgentMu.Unlock()

	cards, err := w.store.ListByIDs(urgentIDs)
	if err != nil {
		return nil, fmt.Errorf("load urgent cards: %w", err)
	}

	if remaining := w.cfg.BatchSize - len(cards); remaining > 0 {
		stale, err := w.store.ListStale(remaining, w.cfg.MaxAge)
		if err != nil {
			return nil, fmt.Errorf("load stale cards: %w", err)
		}
		seen := make(map[string]bool, len(cards))
		for _, c := range cards {
			seen[c.ID] = true
		}
		for _, c := range stale {
			if !seen[c.ID] {
				cards = append(cards, c)
			}
		}
	}
	return cards, nil
}

// refreshCard fetches, classifies, aggregates, and persists one card.
func (w *Worker) refreshCard(ctx context.Context, card model.CardRecord) error {
	candidates, err := w.fetchCandidates(ctx, card)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		// Every strategy came back empty: a data-quality gap, not an
		// error. Leave the card for the next batch.
		return nil
	}

	for _, c := range candidates {
		sport := w.classifier.DetectSport(c.Title)
		metrics.SportDetections.WithLabelValues(string(sport)).Inc()
	}

	buckets := w.bucketizer.Assign(candidates)
	for b, sales := range buckets {
		metrics.BucketAssignments.WithLabelValues(string(b)).Add(float64(len(sales)))
	}
	if dropped := len(candidates) - bucketed(buckets); dropped > 0 {
		metrics.DroppedLots.Add(float64(dropped))
	}

	_, comparisons := aggregate.Aggregate(buckets)
	comparisonsJSON, err := json.Marshal(comparisons)
	if err != nil {
		return fmt.Errorf("marshal comparisons: %w", err)
	}

	raw, psa9, psa10 := w.headlineAverages(candidates)
	return w.store.SavePrices(card.ID, model.PriceUpdate{
		RawAveragePrice:  raw,
		Psa9AveragePrice: psa9,
		Psa10Price:       psa10,
		PriceComparisons: string(comparisonsJSON),
	})
}

// fetchCandidates walks the card's ranked search strategies across the
// configured fetchers and stops at the first query that yields sales.
func (w *Worker) fetchCandidates(ctx context.Context, card model.CardRecord) ([]model.SaleCandidate, error) {
	strategy := search.BuildStrategies(card.Title, card.SummaryTitle)

	var lastErr error
	for _, query := range strategy.Queries {
		for _, f := range w.fetchers {
			if !f.Available() {
				continue
			}
			candidates, err := w.searchCached(ctx, f, query)
			if err != nil {
				metrics.FetchRequests.WithLabelValues(f.Source(), "error").Inc()
				lastErr = err
				continue
			}
			metrics.FetchRequests.WithLabelValues(f.Source(), "ok").Inc()
			if len(candidates) > 0 {
				return candidates, nil
			}
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all strategies failed: %w", lastErr)
	}
	return nil, nil
}

func (w *Worker) searchCached(ctx context.Context, f Fetcher, query string) ([]model.SaleCandidate, error) {
	if w.resultsCh == nil {
		return f.SearchSold(ctx, query, w.cfg.MaxResults)
	}

	key := cache.SalesKey(f.Source(), query)
	var cached []model.SaleCandidate
	if hit, err := w.resultsCh.Get(key, &cached); err == nil && hit {
		return cached, nil
	}

	candidates, err := f.SearchSold(ctx, query, w.cfg.MaxResults)
	if err != nil {
		return nil, err
	}
	if err := w.resultsCh.Put(key, candidates, w.cfg.CacheTTL); err != nil {
		log.Printf("refresh: cache write for %q: %v", query, err)
	}
	return candidates, nil
}

// headlineAverages computes the three card-level price fields from the
// candidates the listing filter accepts for each target.
func (w *Worker) headlineAverages(candidates []model.SaleCandidate) (raw, psa9, psa10 float64) {
	raw = w.filteredAverage(candidates, filter.TargetRaw)
	psa9 = w.filteredAverage(candidates, filter.TargetPSA9)
	psa10 = w.filteredAverage(candidates, filter.TargetPSA10)
	return raw, psa9, psa10
}

func (w *Worker) filteredAverage(candidates []model.SaleCandidate, target filter.Target) float64 {
	var sum float64
	n := 0
	for _, c := range candidates {
		if w.filter.Accepts(c, target) {
			metrics.FilterDecisions.WithLabelValues(string(target), "accepted").Inc()
			sum += c.Price
			n++
		} else {
			metrics.FilterDecisions.WithLabelValues(string(target), "rejected").Inc()
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}

func bucketed(buckets map[model.Bucket][]model.SaleCandidate) int {
	n := 0
	for _, sales := range buckets {
		n += len(sales)
	}
	return n
}
