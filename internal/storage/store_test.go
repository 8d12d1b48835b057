package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/guarzo/cardgap/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cards.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestCreateAndGetCard(t *testing.T) {
	s := testStore(t)

	created, err := s.CreateCard("2017 Prizm Patrick Mahomes RC #269", "2017 Prizm Patrick Mahomes", model.SportFootball)
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created card has no id")
	}

	got, err := s.GetCard(created.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.Title != created.Title || got.Sport != model.SportFootball {
		t.Errorf("got %+v, want the created card back", got)
	}
	if !got.LastUpdated.IsZero() {
		t.Error("a new card should have no LastUpdated stamp")
	}
}

func TestGetCardNotFound(t *testing.T) {
	s := testStore(t)

	if _, err := s.GetCard("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCard on missing id = %v, want ErrNotFound", err)
	}
}

func TestSavePrices(t *testing.T) {
	s := testStore(t)

	card, err := s.CreateCard("2018 Topps Update Shohei Ohtani", "", model.SportBaseball)
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	up := model.PriceUpdate{
		RawAveragePrice:  25,
		Psa9AveragePrice: 80,
		Psa10Price:       200,
		PriceComparisons: `{"rawToPsa10":{"dollarDiff":175}}`,
	}
	if err := s.SavePrices(card.ID, up); err != nil {
		t.Fatalf("SavePrices: %v", err)
	}

	got, err := s.GetCard(card.ID)
	if err != nil {
		t.Fatalf("GetCard: %v", err)
	}
	if got.RawAveragePrice != 25 || got.Psa9AveragePrice != 80 || got.Psa10Price != 200 {
		t.Errorf("price fields = %v/%v/%v, want 25/80/200", got.RawAveragePrice, got.Psa9AveragePrice, got.Psa10Price)
	}
	if got.PriceComparisons != up.PriceComparisons {
		t.Errorf("PriceComparisons = %q, want the saved blob", got.PriceComparisons)
	}
	if got.LastUpdated.IsZero() {
		t.Error("SavePrices should stamp LastUpdated")
	}
}

func TestSavePricesMissingCard(t *testing.T) {
	s := testStore(t)

	if err := s.SavePrices("missing", model.PriceUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SavePrices on missing id = %v, want ErrNotFound", err)
	}
}

func TestListStale(t *testing.T) {
	s := testStore(t)

	never, err := s.CreateCard("never priced", "", model.SportUnknown)
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := s.CreateCard("freshly priced", "", model.SportUnknown)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SavePrices(fresh.ID, model.PriceUpdate{RawAveragePrice: 1}); err != nil {
		t.Fatal(err)
	}

	stale, err := s.ListStale(10, time.Hour)
	if err != nil {
		t.Fatalf("ListStale: %v", err)
	}
	if len(stale) != 1 || stale[0].ID != never.ID {
		t.Errorf("ListStale = %v, want only the never-priced card", ids(stale))
	}

	// With a zero threshold everything is stale, never-priced first.
	all, err := s.ListStale(10, 0)
	if err != nil {
		t.Fatalf("ListStale: %v", err)
	}
	if len(all) != 2 || all[0].ID != never.ID {
		t.Errorf("ListStale(0) = %v, want never-priced first", ids(all))
	}
}

func TestListStaleLimit(t *testing.T) {
	s := testStore(t)

	for i := 0; i < 5; i++ {
		if _, err := s.CreateCard("unpriced card", "", model.SportUnknown); err != nil {
			t.Fatal(err)
		}
	}

	stale, err := s.ListStale(3, time.Hour)
	if err != nil {
		t.Fatalf("ListStale: %v", err)
	}
	if len(stale) != 3 {
		t.Errorf("ListStale returned %d cards, want the limit of 3", len(stale))
	}
}

func TestListByIDs(t *testing.T) {
	s := testStore(t)

	a, err := s.CreateCard("card a", "", model.SportUnknown)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateCard("card b", "", model.SportUnknown); err != nil {
		t.Fatal(err)
	}

	got, err := s.ListByIDs([]string{a.ID, "missing"})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("ListByIDs = %v, want just card a", ids(got))
	}

	empty, err := s.ListByIDs(nil)
	if err != nil || empty != nil {
		t.Errorf("ListByIDs(nil) = (%v, %v), want (nil, nil)", empty, err)
	}
}

func TestCount(t *testing.T) {
	s := testStore(t)

	if n, err := s.Count(); err != nil || n != 0 {
		t.Errorf("Count on empty store = (%d, %v), want (0, nil)", n, err)
	}
	if _, err := s.CreateCard("card", "", model.SportUnknown); err != nil {
		t.Fatal(err)
	}
	if n, err := s.Count(); err != nil || n != 1 {
		t.Errorf("Count = (%d, %v), want (1, nil)", n, err)
	}
}

func ids(cards []model.CardRecord) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}
