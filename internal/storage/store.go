// Package storage persists card records in sqlite. It owns record
// lifecycle; the classification core only produces the price-field updates
// saved here.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/guarzo/cardgap/internal/model"
)

// cardRow is the persisted shape of a card record.
type cardRow struct {
	ID               string `gorm:"primaryKey"`
	Title            string `gorm:"not null"`
	SummaryTitle     string
	Sport            string `gorm:"index"`
	RawAveragePrice  float64
	Psa9AveragePrice float64
	Psa10Price       float64
	PriceComparisons string
	LastUpdated      *time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (cardRow) TableName() string { return "cards" }

// ErrNotFound is returned when a card id has no row.
var ErrNotFound = errors.New("card not found")

// Store wraps the sqlite database.
type Store struct {
	db *gorm.DB
}

// Open connects to the sqlite file at path and migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&cardRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// CreateCard inserts a new card record and returns it.
func (s *Store) CreateCard(title, summaryTitle string, sport model.Sport) (model.CardRecord, error) {
	row := cardRow{
		ID:           uuid.NewString(),
		Title:        title,
		SummaryTitle: summaryTitle,
		Sport:        string(sport),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return model.CardRecord{}, fmt.Errorf("create card: %w", err)
	}
	return toRecord(row), nil
}

// GetCard fetches one card by id.
func (s *Store) GetCard(id string) (model.CardRecord, error) {
	var row cardRow
	err := s.db.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CardRecord{}, ErrNotFound
	}
	if err != nil {
		return model.CardRecord{}, fmt.Errorf("get card %s: %w", id, err)
	}
	return toRecord(row), nil
}

// ListByIDs fetches the cards with the given ids, skipping missing ones.
func (s *Store) ListByIDs(ids []string) ([]model.CardRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []cardRow
	if err := s.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cards by id: %w", err)
	}
	return toRecords(rows), nil
}

// ListStale returns up to limit cards that have never been priced or whose
// prices are older than maxAge, never-priced first, then oldest first.
func (s *Store) ListStale(limit int, maxAge time.Duration) ([]model.CardRecord, error) {
	cutoff := time.Now().Add(-maxAge)
	var rows []cardRow
	err := s.db.
		Where("last_updated IS NULL OR last_updated < ?", cutoff).
		Order("last_updated IS NOT NULL, last_updated ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list stale cards: %w", err)
	}
	return toRecords(rows), nil
}

// SavePrices writes an aggregation pass's output onto a card and stamps
// LastUpdated.
func (s *Store) SavePrices(id string, up model.PriceUpdate) error {
	now := time.Now()
	res := s.db.Model(&cardRow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"raw_average_price":  up.RawAveragePrice,
		"psa9_average_price": up.Psa9AveragePrice,
		"psa10_price":        up.Psa10Price,
		"price_comparisons":  up.PriceComparisons,
		"last_updated":       &now,
	})
	if res.Error != nil {
		return fmt.Errorf("save prices for %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of card records.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&cardRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

func toRecord(row cardRow) model.CardRecord {
	rec := model.CardRecord{
		ID:               row.ID,
		Title:            row.Title,
		SummaryTitle:     row.SummaryTitle,
		Sport:            model.Sport(row.Sport),
		RawAveragePrice:  row.RawAveragePrice,
		Psa9AveragePrice: row.Psa9AveragePrice,
		Psa10Price:       row.Psa10Price,
		PriceComparisons: row.PriceComparisons,
	}
	if row.LastUpdated != nil {
		rec.LastUpdated = *row.LastUpdated
	}
	return rec
}

func toRecords(rows []cardRow) []model.CardRecord {
	out := make([]model.CardRecord, len(rows))
	for i, row := range rows {
		out[i] = toRecord(row)
	}
	return out
}
