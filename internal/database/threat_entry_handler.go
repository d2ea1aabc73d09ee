package database

import (
	"context"
	"errors"
	"time"

	"mailsift/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const threatInsertBatchSize = 500

// UpsertThreatEntries stores the entries, replacing country, tag and source of
// addresses that already exist. Entries must have unique addresses.
func UpsertThreatEntries(ctx context.Context, entries []domain.ThreatEntry) (int, error) {
	if DB == nil {
		return 0, errors.New("database not initialised")
	}
	if len(entries) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	records := make([]domain.ThreatEntry, len(entries))
	for i, e := range entries {
		records[i] = domain.ThreatEntry{
			Address:    e.Address,
			Country:    e.Country,
			Tag:        e.Tag,
			Source:     e.Source,
			LastSeenAt: now,
		}
	}

	db := DB
	if ctx != nil {
		db = db.WithContext(ctx)
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]any{
			"country":      gorm.Expr("EXCLUDED.country"),
			"tag":          gorm.Expr("EXCLUDED.tag"),
			"source":       gorm.Expr("EXCLUDED.source"),
			"last_seen_at": gorm.Expr("EXCLUDED.last_seen_at"),
		}),
	}).CreateInBatches(&records, threatInsertBatchSize).Error
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// ListThreatEntries returns stored entries in insertion order.
func ListThreatEntries(ctx context.Context) ([]domain.ThreatEntry, error) {
	if DB == nil {
		return nil, errors.New("database not initialised")
	}

	db := DB
	if ctx != nil {
		db = db.WithContext(ctx)
	}

	var entries []domain.ThreatEntry
	if err := db.Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
