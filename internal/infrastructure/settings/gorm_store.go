package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// settingsRowID is the primary key of the single settings document row
const settingsRowID = 1

// settingsModel is the GORM model for the settings document. The document is
// stored as one JSON blob in a single row so the merge/replace semantics
// stay identical to the file backend.
type settingsModel struct {
	ID        int       `gorm:"primaryKey"`
	Document  string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the GORM table name
func (settingsModel) TableName() string {
	return "sync_settings"
}

// GormStore persists the settings document in a sqlite database through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens (or creates) the sqlite database at dsn and migrates
// the settings table.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("settings: open sqlite %s: %w", dsn, err)
	}
	if err := db.AutoMigrate(&settingsModel{}); err != nil {
		return nil, fmt.Errorf("settings: migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// NewGormStoreWithDB wraps an already-open GORM connection, for tests
func NewGormStoreWithDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&settingsModel{}); err != nil {
		return nil, fmt.Errorf("settings: migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Get implements Store
func (s *GormStore) Get(ctx context.Context) (Settings, error) {
	return s.read(ctx, s.db)
}

// Merge implements Store
func (s *GormStore) Merge(ctx context.Context, patch Patch) (Settings, error) {
	var out Settings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.read(ctx, tx)
		if err != nil {
			return err
		}
		cur.apply(patch)
		if err := s.write(ctx, tx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	return out, err
}

// ReplaceWarehouseMap implements Store
func (s *GormStore) ReplaceWarehouseMap(ctx context.Context, m map[string]string) (Settings, error) {
	var out Settings
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.read(ctx, tx)
		if err != nil {
			return err
		}
		cur.WarehouseMap = m
		if err := s.write(ctx, tx, cur); err != nil {
			return err
		}
		out = cur
		return nil
	})
	return out, err
}

func (s *GormStore) read(ctx context.Context, db *gorm.DB) (Settings, error) {
	var row settingsModel
	err := db.WithContext(ctx).First(&row, settingsRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("settings: query: %w", err)
	}
	var out Settings
	if err := json.Unmarshal([]byte(row.Document), &out); err != nil {
		return Settings{}, fmt.Errorf("settings: parse document: %w", err)
	}
	return out, nil
}

func (s *GormStore) write(ctx context.Context, db *gorm.DB, v Settings) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	row := settingsModel{ID: settingsRowID, Document: string(data)}
	return db.WithContext(ctx).Save(&row).Error
}

var _ Store = (*GormStore)(nil)
