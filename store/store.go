// Package store persists font atlases in a sqlite database.
//
// Each atlas is stored as one row holding its encoded bytes. Rows that no
// longer decode, for example after a format version change, are deleted on
// load and reported as a miss so that the caller regenerates the atlas.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/gogpu/sdfatlas"
	"github.com/gogpu/sdfatlas/cache"
)

// AtlasRecord is one persisted atlas.
type AtlasRecord struct {
	gorm.Model
	Key     string `gorm:"column:atlas_key;uniqueIndex"`
	Font    string
	Version uint16
	Blob    []byte
}

// Store is a sqlite-backed atlas store. It implements cache.Backend.
//
// Store is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

// Open opens or creates the database at path and migrates its schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&AtlasRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load returns the atlas stored under key. A missing row is a miss. A row
// that fails to decode is deleted and also reported as a miss.
func (s *Store) Load(ctx context.Context, key cache.Key) (*sdfatlas.FontAtlas, bool, error) {
	var rec AtlasRecord
	err := s.db.WithContext(ctx).First(&rec, "atlas_key = ?", key.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: load: %w", err)
	}

	atlas := new(sdfatlas.FontAtlas)
	if err := atlas.UnmarshalBinary(rec.Blob); err != nil {
		if !errors.Is(err, sdfatlas.ErrFormat) {
			return nil, false, fmt.Errorf("store: load: %w", err)
		}
		sdfatlas.Logger().Warn("store: dropping stale atlas",
			"key", rec.Key, "version", rec.Version, "err", err)
		if err := s.db.WithContext(ctx).Unscoped().Delete(&rec).Error; err != nil {
			return nil, false, fmt.Errorf("store: delete stale atlas: %w", err)
		}
		return nil, false, nil
	}
	return atlas, true, nil
}

// Save stores atlas under key, replacing any previous row.
func (s *Store) Save(ctx context.Context, key cache.Key, atlas *sdfatlas.FontAtlas) error {
	blob, err := atlas.MarshalBinary()
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	rec := AtlasRecord{
		Key:     key.String(),
		Font:    atlas.FontName,
		Version: sdfatlas.FormatVersion,
		Blob:    blob,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "atlas_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"font", "version", "blob", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

// Delete removes the row stored under key. Deleting a missing key is not an
// error.
func (s *Store) Delete(ctx context.Context, key cache.Key) error {
	err := s.db.WithContext(ctx).Unscoped().
		Where("atlas_key = ?", key.String()).
		Delete(&AtlasRecord{}).Error
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	return nil
}

// Keys returns the keys of all stored atlases in insertion order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&AtlasRecord{}).Order("id").Pluck("atlas_key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("store: keys: %w", err)
	}
	return keys, nil
}

var _ cache.Backend = (*Store)(nil)
