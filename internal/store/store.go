package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrUnavailable marks a failed read or write against the underlying
// database. Callers must surface it; a lost deadline record is never
// swallowed.
var ErrUnavailable = errors.New("persistence unavailable")

// Collection is one durable key-addressed record list, serialized opaquely.
type Collection struct {
	Name      string `gorm:"primaryKey"`
	Data      []byte `gorm:"type:blob"`
	UpdatedAt time.Time
}

func (Collection) TableName() string {
	return "collections"
}

// Initialize opens the SQLite database at dbPath and runs migrations.
func Initialize(dbPath string) (*gorm.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates the collections table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Collection{})
}

// Store is the durability boundary: a durable map from collection name to
// an opaque serialized list of records.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the serialized contents of a collection, or nil if the
// collection has never been written.
func (s *Store) Get(name string) ([]byte, error) {
	var col Collection
	err := s.db.First(&col, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", ErrUnavailable, name, err)
	}
	return col.Data, nil
}

// Put replaces the serialized contents of a collection.
func (s *Store) Put(name string, data []byte) error {
	col := Collection{Name: name, Data: data, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&col).Error
	if err != nil {
		return fmt.Errorf("%w: write %q: %v", ErrUnavailable, name, err)
	}
	return nil
}

// Delete removes a collection entirely. Missing collections are a no-op.
func (s *Store) Delete(name string) error {
	err := s.db.Delete(&Collection{}, "name = ?", name).Error
	if err != nil {
		return fmt.Errorf("%w: delete %q: %v", ErrUnavailable, name, err)
	}
	return nil
}
