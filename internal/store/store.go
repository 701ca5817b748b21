// Package store is the persistence layer. Handlers go through the Store
// rather than the ORM directly, so joined reads come back as fully-hydrated
// aggregates and multi-statement writes stay inside one transaction.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTransition is returned when a bill status change is not
	// allowed from the bill's current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Store wraps the database handle with typed data-access methods.
type Store struct {
	db *gorm.DB
}

// New creates a Store backed by the given database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
