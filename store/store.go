package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned by single row lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// Store wraps the gorm handle with the queries the ingestion and read paths
// need. A Store bound to a transaction is obtained through InTx.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle, mostly for tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// InTx runs fn inside a single database transaction. fn must only use the
// Store it receives.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
