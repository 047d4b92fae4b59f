package database

import (
	"context"
	"errors"
)

// ErrEmptyKey is returned when a backend operation is given an empty key.
var ErrEmptyKey = errors.New("document key cannot be empty")

// Document is one row of the documents table: a key holding a JSON value.
// UpdatedAt is an RFC 3339 UTC timestamp kept for inspection only.
type Document struct {
	Key       string `db:"doc_key"`
	Value     string `db:"value"`
	UpdatedAt string `db:"updated_at"`
}

// Store is a key-value namespace of JSON documents. Every Put replaces the whole value.
type Store interface {
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// RunSQLMaintenance compacts the backend storage.
	RunSQLMaintenance(ctx context.Context) error
}
