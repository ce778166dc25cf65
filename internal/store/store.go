// Package store defines the key-value store the engine persists through and
// ships the in-memory and Redis backends. The SQL backend lives in package database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key does not exist
var ErrNotFound = errors.New("store: key not found")

// Store is a flat key-value store with prefix listing.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// ListKeys returns the keys starting with prefix in ascending order
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Key joins parts with ':'
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Prefix is Key with a trailing separator, for listing children
func Prefix(parts ...string) string {
	return Key(parts...) + ":"
}

// GetJSON loads key and decodes it into v
func GetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// ListJSON decodes every value under prefix. Keys that disappear between
// listing and reading are skipped.
func ListJSON[T any](ctx context.Context, s Store, prefix string) ([]T, error) {
	keys, err := s.ListKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		var v T
		if err := GetJSON(ctx, s, k, &v); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
