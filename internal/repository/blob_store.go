package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrKeyNotFound is returned by a BlobStore when nothing is stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// BlobStore is a string-keyed store of opaque values. The whole collection
// lives under one key and is rewritten on every mutation.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// getTime reads an RFC 3339 timestamp; a missing key yields nil.
func getTime(ctx context.Context, store BlobStore, key string) (*time.Time, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	return &t, nil
}

func setTime(ctx context.Context, store BlobStore, key string, t time.Time) error {
	return store.Set(ctx, key, []byte(t.UTC().Format(time.RFC3339Nano)))
}
