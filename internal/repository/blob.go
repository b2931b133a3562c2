// Package repository persists named blobs for the password history.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrInvalidKey  = errors.New("invalid key")
	ErrUnknownKind = errors.New("unknown storage kind")
)

// BlobStore is a local key-value store of opaque values.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// validateKey rejects keys that cannot be mapped onto a single file name.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`+"\x00") {
		return ErrInvalidKey
	}
	return nil
}

// Open returns the store named by kind: "file" rooted at dir, or "memory".
func Open(kind, dir string) (BlobStore, error) {
	switch kind {
	case "file":
		s, err := NewFileStore(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
