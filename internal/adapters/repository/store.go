// Package repository provides the opaque key-value persistence used for the
// selected race, session snapshots, and auth material. Values are stored as
// raw bytes; the JSON helpers treat corrupt payloads as absent so a bad disk
// state can never crash a caller.
package repository

import (
	"context"
	"encoding/json"
)

// Store is the persistence contract. Implementations are safe for
// concurrent use.
type Store interface {
	// Get returns the stored value, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores the value, overwriting any previous one.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any underlying resources.
	Close() error
}

// GetJSON decodes the stored value into dest. A corrupt payload is reported
// as ErrNotFound, never as a decode failure.
func GetJSON(ctx context.Context, s Store, key string, dest any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return ErrNotFound
	}
	return nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}
