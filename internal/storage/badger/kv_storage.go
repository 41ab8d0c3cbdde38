package badger

import (
	"context"
	"fmt"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// KVEntry represents a key-value pair stored in BadgerDB.
type KVEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

type kvStorage struct {
	store  *Store
	logger *common.Logger
}

// NewKVStorage creates a new KeyValueStore backed by BadgerHold.
func NewKVStorage(store *Store, logger *common.Logger) *kvStorage {
	return &kvStorage{store: store, logger: logger}
}

func (s *kvStorage) GetSystemKV(_ context.Context, key string) (string, error) {
	var entry KVEntry
	err := s.store.db.Get(key, &entry)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return "", fmt.Errorf("key '%s' not found", key)
		}
		return "", fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	return entry.Value, nil
}

func (s *kvStorage) SetSystemKV(_ context.Context, key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	if err := s.store.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (s *kvStorage) DeleteSystemKV(_ context.Context, key string) error {
	err := s.store.db.Delete(key, KVEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}
