// Package storage provides the storage manager fronting all persistence.
package storage

import (
	"fmt"

	"github.com/bobmcallan/bdcwatch/internal/common"
	"github.com/bobmcallan/bdcwatch/internal/interfaces"
	"github.com/bobmcallan/bdcwatch/internal/storage/badger"
)

// Compile-time interface check
var _ interfaces.StorageManager = (*Manager)(nil)

// Manager coordinates the BadgerHold-backed stores.
type Manager struct {
	store     *badger.Store
	bdc       interfaces.BDCStore
	holding   interfaces.HoldingStore
	watchlist interfaces.WatchlistStore
	kv        interfaces.KeyValueStore
	logger    *common.Logger
}

// NewManager opens the store at the configured path and wires the substores.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	return &Manager{
		store:     store,
		bdc:       badger.NewBDCStorage(store, logger),
		holding:   badger.NewHoldingStorage(store, logger),
		watchlist: badger.NewWatchlistStorage(store, logger),
		kv:        badger.NewKVStorage(store, logger),
		logger:    logger,
	}, nil
}

// BDCStore returns the BDC entity store.
func (m *Manager) BDCStore() interfaces.BDCStore {
	return m.bdc
}

// HoldingStore returns the holdings store.
func (m *Manager) HoldingStore() interfaces.HoldingStore {
	return m.holding
}

// WatchlistStore returns the watchlist document store.
func (m *Manager) WatchlistStore() interfaces.WatchlistStore {
	return m.watchlist
}

// KeyValueStore returns the system key-value store.
func (m *Manager) KeyValueStore() interfaces.KeyValueStore {
	return m.kv
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	if m.store != nil {
		return m.store.Close()
	}
	return nil
}
