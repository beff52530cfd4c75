package history

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/deroproject/graviton"
	"github.com/prajalsharma/mezo-wallet/internal/logger"
)

const transactionsTree = "transactions"

// GravitonStore persists each (account, chainId) partition as a JSON array of
// records under its partition key, newest first, capped at maxEntries.
type GravitonStore struct {
	mu       sync.Mutex
	store    *graviton.Store
	notifier notifier
}

// NewGravitonStore opens (or creates) a Graviton database at the given path.
func NewGravitonStore(path string) (*GravitonStore, error) {
	store, err := graviton.NewDiskStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graviton store: %w", err)
	}
	return &GravitonStore{store: store}, nil
}

// NewMemoryStore opens an in-memory store, used by tests and dev mode.
func NewMemoryStore() (*GravitonStore, error) {
	store, err := graviton.NewMemStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open graviton memstore: %w", err)
	}
	return &GravitonStore{store: store}, nil
}

func (g *GravitonStore) Read(account string, chainID int64) []Transaction {
	if account == "" {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.readLocked(account, chainID)
}

func (g *GravitonStore) Append(account string, chainID int64, tx Transaction) {
	if account == "" {
		return
	}

	g.mu.Lock()
	current := g.readLocked(account, chainID)
	updated := append([]Transaction{tx}, current...)
	err := g.writeLocked(account, chainID, updated)
	g.mu.Unlock()

	if err != nil {
		logger.GetLogger().Error().Err(err).Str("hash", tx.Hash).Msg("Failed to persist transaction record")
		return
	}
	g.notifier.emit()
}

func (g *GravitonStore) Update(account string, chainID int64, hash string, changes Changes) {
	if account == "" {
		return
	}

	g.mu.Lock()
	current := g.readLocked(account, chainID)
	matched := false
	for i := range current {
		if current[i].Hash == hash {
			changes.apply(&current[i])
			matched = true
			break
		}
	}
	var err error
	if matched {
		err = g.writeLocked(account, chainID, current)
	}
	g.mu.Unlock()

	if !matched {
		return
	}
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("hash", hash).Msg("Failed to persist transaction update")
		return
	}
	g.notifier.emit()
}

func (g *GravitonStore) Subscribe(fn func()) func() {
	return g.notifier.subscribe(fn)
}

func (g *GravitonStore) Close() error {
	g.store.Close()
	return nil
}

// readLocked loads the partition's JSON array. Any storage or decode failure
// reads as an empty partition.
func (g *GravitonStore) readLocked(account string, chainID int64) []Transaction {
	ss, err := g.store.LoadSnapshot(0)
	if err != nil {
		return nil
	}
	tree, err := ss.GetTree(transactionsTree)
	if err != nil {
		return nil
	}
	raw, err := tree.Get([]byte(partitionKey(account, chainID)))
	if err != nil {
		return nil
	}

	var txs []Transaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		return nil
	}
	return txs
}

func (g *GravitonStore) writeLocked(account string, chainID int64, txs []Transaction) error {
	if len(txs) > maxEntries {
		txs = txs[:maxEntries]
	}

	raw, err := json.Marshal(txs)
	if err != nil {
		return err
	}

	ss, err := g.store.LoadSnapshot(0)
	if err != nil {
		return err
	}
	tree, err := ss.GetTree(transactionsTree)
	if err != nil {
		return err
	}
	if err := tree.Put([]byte(partitionKey(account, chainID)), raw); err != nil {
		return err
	}
	_, err = graviton.Commit(tree)
	return err
}
