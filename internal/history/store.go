package history

import (
	"fmt"
	"sync"
)

const (
	// maxEntries bounds the persisted sequence per partition; the oldest
	// record is evicted silently once the cap is reached.
	maxEntries = 50

	keyPrefix = "mezo-wallet-txs"
)

// BackendType represents the storage backend holding the history records
type BackendType string

const (
	// BackendGraviton stores each partition as a JSON array under one key
	BackendGraviton BackendType = "graviton"
	// BackendSQLite stores one row per record via GORM
	BackendSQLite BackendType = "sqlite"
)

// Store is the durable, partition-scoped transaction history.
//
// Read never fails toward the caller: a missing account, an absent partition
// or malformed underlying storage all read as an empty sequence. Append and
// Update notify subscribers after the mutation is durable.
type Store interface {
	Read(account string, chainID int64) []Transaction
	Append(account string, chainID int64, tx Transaction)
	Update(account string, chainID int64, hash string, changes Changes)
	Subscribe(fn func()) (unsubscribe func())
	Close() error
}

// Open initializes the history store using the configured backend.
func Open(backend BackendType, path string) (Store, error) {
	switch backend {
	case BackendGraviton:
		return NewGravitonStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}

// partitionKey namespaces a record collection by account and chain.
func partitionKey(account string, chainID int64) string {
	return fmt.Sprintf("%s-%s-%d", keyPrefix, account, chainID)
}

// notifier is the subscriber registry shared by both backends. Callbacks are
// invoked after the store lock is released so a subscriber may re-read.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

func (n *notifier) subscribe(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[int]func())
	}
	id := n.next
	n.next++
	n.subs[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) emit() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
