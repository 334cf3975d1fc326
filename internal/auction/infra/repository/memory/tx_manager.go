package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// Snapshotter is a store that can capture its state and put it back.
type Snapshotter interface {
	Snapshot() (restore func())
}

// TxManager serializes units of work against the memory store. When fn fails
// every participating store is restored to its state before the unit began.
type TxManager struct {
	mu     sync.Mutex
	stores []Snapshotter
}

func NewTxManager(stores ...Snapshotter) *TxManager {
	return &TxManager{stores: stores}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.Snapshot())
	}
	defer func() {
		if r := recover(); r != nil {
			rollback(restores)
			panic(r)
		}
		if err != nil {
			rollback(restores)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

func rollback(restores []func()) {
	for _, restore := range restores {
		restore()
	}
}
