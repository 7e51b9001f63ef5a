package lock

import (
	"context"
	"sync"
)

// MemoryLocker serializes writers per property inside a single process. Each
// property id gets its own channel-based mutex so acquisition can respect
// context cancellation.
type MemoryLocker struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{gates: make(map[string]chan struct{})}
}

func (l *MemoryLocker) Lock(ctx context.Context, propertyID string) (func(), error) {
	l.mu.Lock()
	gate, ok := l.gates[propertyID]
	if !ok {
		gate = make(chan struct{}, 1)
		l.gates[propertyID] = gate
	}
	l.mu.Unlock()

	select {
	case gate <- struct{}{}:
		return func() { <-gate }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
