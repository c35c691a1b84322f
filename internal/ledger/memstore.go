package ledger

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store used by tests and ephemeral pipelines.
type MemStore struct {
	mu    sync.RWMutex
	lines [][]byte

	// FailAppends forces Append to return appendErr, for exercising the
	// ledger's durability policy without a faulty filesystem.
	FailAppends bool
}

// appendErr is the error surfaced when FailAppends is set.
type appendError struct{}

func (appendError) Error() string { return "memstore: append disabled" }

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Append(ctx context.Context, line []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAppends {
		return appendError{}
	}
	cp := make([]byte, len(line))
	copy(cp, line)
	s.lines = append(s.lines, cp)
	return nil
}

func (s *MemStore) Iterate(ctx context.Context) (Iterator, error) {
	s.mu.RLock()
	snapshot := make([][]byte, len(s.lines))
	copy(snapshot, s.lines)
	s.mu.RUnlock()
	return &memIterator{ctx: ctx, lines: snapshot}, nil
}

func (s *MemStore) Close() error { return nil }

// Len reports the number of stored lines.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

type memIterator struct {
	ctx   context.Context
	lines [][]byte
	pos   int
	err   error
}

func (it *memIterator) Next() ([]byte, bool) {
	if err := it.ctx.Err(); err != nil {
		it.err = err
		return nil, false
	}
	if it.pos >= len(it.lines) {
		return nil, false
	}
	line := it.lines[it.pos]
	it.pos++
	return line, true
}

func (it *memIterator) Err() error   { return it.err }
func (it *memIterator) Close() error { return nil }

var _ Store = (*MemStore)(nil)
