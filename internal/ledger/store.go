// Package ledger implements the append-only receipt ledger: emit, load, and
// integrity verification over an injected line-oriented store.
package ledger

import "context"

// Iterator walks stored lines in append order.
type Iterator interface {
	// Next returns the next line and true, or nil and false when exhausted.
	Next() ([]byte, bool)

	// Err reports any error that terminated iteration early.
	Err() error

	// Close releases resources held by the iterator.
	Close() error
}

// Store is the durable line store backing a Ledger. Append must preserve
// line framing under a single logical writer; implementations serialize
// concurrent appenders internally. Iterate returns a consistent snapshot of
// lines in append order.
type Store interface {
	// Append durably writes one complete line (without trailing newline).
	Append(ctx context.Context, line []byte) error

	// Iterate replays the store from the beginning.
	Iterate(ctx context.Context) (Iterator, error)

	// Close releases the store's resources.
	Close() error
}
