package anchor

import (
	"context"

	"claimtrace/anchor/types"
)

// Client defines the generic interface for anchoring Merkle roots to an
// external witness. Implementations are provider-agnostic: a blockchain,
// a timestamping service, or a no-op for deployments that keep the ledger
// self-contained.
type Client interface {
	// SubmitRoot anchors a batch Merkle root with its metadata
	SubmitRoot(ctx context.Context, root, anchoredType, tenantID, timestamp string) (*types.Proof, error)

	// FindRoot queries the witness for a previously anchored root
	FindRoot(ctx context.Context, root string) (string, error)

	// AuditByTxID retrieves the anchoring event behind a transaction for public audit
	AuditByTxID(ctx context.Context, txID string) (*types.AuditData, error)

	// Close closes the client and releases resources
	Close() error

	// Config returns the configuration associated with the client
	Config() any // Return any to accommodate different provider config types
}
