package anchor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"claimtrace/anchor/types"
)

// NoopClient satisfies the Client interface without an external witness.
// Roots are retained in memory so FindRoot and AuditByTxID still answer
// within the process lifetime. Used when no anchor provider is configured
// and in tests.
type NoopClient struct {
	logger *log.Logger

	mu      sync.Mutex
	seq     uint64
	byRoot  map[string]string           // root -> txID
	byTxID  map[string]*types.AuditData // txID -> audit data
}

// NewNoopClient creates a NoopClient.
func NewNoopClient(logger *log.Logger) *NoopClient {
	return &NoopClient{
		logger: logger,
		byRoot: make(map[string]string),
		byTxID: make(map[string]*types.AuditData),
	}
}

// SubmitRoot records the root locally and returns a synthetic proof.
func (n *NoopClient) SubmitRoot(ctx context.Context, root, anchoredType, tenantID, timestamp string) (*types.Proof, error) {
	if root == "" {
		return nil, fmt.Errorf("root cannot be empty")
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	txID := fmt.Sprintf("noop-tx-%d", n.seq)
	n.byRoot[root] = txID
	n.byTxID[txID] = &types.AuditData{
		Root:            root,
		SubmitterTenant: tenantID,
		Timestamp:       timestamp,
	}

	n.logger.Printf("Noop anchor: recorded root %s (type: %s, tx: %s)", root, anchoredType, txID)
	return &types.Proof{TransactionID: txID, BlockHeight: n.seq, Root: root}, nil
}

// FindRoot returns the transaction ID recorded for root, or an error.
func (n *NoopClient) FindRoot(ctx context.Context, root string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	txID, ok := n.byRoot[root]
	if !ok {
		return "", fmt.Errorf("root %s not found", root)
	}
	return txID, nil
}

// AuditByTxID returns the audit data recorded under txID, or an error.
func (n *NoopClient) AuditByTxID(ctx context.Context, txID string) (*types.AuditData, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	data, ok := n.byTxID[txID]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", txID)
	}
	return data, nil
}

// Close is a no-op.
func (n *NoopClient) Close() error { return nil }

// Config returns nil: the noop client has no provider configuration.
func (n *NoopClient) Config() any { return nil }

var _ Client = (*NoopClient)(nil)
