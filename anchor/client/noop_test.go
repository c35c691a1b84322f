package anchor_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	anchor "claimtrace/anchor/client"
)

// TestNoopClientRoundTrip verifies a submitted root can be located and
// audited back through the synthetic transaction.
func TestNoopClientRoundTrip(t *testing.T) {
	client := anchor.NewNoopClient(log.New(os.Stderr, "[test] ", log.LstdFlags))
	defer client.Close()
	ctx := context.Background()

	proof, err := client.SubmitRoot(ctx, "root-abc", "claim_record", "tenant-a", "2024-06-01T12:00:00Z")
	require.NoError(t, err)
	require.Equal(t, "root-abc", proof.Root)
	require.Equal(t, uint64(1), proof.BlockHeight)
	require.NotEmpty(t, proof.TransactionID)

	txID, err := client.FindRoot(ctx, "root-abc")
	require.NoError(t, err)
	require.Equal(t, proof.TransactionID, txID)

	audit, err := client.AuditByTxID(ctx, txID)
	require.NoError(t, err)
	require.Equal(t, "root-abc", audit.Root)
	require.Equal(t, "tenant-a", audit.SubmitterTenant)
	require.Equal(t, "2024-06-01T12:00:00Z", audit.Timestamp)
}

// TestNoopClientRejectsEmptyRoot verifies an empty root is refused.
func TestNoopClientRejectsEmptyRoot(t *testing.T) {
	client := anchor.NewNoopClient(log.New(os.Stderr, "[test] ", log.LstdFlags))
	defer client.Close()

	_, err := client.SubmitRoot(context.Background(), "", "claim_record", "tenant-a", "")
	require.Error(t, err)
}

// TestNoopClientUnknownLookups verifies misses surface as errors.
func TestNoopClientUnknownLookups(t *testing.T) {
	client := anchor.NewNoopClient(log.New(os.Stderr, "[test] ", log.LstdFlags))
	defer client.Close()
	ctx := context.Background()

	_, err := client.FindRoot(ctx, "missing")
	require.Error(t, err)

	_, err = client.AuditByTxID(ctx, "noop-tx-99")
	require.Error(t, err)
}
