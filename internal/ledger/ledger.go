package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"claimtrace/internal/hashing"
	"claimtrace/internal/receipt"
)

// Durability selects how Emit treats a failed append.
type Durability string

const (
	// BestEffort logs append failures and still returns the in-memory
	// receipt: availability is preferred over durability.
	BestEffort Durability = "best_effort"

	// Strict surfaces the append failure to the caller alongside the
	// computed receipt.
	Strict Durability = "strict"
)

// Ledger is the append-only receipt store. It owns no long-lived state
// machine: a receipt's only lifecycle is create, persist, read.
type Ledger struct {
	store      Store
	tenant     string
	durability Durability
	maxRecords int
	logger     *log.Logger
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithDurability sets the append-failure policy (default BestEffort).
func WithDurability(d Durability) Option {
	return func(l *Ledger) { l.durability = d }
}

// WithMaxRecords bounds Load to the first n records, guarding memory when
// replaying an unbounded ledger inside a service. Zero means unbounded.
func WithMaxRecords(n int) Option {
	return func(l *Ledger) { l.maxRecords = n }
}

// New creates a Ledger over store for the given tenant identity.
func New(store Store, tenant string, logger *log.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:      store,
		tenant:     tenant,
		durability: BestEffort,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tenant returns the tenant identity receipts are emitted under.
func (l *Ledger) Tenant() string { return l.tenant }

// Emit stamps a UTC timestamp, computes the payload hash over the canonical
// payload serialization, appends the flattened receipt to the store, and
// returns the receipt. Payload keys must not shadow the reserved base
// fields. Under BestEffort a failed append is logged and the in-memory
// receipt is still returned with a nil error.
func (l *Ledger) Emit(ctx context.Context, receiptType string, payload map[string]interface{}) (receipt.Receipt, error) {
	if receiptType == "" {
		return receipt.Receipt{}, fmt.Errorf("ledger: receipt type is required")
	}
	for _, base := range receipt.BaseFields {
		if _, clash := payload[base]; clash {
			return receipt.Receipt{}, fmt.Errorf("ledger: payload field %q shadows a base field", base)
		}
	}

	payloadHash, err := receipt.ComputePayloadHash(payload)
	if err != nil {
		return receipt.Receipt{}, err
	}

	r := receipt.Receipt{
		ReceiptType: receiptType,
		TS:          time.Now().UTC(),
		TenantID:    l.tenant,
		PayloadHash: payloadHash,
		Payload:     payload,
	}

	line, err := json.Marshal(r.Flatten())
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("ledger: marshal receipt: %w", err)
	}

	if err := l.store.Append(ctx, line); err != nil {
		if l.durability == Strict {
			return r, fmt.Errorf("ledger: append %s receipt: %w", receiptType, err)
		}
		l.logger.Printf("Ledger append failed (type=%s, policy=best_effort): %v", receiptType, err)
	}
	return r, nil
}

// BatchResult reports a batch emission: per-item outcomes plus the Merkle
// anchor receipt covering the succeeded items.
type BatchResult struct {
	Receipts  []receipt.Receipt
	Succeeded int
	Failed    int
	Errors    []string
	Root      string
	Anchor    *receipt.Receipt
}

// EmitBatch emits one receipt per payload, never aborting the batch on an
// item failure, then anchors the batch with a receipt carrying the Merkle
// root of the succeeded payload hashes.
func (l *Ledger) EmitBatch(ctx context.Context, receiptType string, payloads []map[string]interface{}) (BatchResult, error) {
	res := BatchResult{}
	hashes := make([]interface{}, 0, len(payloads))

	for i, payload := range payloads {
		r, err := l.Emit(ctx, receiptType, payload)
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		res.Succeeded++
		res.Receipts = append(res.Receipts, r)
		hashes = append(hashes, r.PayloadHash)
	}

	root, err := hashing.MerkleRoot(hashes)
	if err != nil {
		return res, fmt.Errorf("ledger: batch merkle root: %w", err)
	}
	res.Root = root

	anchor, err := l.Emit(ctx, "batch_anchor", map[string]interface{}{
		"anchored_type": receiptType,
		"merkle_root":   root,
		"batch_size":    res.Succeeded,
		"error_count":   res.Failed,
	})
	if err != nil {
		return res, err
	}
	res.Anchor = &anchor
	return res, nil
}

// Load replays the store in emission order. Malformed lines are skipped and
// counted, never fatal; cancellation of ctx aborts the scan. When the ledger
// was built with WithMaxRecords the replay stops at that bound.
func (l *Ledger) Load(ctx context.Context) ([]receipt.Receipt, error) {
	it, err := l.store.Iterate(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger: iterate: %w", err)
	}
	defer it.Close()

	var receipts []receipt.Receipt
	skipped := 0
	for {
		line, ok := it.Next()
		if !ok {
			break
		}
		r, ok := decodeLine(line)
		if !ok {
			skipped++
			continue
		}
		receipts = append(receipts, r)
		if l.maxRecords > 0 && len(receipts) >= l.maxRecords {
			l.logger.Printf("Ledger load stopped at configured bound of %d records", l.maxRecords)
			break
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("ledger: scan: %w", err)
	}
	if skipped > 0 {
		l.logger.Printf("Ledger load skipped %d malformed line(s)", skipped)
	}
	return receipts, nil
}

// LoadByType replays the store and keeps only receipts of the given type.
func (l *Ledger) LoadByType(ctx context.Context, receiptType string) ([]receipt.Receipt, error) {
	all, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	filtered := all[:0:0]
	for _, r := range all {
		if r.ReceiptType == receiptType {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func decodeLine(line []byte) (receipt.Receipt, bool) {
	trimmed := strings.TrimSpace(string(line))
	if trimmed == "" {
		return receipt.Receipt{}, false
	}
	var flat map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &flat); err != nil {
		return receipt.Receipt{}, false
	}
	r, err := receipt.FromFlat(flat)
	if err != nil {
		return receipt.Receipt{}, false
	}
	return r, true
}
