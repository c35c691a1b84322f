package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"claimtrace/internal/receipt"
)

// ErrCorrupt marks a structural failure found during integrity verification.
// Unlike Load, which skips malformed lines, Verify treats corruption as a
// hard stop: a corrupted audit trail invalidates downstream trust.
type ErrCorrupt struct {
	Line   int64
	Reason string
}

func (e *ErrCorrupt) Error() string {
	return fmt.Sprintf("ledger: corrupt receipt at line %d: %s", e.Line, e.Reason)
}

// VerifyReport summarizes an integrity pass over the ledger.
type VerifyReport struct {
	OK       bool
	Checked  int64
	LastHash string
}

// Verify replays the whole store and checks every line structurally: it must
// decode to a receipt with valid base fields and tenant, and its payload
// hash must match a recomputation over the canonical payload. The first
// failure aborts with *ErrCorrupt.
func (l *Ledger) Verify(ctx context.Context) (VerifyReport, error) {
	report := VerifyReport{}

	it, err := l.store.Iterate(ctx)
	if err != nil {
		return report, fmt.Errorf("ledger: iterate: %w", err)
	}
	defer it.Close()

	var lineNo int64
	for {
		line, ok := it.Next()
		if !ok {
			break
		}
		lineNo++
		if strings.TrimSpace(string(line)) == "" {
			continue
		}

		var flat map[string]interface{}
		if err := json.Unmarshal(line, &flat); err != nil {
			return report, &ErrCorrupt{Line: lineNo, Reason: fmt.Sprintf("invalid JSON: %v", err)}
		}
		r, err := receipt.FromFlat(flat)
		if err != nil {
			return report, &ErrCorrupt{Line: lineNo, Reason: err.Error()}
		}
		if ok, reason := receipt.Validate(r, l.tenant); !ok {
			return report, &ErrCorrupt{Line: lineNo, Reason: reason}
		}

		recomputed, err := receipt.ComputePayloadHash(r.Payload)
		if err != nil {
			return report, &ErrCorrupt{Line: lineNo, Reason: fmt.Sprintf("recompute hash: %v", err)}
		}
		if recomputed != r.PayloadHash {
			return report, &ErrCorrupt{Line: lineNo, Reason: fmt.Sprintf("payload hash mismatch: expected %s, got %s", recomputed, r.PayloadHash)}
		}

		report.Checked++
		report.LastHash = r.PayloadHash
	}
	if err := it.Err(); err != nil {
		return report, fmt.Errorf("ledger: scan: %w", err)
	}

	report.OK = true
	return report, nil
}
