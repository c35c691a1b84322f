// Package receipt defines the immutable audit record emitted into the ledger
// and its structural validation rules.
package receipt

import (
	"fmt"
	"time"

	"claimtrace/internal/hashing"
)

// Base field names shared by every receipt on the wire. Payload fields are
// flattened into the same JSON object and must not collide with these.
const (
	FieldType   = "receipt_type"
	FieldTS     = "ts"
	FieldTenant = "tenant_id"
	FieldHash   = "payload_hash"
)

// BaseFields lists the reserved receipt field names.
var BaseFields = []string{FieldType, FieldTS, FieldTenant, FieldHash}

// Receipt is an immutable audit record. PayloadHash is the dual hash of the
// canonical serialization of Payload, excluding the base fields.
type Receipt struct {
	ReceiptType string
	TS          time.Time
	TenantID    string
	PayloadHash string
	Payload     map[string]interface{}
}

// Flatten merges the base fields and payload fields into the single flat
// object written to the ledger, one JSON object per line.
func (r Receipt) Flatten() map[string]interface{} {
	flat := make(map[string]interface{}, len(r.Payload)+len(BaseFields))
	for k, v := range r.Payload {
		flat[k] = v
	}
	flat[FieldType] = r.ReceiptType
	flat[FieldTS] = r.TS.UTC().Format(time.RFC3339Nano)
	flat[FieldTenant] = r.TenantID
	flat[FieldHash] = r.PayloadHash
	return flat
}

// FromFlat rebuilds a Receipt from a flat ledger object. Base fields must be
// present and well typed; everything else becomes the payload.
func FromFlat(flat map[string]interface{}) (Receipt, error) {
	r := Receipt{Payload: make(map[string]interface{}, len(flat))}

	receiptType, ok := flat[FieldType].(string)
	if !ok || receiptType == "" {
		return Receipt{}, fmt.Errorf("receipt: missing or invalid %s", FieldType)
	}
	r.ReceiptType = receiptType

	tsRaw, ok := flat[FieldTS].(string)
	if !ok {
		return Receipt{}, fmt.Errorf("receipt: missing or invalid %s", FieldTS)
	}
	ts, err := time.Parse(time.RFC3339Nano, tsRaw)
	if err != nil {
		return Receipt{}, fmt.Errorf("receipt: unparseable %s %q: %w", FieldTS, tsRaw, err)
	}
	r.TS = ts

	tenant, ok := flat[FieldTenant].(string)
	if !ok || tenant == "" {
		return Receipt{}, fmt.Errorf("receipt: missing or invalid %s", FieldTenant)
	}
	r.TenantID = tenant

	hash, ok := flat[FieldHash].(string)
	if !ok {
		return Receipt{}, fmt.Errorf("receipt: missing or invalid %s", FieldHash)
	}
	r.PayloadHash = hash

	for k, v := range flat {
		switch k {
		case FieldType, FieldTS, FieldTenant, FieldHash:
		default:
			r.Payload[k] = v
		}
	}
	return r, nil
}

// ComputePayloadHash returns the dual hash of the canonical serialization of
// payload. The hash covers payload fields only, never the base fields.
func ComputePayloadHash(payload map[string]interface{}) (string, error) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	canonical, err := hashing.CanonicalJSON(payload)
	if err != nil {
		return "", fmt.Errorf("receipt: canonicalize payload: %w", err)
	}
	return hashing.DualHash(canonical), nil
}

// Validate checks the structural invariants of a receipt: required fields
// present, tenant matching the expected identity, and a payload hash with two
// colon-separated 64-char hex components. It reports (true, "valid") on
// success and (false, reason) otherwise; it never recomputes the hash — see
// ledger.Verify for the integrity pass.
func Validate(r Receipt, expectedTenant string) (bool, string) {
	if r.ReceiptType == "" {
		return false, fmt.Sprintf("missing required field: %s", FieldType)
	}
	if r.TS.IsZero() {
		return false, fmt.Sprintf("missing required field: %s", FieldTS)
	}
	if r.TenantID == "" {
		return false, fmt.Sprintf("missing required field: %s", FieldTenant)
	}
	if r.PayloadHash == "" {
		return false, fmt.Sprintf("missing required field: %s", FieldHash)
	}
	if r.TenantID != expectedTenant {
		return false, fmt.Sprintf("invalid %s: %s", FieldTenant, r.TenantID)
	}
	if !hashing.ValidDualHash(r.PayloadHash) {
		return false, fmt.Sprintf("invalid hash format: %s", r.PayloadHash)
	}
	return true, "valid"
}
