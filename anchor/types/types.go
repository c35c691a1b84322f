package types

// Proof is the on-chain credential returned after a successful root anchoring
type Proof struct {
	TransactionID string // TxID of the anchoring transaction
	BlockHeight   uint64 // Block height where the anchor was included
	Root          string // The dual-hash Merkle root that was anchored
}

// AuditData is the raw anchoring data parsed from on-chain events,
// used for independent verification of a previously anchored batch
type AuditData struct {
	Root            string
	SubmitterTenant string
	Timestamp       string
}
