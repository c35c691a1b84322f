package models

// ClaimMessage is the unit handed from the ingestion gateway to the
// analysis engine over the message queue. Claim carries the normalized
// record fields; ReceiptHash is the dual hash of the claim_ingest receipt
// already appended for this submission.
type ClaimMessage struct {
	RequestID         string                 `json:"RequestID"`
	TenantID          string                 `json:"TenantID"`
	ReceiptHash       string                 `json:"ReceiptHash"`
	ReceivedTimestamp string                 `json:"ReceivedTimestamp"` // Unix seconds as string for easy JSON serialization
	Claim             map[string]interface{} `json:"Claim"`
}
