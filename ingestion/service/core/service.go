package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"claimtrace/internal/ledger"
	"claimtrace/internal/messaging/producer"

	"github.com/google/uuid"
)

// ClaimInput defines the core information required for claim submission
type ClaimInput struct {
	Claim    map[string]interface{}
	TenantID string // Optional, defaults to the ledger's tenant
}

// ClaimResult defines the return information after successful submission
type ClaimResult struct {
	RequestID         string
	ReceiptHash       string
	ReceivedTimestamp time.Time
}

// Service encapsulates the core business logic of the ingestion gateway:
// validate, emit a claim_ingest receipt, then hand the claim to the batch
// processor for asynchronous publication to the analysis engine.
type Service struct {
	ledger         *ledger.Ledger
	producer       producer.Producer
	logger         *log.Logger
	batchProcessor *BatchProcessor
}

// NewService creates a new Service instance with configuration
func NewService(led *ledger.Ledger, p producer.Producer, l *log.Logger, batchSize int, batchTimeout time.Duration, flushChannelBuffer int) *Service {
	return &Service{
		ledger:         led,
		producer:       p,
		logger:         l,
		batchProcessor: NewBatchProcessor(batchSize, batchTimeout, flushChannelBuffer, p, l),
	}
}

// SubmitClaim handles the core logic of claim submission. The receipt is
// appended synchronously so the caller walks away with a verifiable hash;
// only the Kafka publish is deferred to the batch processor.
func (s *Service) SubmitClaim(ctx context.Context, input *ClaimInput) (*ClaimResult, error) {
	// 1. Validate input
	if err := ValidateClaim(input.Claim); err != nil {
		return nil, err
	}

	// 2. Generate Request ID
	requestID := uuid.NewString()

	// 3. Append the ingest receipt
	rcpt, err := s.ledger.Emit(ctx, "claim_ingest", input.Claim)
	if err != nil {
		return nil, fmt.Errorf("failed to record claim receipt: %w", err)
	}

	result := &ClaimResult{
		RequestID:         requestID,
		ReceiptHash:       rcpt.PayloadHash,
		ReceivedTimestamp: rcpt.TS,
	}

	// 4. Submit to batch processor (asynchronous Kafka publish)
	tenantID := input.TenantID
	if tenantID == "" {
		tenantID = s.ledger.Tenant()
	}
	go s.batchProcessor.SubmitClaim(input.Claim, requestID, tenantID, rcpt.PayloadHash)

	return result, nil
}

// Close gracefully shuts down the service
func (s *Service) Close() {
	s.batchProcessor.Close()
}
