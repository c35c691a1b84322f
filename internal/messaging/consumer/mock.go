package consumer

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"claimtrace/internal/models"
)

// MockConsumer uses fixed predefined messages for testing.
type MockConsumer struct {
	logger   *log.Logger
	messages chan *models.ClaimMessage
}

// PredefinedMessages stores the messages to be simulated.
var PredefinedMessages []*models.ClaimMessage

// init generates fixed test data when the package is loaded.
func init() {
	PredefinedMessages = make([]*models.ClaimMessage, 0, 3)

	msg1 := &models.ClaimMessage{
		RequestID:         "a1b1c1d1-e1f1-1111-2222-1234567890ab",
		TenantID:          "mock-tenant",
		ReceiptHash:       "fixedhash001",
		ReceivedTimestamp: strconv.FormatInt(time.Now().Unix()-60, 10),
		Claim: map[string]interface{}{
			"claim_id":      "CLM-0001",
			"provider_id":   "PRV-001",
			"patient_id":    "PAT-100",
			"billed_amount": 1250.00,
		},
	}
	PredefinedMessages = append(PredefinedMessages, msg1)

	msg2 := &models.ClaimMessage{
		RequestID:         "a2b2c2d2-e2f2-3333-4444-abcdef123456",
		TenantID:          "mock-tenant",
		ReceiptHash:       "fixedhash002",
		ReceivedTimestamp: strconv.FormatInt(time.Now().Unix()-30, 10),
		Claim: map[string]interface{}{
			"claim_id":      "CLM-0002",
			"provider_id":   "PRV-002",
			"patient_id":    "PAT-100",
			"billed_amount": 890.50,
		},
	}
	PredefinedMessages = append(PredefinedMessages, msg2)

	// Message 3 shares the patient of message 1 (simulates a linked provider pair)
	msg3 := &models.ClaimMessage{
		RequestID:         "a3b3c3d3-e3f3-5555-6666-fedcba654321",
		TenantID:          "mock-tenant",
		ReceiptHash:       "fixedhash003",
		ReceivedTimestamp: strconv.FormatInt(time.Now().Unix(), 10),
		Claim: map[string]interface{}{
			"claim_id":      "CLM-0003",
			"provider_id":   "PRV-003",
			"patient_id":    "PAT-100",
			"billed_amount": 1250.00,
		},
	}
	PredefinedMessages = append(PredefinedMessages, msg3)
}

// NewMockConsumer creates a MockConsumer and loads predefined messages.
func NewMockConsumer(logger *log.Logger) *MockConsumer {
	mc := &MockConsumer{
		logger:   logger,
		messages: make(chan *models.ClaimMessage, len(PredefinedMessages)+5),
	}
	logger.Println("[MockConsumer] Initializing with predefined messages...")
	for _, msg := range PredefinedMessages {
		mc.messages <- msg
		logger.Printf("[MockConsumer] Added predefined message: request_id=%s", msg.RequestID)
	}
	logger.Println("[MockConsumer] Predefined messages loaded")
	return mc
}

// Consume reads predefined messages from the channel.
func (m *MockConsumer) Consume(ctx context.Context) (msg *models.ClaimMessage, ack func(success bool), err error) {
	m.logger.Println("[MockConsumer] Waiting for message...")
	select {
	case <-ctx.Done():
		m.logger.Println("[MockConsumer] Context cancelled, stopping consumption")
		return nil, nil, ctx.Err()
	case msg := <-m.messages:
		if msg == nil {
			m.logger.Println("[MockConsumer] Message channel closed")
			return nil, nil, errors.New("message channel closed")
		}
		m.logger.Printf("[MockConsumer] Consumed message: request_id=%s", msg.RequestID)

		ackCallback := func(success bool) {
			if success {
				m.logger.Printf("[MockConsumer] ACK received for message: request_id=%s", msg.RequestID)
			} else {
				m.logger.Printf("[MockConsumer] NACK received for message: request_id=%s. Re-queueing (mock)", msg.RequestID)
				select {
				case m.messages <- msg:
					m.logger.Printf("[MockConsumer] Message re-queued: request_id=%s", msg.RequestID)
				default:
					m.logger.Printf("[MockConsumer] Warning: Failed to re-queue message (channel full?): request_id=%s", msg.RequestID)
				}
			}
		}
		return msg, ackCallback, nil
	}
}

// Close closes the message channel.
func (m *MockConsumer) Close() error {
	m.logger.Println("[MockConsumer] Closing...")
	close(m.messages)
	return nil
}

var _ Consumer = (*MockConsumer)(nil)
