package service

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"claimtrace/internal/messaging/producer"
	"claimtrace/internal/models"
)

// BatchProcessor batches accepted claims for publication to the analysis
// engine, trading per-request latency for Kafka throughput.
type BatchProcessor struct {
	batchSize    int
	batchTimeout time.Duration
	logger       *log.Logger
	producer     producer.Producer

	// Buffers
	buffer      []*models.ClaimMessage
	bufferMutex sync.Mutex
	ticker      *time.Ticker
	flushChan   chan []*models.ClaimMessage

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(batchSize int, batchTimeout time.Duration, flushChannelBuffer int,
	producer producer.Producer, logger *log.Logger) *BatchProcessor {

	ctx, cancel := context.WithCancel(context.Background())

	bp := &BatchProcessor{
		batchSize:    batchSize,
		batchTimeout: batchTimeout,
		logger:       logger,
		producer:     producer,
		buffer:       make([]*models.ClaimMessage, 0, batchSize),
		flushChan:    make(chan []*models.ClaimMessage, flushChannelBuffer), // Configurable buffer for flush requests
		ctx:          ctx,
		cancel:       cancel,
	}

	// Start background goroutines
	bp.wg.Add(2)
	go bp.batchTimer()
	go bp.batchProcessor()

	return bp
}

// SubmitClaim adds a claim to the batch with its pre-generated request ID
func (bp *BatchProcessor) SubmitClaim(claim map[string]interface{}, requestID, tenantID, receiptHash string) {
	msg := &models.ClaimMessage{
		RequestID:         requestID,
		TenantID:          tenantID,
		ReceiptHash:       receiptHash,
		ReceivedTimestamp: strconv.FormatInt(time.Now().Unix(), 10),
		Claim:             claim,
	}

	// Add to buffer
	bp.bufferMutex.Lock()
	bp.buffer = append(bp.buffer, msg)
	shouldFlush := len(bp.buffer) >= bp.batchSize
	bp.bufferMutex.Unlock()

	// Trigger flush if buffer is full
	if shouldFlush {
		select {
		case bp.flushChan <- bp.getAndResetBuffer():
		default:
			bp.logger.Printf("Flush channel full, will flush on next timer")
		}
	}
}

// batchTimer handles periodic flushing
func (bp *BatchProcessor) batchTimer() {
	defer bp.wg.Done()

	bp.ticker = time.NewTicker(bp.batchTimeout)
	defer bp.ticker.Stop()

	for {
		select {
		case <-bp.ticker.C:
			bp.flushIfNeeded()
		case <-bp.ctx.Done():
			return
		}
	}
}

// batchProcessor handles actual batch publication
func (bp *BatchProcessor) batchProcessor() {
	defer bp.wg.Done()

	for {
		select {
		case batch := <-bp.flushChan:
			if len(batch) > 0 {
				bp.publishBatch(batch)
			}
		case <-bp.ctx.Done():
			// Publish remaining buffer before shutdown
			bp.bufferMutex.Lock()
			remaining := bp.buffer
			bp.buffer = nil
			bp.bufferMutex.Unlock()

			if len(remaining) > 0 {
				bp.publishBatch(remaining)
			}
			return
		}
	}
}

// flushIfNeeded flushes the buffer if it has entries
func (bp *BatchProcessor) flushIfNeeded() {
	bp.bufferMutex.Lock()
	if len(bp.buffer) == 0 {
		bp.bufferMutex.Unlock()
		return
	}

	batch := make([]*models.ClaimMessage, len(bp.buffer))
	copy(batch, bp.buffer)
	bp.buffer = bp.buffer[:0] // Reset buffer
	bp.bufferMutex.Unlock()

	select {
	case bp.flushChan <- batch:
	default:
		// If flush channel is full, put it back in buffer
		bp.bufferMutex.Lock()
		bp.buffer = append(batch, bp.buffer...)
		bp.bufferMutex.Unlock()
	}
}

// getAndResetBuffer safely gets the current buffer and resets it
func (bp *BatchProcessor) getAndResetBuffer() []*models.ClaimMessage {
	bp.bufferMutex.Lock()
	defer bp.bufferMutex.Unlock()

	batch := make([]*models.ClaimMessage, len(bp.buffer))
	copy(batch, bp.buffer)
	bp.buffer = bp.buffer[:0]
	return batch
}

// publishBatch hands the batch to Kafka. The receipts are already in the
// ledger; a publish failure only delays analysis, never loses the record.
func (bp *BatchProcessor) publishBatch(batch []*models.ClaimMessage) {
	if len(batch) == 0 {
		return
	}

	start := time.Now()

	kafkaErr := bp.producer.PublishBatch(context.Background(), batch)
	if kafkaErr != nil {
		bp.logger.Printf("Batch Kafka publish failed: %v", kafkaErr)
		// Handle failure - might need to retry or use a dead letter queue
		return
	}

	bp.logger.Printf("Batch published: %d claims in %v", len(batch), time.Since(start))
}

// Close gracefully shuts down the batch processor
func (bp *BatchProcessor) Close() {
	bp.cancel()
	bp.wg.Wait()
	close(bp.flushChan)
}
