package analysis

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	anchor "claimtrace/anchor/client"
	"claimtrace/config"
	"claimtrace/internal/messaging/consumer"
	"claimtrace/internal/models"
)

// Worker consumes claim messages in batches and drives the analytics
// pipeline over each batch.
type Worker struct {
	workerConfig       config.WorkerConfig
	batchTimeout       time.Duration // Parsed from workerConfig.BatchTimeout
	consumerRetryDelay time.Duration // Parsed from workerConfig.ConsumerRetryDelay
	anchorTimeout      time.Duration // Parsed from workerConfig.AnchorTimeout

	maxTaskRetries int // Business rule for maximum batch attempts
	logger         *log.Logger
	pipeline       *Pipeline
	consumer       consumer.Consumer
	anchorClient   anchor.Client
}

// New creates a new Worker instance
func New(cfg config.WorkerConfig, maxTaskRetries int, logger *log.Logger, p *Pipeline, c consumer.Consumer, ac anchor.Client) *Worker {
	// Add default safeguards if needed, though config should handle it
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	// Parse time duration strings
	batchTimeout, err := time.ParseDuration(cfg.BatchTimeout)
	if err != nil {
		logger.Printf("Warning: Invalid batch_timeout '%s', using default 1s", cfg.BatchTimeout)
		batchTimeout = 1 * time.Second
	}

	consumerRetryDelay, err := time.ParseDuration(cfg.ConsumerRetryDelay)
	if err != nil {
		logger.Printf("Warning: Invalid consumer_retry_delay '%s', using default 5s", cfg.ConsumerRetryDelay)
		consumerRetryDelay = 5 * time.Second
	}

	anchorTimeout, err := time.ParseDuration(cfg.AnchorTimeout)
	if err != nil {
		logger.Printf("Warning: Invalid anchor_timeout '%s', using default 15s", cfg.AnchorTimeout)
		anchorTimeout = 15 * time.Second
	}

	return &Worker{
		workerConfig:       cfg,
		batchTimeout:       batchTimeout,
		consumerRetryDelay: consumerRetryDelay,
		anchorTimeout:      anchorTimeout,
		maxTaskRetries:     maxTaskRetries,
		logger:             logger,
		pipeline:           p,
		consumer:           c,
		anchorClient:       ac,
	}
}

// Run starts the worker pool
func (w *Worker) Run(ctx context.Context) {
	w.logger.Printf("Starting worker pool with concurrency: %d, BatchSize: %d, BatchTimeout: %s",
		w.workerConfig.Concurrency, w.workerConfig.BatchSize, w.batchTimeout)
	var wg sync.WaitGroup
	for i := 0; i < w.workerConfig.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.logger.Printf("Worker %d started", workerID)
			w.processMessagesInBatch(ctx, workerID) // Call the batch processing loop
			w.logger.Printf("Worker %d stopped", workerID)
		}(i + 1)
	}
	wg.Wait()
	w.logger.Println("Worker pool stopped.")
}

// processMessagesInBatch is the main loop for a worker goroutine
func (w *Worker) processMessagesInBatch(ctx context.Context, workerID int) {
	batchMessages := make([]*models.ClaimMessage, 0, w.workerConfig.BatchSize)
	kafkaAcks := make([]func(success bool), 0, w.workerConfig.BatchSize)
	batchTimer := time.NewTimer(0) // Start with stopped timer
	if !batchTimer.Stop() {
		select {
		case <-batchTimer.C:
		default:
		}
	}

	// Helper function to submit batch
	processBatch := func() {
		if len(batchMessages) == 0 {
			return
		}

		// Stop and drain timer
		if !batchTimer.Stop() {
			select {
			case <-batchTimer.C:
			default:
			}
		}

		// Execute batch processing
		w.processAndAckBatch(ctx, workerID, batchMessages, kafkaAcks)

		// Reset for next batch
		batchMessages = make([]*models.ClaimMessage, 0, w.workerConfig.BatchSize)
		kafkaAcks = make([]func(success bool), 0, w.workerConfig.BatchSize)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Printf("Worker %d: Context cancelled, stopping.", workerID)
			if len(kafkaAcks) > 0 {
				for _, ack := range kafkaAcks {
					ack(false)
				}
			}
			return

		case <-batchTimer.C:
			// Batch timeout reached
			processBatch()

		default:
			consumeCtx, consumeCancel := context.WithTimeout(ctx, 100*time.Millisecond)
			msg, ack, err := w.consumer.Consume(consumeCtx)
			consumeCancel()

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					continue
				}
				// Only log real consumer errors
				w.logger.Printf("Worker %d: Consumer error: %v", workerID, err)
				time.Sleep(w.consumerRetryDelay)
				continue
			}

			// Successfully got message
			if msg != nil {
				// Start batch timer on first message
				if len(batchMessages) == 0 {
					batchTimer.Reset(w.batchTimeout)
				}

				batchMessages = append(batchMessages, msg)
				kafkaAcks = append(kafkaAcks, ack)

				// Process immediately if batch is full
				if len(batchMessages) >= w.workerConfig.BatchSize {
					processBatch()
				}
			}
		}
	}
}

// processAndAckBatch handles processing and Kafka acknowledgement
func (w *Worker) processAndAckBatch(ctx context.Context, workerID int, batch []*models.ClaimMessage, acks []func(success bool)) {
	processingErr := w.handleBatch(ctx, workerID, batch) // Process the actual batch

	if processingErr != nil {
		// Batch FAILED -> Nack ALL messages for redelivery
		w.logger.Printf("Worker %d: Batch failed: %v (nacking %d messages)", workerID, processingErr, len(acks))
		for _, ack := range acks {
			ack(false)
		}
	} else {
		// Batch SUCCEEDED -> Ack ALL messages
		for _, ack := range acks {
			ack(true)
		}
	}
}

func (w *Worker) handleBatch(ctx context.Context, workerID int, batch []*models.ClaimMessage) error {
	if len(batch) == 0 {
		return nil
	}
	batchStart := time.Now()

	claims := make([]map[string]interface{}, 0, len(batch))
	for _, msg := range batch {
		if msg.RequestID == "" || msg.Claim == nil { // Basic validation
			continue
		}
		claims = append(claims, msg.Claim)
	}
	if len(claims) == 0 {
		return nil // No valid messages, ack and move on
	}

	// --- 1. Record the batch and refresh analytics ---
	var batchRes *batchOutcome
	var lastErr error
	for attempt := 1; attempt <= w.maxTaskRetries; attempt++ {
		res, err := w.pipeline.Run(ctx, claims)
		if err == nil {
			batchRes = &batchOutcome{root: "", anchored: false}
			if res != nil {
				batchRes.root = res.Root
			}
			lastErr = nil
			break
		}
		lastErr = err
		w.logger.Printf("Worker %d: Pipeline attempt %d/%d failed: %v", workerID, attempt, w.maxTaskRetries, err)
	}
	if lastErr != nil {
		return lastErr // Trigger Nack
	}

	// --- 2. Anchor the batch root externally ---
	anchorDuration := time.Duration(0)
	if batchRes.root != "" && w.anchorClient != nil {
		anchorStart := time.Now()
		invokeCtx, cancel := context.WithTimeout(ctx, w.anchorTimeout)
		proof, err := w.anchorClient.SubmitRoot(invokeCtx, batchRes.root, "claim_record",
			batch[0].TenantID, time.Now().UTC().Format(time.RFC3339Nano))
		cancel()
		anchorDuration = time.Since(anchorStart)

		if err != nil {
			// The ledger's own batch_anchor receipt already binds the batch;
			// a missing external witness is degraded service, not data loss.
			w.logger.Printf("Worker %d: External anchor failed for root %s: %v", workerID, batchRes.root, err)
		} else {
			batchRes.anchored = true
			w.logger.Printf("Worker %d: Anchored root %s (tx: %s, block: %d)",
				workerID, proof.Root, proof.TransactionID, proof.BlockHeight)
		}
	}

	totalTime := time.Since(batchStart)
	w.logger.Printf("Batch performance: size=%d, valid=%d, anchored=%t, anchor=%v, total=%v",
		len(batch), len(claims), batchRes.anchored, anchorDuration, totalTime)

	return nil // Batch succeeded, Ack Kafka messages
}

type batchOutcome struct {
	root     string
	anchored bool
}
