package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"claimtrace/analysis"
	anchor "claimtrace/anchor/client"
	"claimtrace/config"
	"claimtrace/internal/ledger"
	"claimtrace/internal/messaging/consumer"
)

const analysisConfigPath = "./config/analysis.defaults.yml"

func main() {
	logger := log.New(os.Stdout, "[ANALYSIS] ", log.LstdFlags|log.Lshortfile)
	logger.Println("Starting Analysis Engine...")

	// 1. Load Analysis Config
	analysisCfg, err := config.LoadAnalysisConfig(analysisConfigPath)
	if err != nil {
		logger.Fatalf("FATAL: Failed to load analysis configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Dependencies
	logger.Println("Initializing ledger store...")
	ledgerStore, err := openLedgerStore(ctx, analysisCfg.Ledger, logger)
	if err != nil {
		logger.Fatalf("FATAL: Failed to initialize ledger store: %v", err)
	}
	defer ledgerStore.Close()

	receiptLedger := ledger.New(ledgerStore, analysisCfg.Ledger.TenantID, logger,
		ledger.WithDurability(ledger.Durability(analysisCfg.Ledger.Durability)),
		ledger.WithMaxRecords(analysisCfg.Ledger.MaxRecords),
	)

	// Anchor client: external witness when configured, in-process otherwise
	var anchorClient anchor.Client
	if analysisCfg.AnchorClientConfigPath != "" {
		logger.Println("Initializing anchor client using configuration files...")
		anchorClient, err = anchor.NewClientFromFile(analysisCfg.AnchorClientConfigPath, logger)
		if err != nil {
			logger.Fatalf("FATAL: Failed to initialize anchor client: %v", err)
		}
	} else {
		logger.Println("No anchor client configured, using in-process noop anchor.")
		anchorClient = anchor.NewNoopClient(logger)
	}
	defer anchorClient.Close()

	// 3. Initialize Multiple Consumers
	var mqConsumers []consumer.Consumer
	if len(analysisCfg.KafkaConsumer.Brokers) > 0 && analysisCfg.KafkaConsumer.Brokers[0] != "mock://local" {
		logger.Printf("Initializing %d Kafka message queue consumers...", analysisCfg.KafkaConsumer.Count)
		for i := 0; i < analysisCfg.KafkaConsumer.Count; i++ {
			kafkaConsumer, err := consumer.NewKafkaConsumer(analysisCfg.KafkaConsumer, logger)
			if err != nil {
				logger.Fatalf("FATAL: Failed to initialize Kafka consumer %d: %v", i, err)
			}
			mqConsumers = append(mqConsumers, kafkaConsumer)
		}
	} else {
		logger.Println("Initializing Mock message queue consumer...")
		mqConsumers = append(mqConsumers, consumer.NewMockConsumer(logger))
	}

	// Ensure all consumers are closed on exit
	defer func() {
		for _, c := range mqConsumers {
			c.Close()
		}
	}()

	// 4. Create and Start Multiple Workers sharing one pipeline
	pipeline := analysis.NewPipeline(analysisCfg.Analytics, receiptLedger, logger)

	var workers []*analysis.Worker
	var wg sync.WaitGroup

	for i, mqConsumer := range mqConsumers {
		workerInstance := analysis.New(analysisCfg.Worker, analysisCfg.MaxTaskRetries, logger, pipeline, mqConsumer, anchorClient)
		workers = append(workers, workerInstance)

		wg.Add(1)
		go func(workerID int, w *analysis.Worker) {
			defer wg.Done()
			logger.Printf("Starting worker %d with its dedicated consumer...", workerID)
			w.Run(ctx)
			logger.Printf("Worker %d stopped.", workerID)
		}(i+1, workerInstance)
	}

	logger.Printf("Analysis Engine started with %d workers. Press Ctrl+C to stop.", len(workers))

	// 5. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Println("Received shutdown signal, initiating graceful shutdown...")
	cancel()

	// Wait for all workers to finish
	logger.Println("Waiting for all workers to finish...")
	wg.Wait()

	logger.Println("Analysis Engine shut down gracefully.")
}

// openLedgerStore constructs the receipt store named by the configuration.
func openLedgerStore(ctx context.Context, cfg config.LedgerConfig, logger *log.Logger) (ledger.Store, error) {
	switch cfg.Backend {
	case "postgres":
		return ledger.NewPostgresStore(ctx, cfg.Database.DSN, cfg.Database.MaxConnections, cfg.Database.MinConnections, logger)
	case "memory":
		return ledger.NewMemStore(), nil
	default:
		return ledger.NewFileStore(cfg.Path)
	}
}
