package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"claimtrace/config"
	core "claimtrace/ingestion/service/core"
	httphandler "claimtrace/ingestion/service/http"
	"claimtrace/internal/ledger"
	"claimtrace/internal/messaging/producer"
)

// Ingestion gateway configuration file path
const gatewayConfigPath = "./config/ingestion.defaults.yml"

func main() {
	logger := log.New(os.Stdout, "[INGEST-GW] ", log.LstdFlags|log.Lshortfile)
	logger.Println("Starting Ingestion Gateway...")

	// 1. Load gateway configuration
	cfg, err := config.LoadGatewayConfig(gatewayConfigPath)
	if err != nil {
		logger.Fatalf("Failed to load gateway configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize dependencies (ledger store and Kafka producer)
	logger.Println("Initializing ledger store...")
	ledgerStore, err := openLedgerStore(ctx, cfg.Ledger, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize ledger store: %v", err)
	}
	defer ledgerStore.Close()

	receiptLedger := ledger.New(ledgerStore, cfg.Ledger.TenantID, logger,
		ledger.WithDurability(ledger.Durability(cfg.Ledger.Durability)),
		ledger.WithMaxRecords(cfg.Ledger.MaxRecords),
	)

	logger.Println("Initializing Kafka producer...")
	kafkaProducer, err := producer.NewKafkaProducer(cfg.KafkaProducer, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize Kafka producer: %v", err)
	}
	defer kafkaProducer.Close()

	// 3. Create core Service (using configuration parameters) and Handlers
	coreService := core.NewService(
		receiptLedger,
		kafkaProducer,
		logger,
		cfg.BatchProcessor.BatchSize,
		cfg.BatchProcessor.BatchTimeout,
		cfg.BatchProcessor.FlushChannelBuffer,
	)
	defer coreService.Close() // Ensure service is closed on exit
	claimHandler := httphandler.NewClaimHandler(coreService, logger)

	var wg sync.WaitGroup

	// 4. HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/claims", claimHandler.SubmitClaim)
	mux.HandleFunc("/health", claimHandler.HealthCheck)
	if cfg.Monitoring.EnableMetrics {
		metricsPath := cfg.Monitoring.MetricsPath
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		mux.HandleFunc(metricsPath, claimHandler.Metrics)
	}

	// Use HTTP server configuration with defaults
	readTimeout := cfg.HttpServer.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 5 * time.Second
	}

	writeTimeout := cfg.HttpServer.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	idleTimeout := cfg.HttpServer.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = 60 * time.Second
	}

	maxHeaderBytes := cfg.HttpServer.MaxHeaderBytes
	if maxHeaderBytes == 0 {
		maxHeaderBytes = 1 << 20 // 1 MB
	}

	httpServer := &http.Server{
		Addr:           cfg.HttpListenAddr,
		Handler:        mux,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		MaxHeaderBytes: maxHeaderBytes,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Printf("HTTP server listening on %s", cfg.HttpListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server startup failed: %v", err)
		}
		logger.Println("HTTP server stopped listening.")
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Printf("Received shutdown signal: %s, starting graceful shutdown of Ingestion Gateway...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	logger.Println("Shutting down HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server shutdown failed: %v", err)
	} else {
		logger.Println("HTTP server shutdown.")
	}

	wg.Wait()
	logger.Println("All servers stopped. Ingestion Gateway shutdown.")
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
