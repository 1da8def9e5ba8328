package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waveline/stakechain/api"
	"github.com/waveline/stakechain/offchain/indexer"
)

func main() {
	// Command line flags
	host := flag.String("host", "0.0.0.0", "Server host")
	port := flag.Int("port", 8080, "Server port")
	chainWS := flag.String("chain-ws", "", "CometBFT websocket URL to index events from (e.g. ws://localhost:26657/websocket)")
	benchMode := flag.Bool("bench", false, "Enable benchmark mode (no rate limiting)")
	flag.Parse()

	// Create configuration
	config := &api.Config{
		Host:             *host,
		Port:             *port,
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		DisableRateLimit: *benchMode,
	}

	if *benchMode {
		log.Println("Benchmark mode: Rate limiting disabled")
	}

	// In-memory staking read index, fed by the chain event indexer when a
	// websocket URL is given, otherwise left empty for manual ingestion.
	service := api.NewStakingService()
	server := api.NewServerWithServices(config, service, service)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ix *indexer.Indexer
	if *chainWS != "" {
		cfg := indexer.DefaultConfig()
		cfg.WebSocketURL = *chainWS
		ix = indexer.New(cfg, service)
		ix.Start(ctx)
		go indexer.NewChainListener(*chainWS, ix).Run(ctx)
		log.Printf("Indexing chain events from %s", *chainWS)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("StakeChain API server started on %s:%d", *host, *port)
	log.Printf("WebSocket endpoint: ws://%s:%d/ws", *host, *port)
	log.Printf("Health check: http://%s:%d/health", *host, *port)
	log.Printf("Metrics: http://%s:%d/metrics", *host, *port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if ix != nil {
		ix.Stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server exited")
}
