package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"projecthub/internal/logging"
	"projecthub/internal/store"
	"projecthub/internal/web"
)

var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("hub-web version %s starting...", Version)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	logger, err := logging.New(os.Getenv("HUB_DEBUG") == "1")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	st, err := store.Open(getEnv("DATABASE_URL", "~/.hub/hub.db"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create and run web server
	addr := getEnv("HUB_ADDR", ":8000")
	server := web.NewServer(st, logger)

	log.Printf("Starting web server on %s", addr)
	if err := server.Run(addr); err != nil {
		log.Fatalf("Web server error: %v", err)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
