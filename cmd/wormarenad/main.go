// Command wormarenad runs a worm-arena server: one process, one or more
// simulated rooms, exposed over WebSocket (spec.md §1). Grounded on the
// teacher's main.go bootstrap (world/loop/WebSocket wiring), generalized
// to flag-driven configuration and graceful shutdown since SPEC_FULL.md's
// ambient stack calls for a Config struct instead of the teacher's fixed
// constants.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wormarena/internal/config"
	"wormarena/internal/transport"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	staticDir := flag.String("static-dir", "", "optional directory of static client files to serve at /")
	botCount := flag.Int("bots", 0, "override the default bot count (0 keeps the built-in default)")
	flag.Parse()

	if env := os.Getenv("WORMARENAD_STATIC_DIR"); env != "" && *staticDir == "" {
		*staticDir = env
	}

	cfg := config.Defaults()
	if *botCount > 0 {
		cfg.BotCount = *botCount
	}

	logger := log.New(os.Stdout, "wormarenad: ", log.LstdFlags)

	srv := transport.NewServer(cfg, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.HandleWS)
	if *staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(*staticDir)))
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: mux,
	}

	done := make(chan struct{})
	go srv.Run(done)

	go func() {
		logger.Printf("listening on %s (map radius %.0f)", *addr, cfg.MapRadius)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Print("shutting down")

	close(done)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
}
