package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	printStatus := flag.Bool("status", false, "start, print engine status as JSON and exit")
	flag.Parse()

	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(ctx) }()

	cfg, err := loadConfig(ctx, *configPath)
	must(err)

	compressOldLogs(ctx)

	eng, cleanup, err := initializeEngine(ctx, cfg)
	must(err)
	defer cleanup()

	must(eng.Start(ctx))

	if *printStatus {
		b, _ := json.MarshalIndent(eng.Status(), "", "  ")
		fmt.Println(string(b))
		if err := eng.Stop(ctx); err != nil {
			logger.ErrorWithErr(ctx, "Engine shutdown failed", err)
		}
		return
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigc:
		logger.Info(ctx, "Shutdown signal received")
	case <-ctx.Done():
	}

	if err := eng.Stop(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Engine shutdown failed", err)
	}

	snapshot := eng.Portfolio()
	logger.Info(ctx, "Final portfolio",
		"cash", snapshot.Cash,
		"total_value", snapshot.TotalValue,
		"positions", len(snapshot.Positions),
		"trades", len(snapshot.Trades),
	)
}
