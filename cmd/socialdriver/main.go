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

	"go.uber.org/zap"

	"social-driver/internal/actions"
	"social-driver/internal/config"
	"social-driver/internal/runner"
)

func main() {
	continueOnFail := flag.Bool("continue-on-fail", false, "record per-item failures and keep going instead of aborting the batch")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: socialdriver [-continue-on-fail] <batch.json>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	requests, err := readBatch(flag.Arg(0))
	if err != nil {
		log.Fatalf("batch file: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.SessionTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	batch := runner.New(cfg, logger)
	results, runErr := batch.Run(ctx, requests, *continueOnFail)

	enc := json.NewEncoder(os.Stdout)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			logger.Error("cannot encode result", zap.Int("item", r.ItemIndex), zap.Error(err))
		}
	}

	if runErr != nil {
		logger.Error("batch aborted", zap.Error(runErr))
		os.Exit(1)
	}
}

func readBatch(path string) ([]actions.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var requests []actions.Request
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("%s contains no work items", path)
	}
	return requests, nil
}
