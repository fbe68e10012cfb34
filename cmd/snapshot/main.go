package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/screwyprof/posanalytics/cmd/snapshot/config"
	"github.com/screwyprof/posanalytics/overview"
	"github.com/screwyprof/posanalytics/pkg/logger"
	"github.com/screwyprof/posanalytics/web/handler/bind"
	"github.com/screwyprof/posanalytics/web/pos"
)

func main() {
	// Load configuration
	cfg := config.New()

	// Logs go to stderr so stdout carries only the snapshot document
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
		Output:           os.Stderr,
	})
	slog.SetDefault(log)

	// Prepare context with signal handling and an overall deadline
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	svc, closeChain, err := cfg.Pos.NewService(ctx, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize overview service", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeChain()

	if err := snapshot(ctx, svc, cfg.Pos.NodeURLs, os.Stdout, cfg.Pretty); err != nil {
		log.ErrorContext(ctx, "Snapshot failed", slog.Any("error", err))
		closeChain()
		os.Exit(1)
	}
}

type builder interface {
	pos.OverviewBuilder
	pos.DelegatorsBuilder
}

// snapshot builds the overview and the delegator set concurrently and writes
// them as one JSON document.
func snapshot(ctx context.Context, svc builder, nodeURLs []string, out io.Writer, pretty bool) error {
	var (
		ov  overview.Overview
		set overview.DelegatorSet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ov, err = svc.BuildOverview(gctx, nodeURLs)
		return err
	})
	g.Go(func() error {
		var err error
		set, err = svc.BuildDelegatorSet(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(bind.GetSnapshotResponse(ov, set)); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
