// Command connpool opens a connection pool from a configuration file and the
// environment, and either checks it once or serves its health and metrics.
//
// Usage:
//
//	connpool check [-config connpool.yaml] [-v]
//	connpool serve [-config connpool.yaml] [-addr :8080] [-interval 1m] [-v]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/yuku/connpool/metrics"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "check":
		err = runCheck(ctx, os.Args[2:])
	case "serve":
		err = runServe(ctx, os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: connpool <check|serve> [flags]")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runCheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML or TOML configuration file")
	verbose := fs.Bool("v", false, "log pool events at debug level")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Logger = newLogger(*verbose)

	p, err := openPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open pool: %w", err)
	}
	defer p.Close(context.Background())

	if err := p.Probe(ctx); err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	if _, err := p.CheckLiveness(ctx); err != nil {
		return fmt.Errorf("liveness check failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p.Stats())
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML or TOML configuration file")
	addr := fs.String("addr", ":8080", "HTTP listen address")
	interval := fs.Duration("interval", time.Minute, "liveness check interval")
	verbose := fs.Bool("v", false, "log pool events at debug level")
	_ = fs.Parse(args)

	if *interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", *interval)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(*verbose)
	cfg.Logger = logger

	p, err := openPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open pool: %w", err)
	}
	defer p.Close(context.Background())

	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewCollector(p, "default"))

	go func() {
		_ = p.Sweep(ctx, *interval)
	}()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           newRouter(p, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", *addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
