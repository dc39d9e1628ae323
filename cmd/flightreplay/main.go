package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"soarcalc/pkg/config"
	"soarcalc/pkg/logging"
	"soarcalc/pkg/probe"
	"soarcalc/pkg/version"
)

var (
	configPath = flag.String("config", "configs/soarcalc.yaml", "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
	pace       = flag.Duration("pace", 0, "Wall-clock delay between samples (0 replays as fast as possible)")
)

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *pace); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Replay failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, pace time.Duration) error {
	// .env supplies the variables referenced by config paths (e.g. $SOARCALC_DATA)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	appCfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("soarcalc flight replay started", "version", version.Version, "config", path)

	if err := probe.AnalyzeResults(probe.Run(ctx, startupProbes(appCfg))); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	eng, closeTerrain, err := buildEngine(appCfg)
	if err != nil {
		return err
	}
	defer closeTerrain()

	src := newSource(appCfg, pace)
	defer src.Close()

	sum, err := replay(ctx, eng, src, appCfg.Replay.FinishAfter)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	sum.log(eng.Calculated())

	for _, line := range logging.GlobalLogCapture.Lines() {
		fmt.Fprintln(os.Stderr, line)
	}
	return nil
}
