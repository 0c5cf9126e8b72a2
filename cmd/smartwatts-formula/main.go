// SPDX-FileCopyrightText: 2025 The SmartWatts Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/smartwatts-project/smartwatts-formula/internal/engine"
	"github.com/smartwatts-project/smartwatts-formula/internal/formulaconfig"
	"github.com/smartwatts-project/smartwatts-formula/internal/logger"
	"github.com/smartwatts-project/smartwatts-formula/internal/metrics"
)

func main() {
	app := kingpin.New("smartwatts-formula", "Online CPU package power attribution formula core.")
	configFile := app.Flag("config.file", "Path to a YAML configuration file").String()
	updateFromFlags := formulaconfig.RegisterFlags(app)

	if _, err := app.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "smartwatts-formula: %s\n", err)
		os.Exit(1)
	}

	cfg := formulaconfig.Default()
	if *configFile != "" {
		loaded, err := formulaconfig.FromFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "smartwatts-formula: %s\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := updateFromFlags(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "smartwatts-formula: %s\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	log.Info("starting smartwatts-formula", "config", cfg.String())

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	collector := metrics.New("smartwatts")
	sink := newLoggingSink(log)

	eng, err := engine.New(engineCfg, sink, engine.WithLogger(log), engine.WithMetrics(collector))
	if err != nil {
		log.Error("failed to start formula engine", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		log.Info("received termination signal, shutting down", "signal", sig.String())
		cancel()
	}()

	source := newFixtureSource(engineCfg)
	log.Info("smartwatts-formula is running, press ctrl+c to stop")

runLoop:
	for {
		in, err := source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break runLoop
			}
			log.Error("fixture source failed", "error", err)
			break runLoop
		}
		eng.Process(in)
	}

	eng.Flush()
	log.Info("smartwatts-formula stopped")
}
