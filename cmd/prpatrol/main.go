/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main is the prpatrol CLI: a daemon that watches open pull
// requests across one or more GitHub servers, auto-approves gated
// workflow runs, and requests fixes for failing checks.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/prpatrol/config"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func main() {
	root := &cobra.Command{
		Use:           "prpatrol",
		Short:         "Automate pull request workflows with GitHub Actions and Copilot",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file (default: environment)")
	root.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		newMonitorCommand(),
		newStatusCommand(),
		newGenerateConfigCommand(),
		newTestConnectionCommand(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration from the --config file when
// given, otherwise from the environment, and applies CLI overrides.
func loadConfig(ctx context.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.FromEnv(ctx)
	}
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// withLogging installs a clog logger at the configured level on the
// context.
func withLogging(ctx context.Context, levelName string) (context.Context, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return ctx, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return clog.WithLogger(ctx, logger), nil
}
