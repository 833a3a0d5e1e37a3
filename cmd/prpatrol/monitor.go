/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"chainguard.dev/prpatrol/analyzers"
	"chainguard.dev/prpatrol/analyzers/claudeanalyzer"
	"chainguard.dev/prpatrol/analyzers/openaianalyzer"
	"chainguard.dev/prpatrol/config"
	"chainguard.dev/prpatrol/gateway/githubgateway"
	"chainguard.dev/prpatrol/reconciler"
	"chainguard.dev/prpatrol/scheduler"
	"chainguard.dev/prpatrol/statestore"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// cleanupEvery is how often the monitor sweeps stale pull request
// state out of the store.
const cleanupEvery = time.Hour

func newMonitorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Start monitoring pull requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			ctx, err = withLogging(ctx, cfg.LogLevel)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runMonitor(ctx, cfg)
		},
	}
}

func runMonitor(ctx context.Context, cfg *config.Config) error {
	log := clog.FromContext(ctx)
	log.Infof("Starting prpatrol: %d repositories, polling every %v (auto-approve=%v, auto-fix=%v)",
		len(cfg.Monitoring.Repositories), cfg.Monitoring.PollInterval,
		cfg.Monitoring.AutoApproveActions, cfg.Monitoring.AutoFixWithCopilot)

	collector := buildCollector(ctx, cfg)
	store := statestore.New()

	var units []scheduler.Unit
	for _, srv := range cfg.Servers {
		if srv.Token == "" {
			log.Warnf("No token provided for GitHub server %q, skipping", srv.Name)
			continue
		}
		gw, err := githubgateway.New(ctx,
			githubgateway.WithBaseURL(srv.URL),
			githubgateway.WithToken(srv.Token),
		)
		if err != nil {
			return fmt.Errorf("building gateway for server %q: %w", srv.Name, err)
		}
		for _, repo := range cfg.Monitoring.Repositories {
			units = append(units, reconciler.New(srv.Name, repo, gw, store,
				reconciler.WithAutoApprove(cfg.Monitoring.AutoApproveActions),
				reconciler.WithAutoFix(cfg.Monitoring.AutoFixWithCopilot),
				reconciler.WithCollector(collector),
			))
		}
	}

	go serveMetrics(ctx, cfg.MetricsPort)

	sched := scheduler.New(store, units,
		scheduler.WithPollInterval(cfg.Monitoring.PollInterval.Std()),
		scheduler.WithMaxConcurrent(cfg.Monitoring.MaxConcurrentRequests),
		scheduler.WithCleanupEvery(cleanupEvery, cfg.Monitoring.StaleAfter.Std()),
	)
	if err := sched.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Shutting down gracefully")
	return nil
}

// buildCollector assembles the configured side-channel analyzers.
// Credentials come from the providers' usual environment variables.
func buildCollector(ctx context.Context, cfg *config.Config) *analyzers.Collector {
	log := clog.FromContext(ctx)
	var impls []analyzers.Interface
	for _, name := range cfg.Analysis.Analyzers {
		switch name {
		case "claude":
			impls = append(impls, claudeanalyzer.New(anthropic.NewClient(),
				claudeanalyzer.WithModel(cfg.Analysis.ClaudeModel)))
		case "openai":
			impls = append(impls, openaianalyzer.New(openai.NewClient(),
				openaianalyzer.WithModel(openai.ChatModel(cfg.Analysis.OpenAIModel))))
		default:
			log.Warnf("Unknown analyzer %q, skipping", name)
		}
	}
	if len(impls) == 0 {
		return nil
	}
	log.Infof("Analysis side-channel enabled: %v", cfg.Analysis.Analyzers)
	return analyzers.NewCollector(impls...)
}

// serveMetrics exposes the Prometheus registry until the context is
// cancelled.
func serveMetrics(ctx context.Context, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	clog.InfoContextf(ctx, "Serving metrics on :%d", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.ErrorContextf(ctx, "Metrics server failed: %v", err)
	}
}
