/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "GitHub servers (%d):\n", len(cfg.Servers))
			servers := newTable([]string{"Name", "URL", "Token"}, out)
			for _, s := range cfg.Servers {
				token := "✗"
				if s.Token != "" {
					token = "✓"
				}
				_ = servers.Append([]string{s.Name, s.URL, token})
			}
			_ = servers.Render()

			fmt.Fprintf(out, "\nMonitoring:\n")
			monitoring := newTable([]string{"Setting", "Value"}, out)
			rows := [][]string{
				{"Poll interval", cfg.Monitoring.PollInterval.String()},
				{"Max concurrent requests", strconv.Itoa(cfg.Monitoring.MaxConcurrentRequests)},
				{"Auto-approve actions", strconv.FormatBool(cfg.Monitoring.AutoApproveActions)},
				{"Auto-fix with Copilot", strconv.FormatBool(cfg.Monitoring.AutoFixWithCopilot)},
				{"Stale after", cfg.Monitoring.StaleAfter.String()},
			}
			for _, row := range rows {
				_ = monitoring.Append(row)
			}
			_ = monitoring.Render()

			if len(cfg.Monitoring.Repositories) > 0 {
				fmt.Fprintf(out, "\nRepositories (%d):\n", len(cfg.Monitoring.Repositories))
				for _, repo := range cfg.Monitoring.Repositories {
					fmt.Fprintf(out, "  - %s\n", repo)
				}
			} else {
				fmt.Fprintf(out, "\nRepositories: none configured\n")
			}

			if len(cfg.Analysis.Analyzers) > 0 {
				fmt.Fprintf(out, "\nAnalyzers: %s\n", strings.Join(cfg.Analysis.Analyzers, ", "))
			}
			fmt.Fprintf(out, "\nLog level: %s\n", cfg.LogLevel)
			return nil
		},
	}
}
