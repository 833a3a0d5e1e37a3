/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"strconv"

	"chainguard.dev/prpatrol/config"
	"chainguard.dev/prpatrol/gateway/githubgateway"
	"github.com/spf13/cobra"
)

func newTestConnectionCommand() *cobra.Command {
	var server string
	cmd := &cobra.Command{
		Use:   "test-connection REPOSITORY",
		Short: "Test connectivity to a GitHub server and list open PRs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo := args[0]
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			var srv *config.Server
			for i := range cfg.Servers {
				if cfg.Servers[i].Name == server {
					srv = &cfg.Servers[i]
					break
				}
			}
			if srv == nil {
				return fmt.Errorf("server %q not found in configuration", server)
			}
			if srv.Token == "" {
				return fmt.Errorf("no token configured for server %q", server)
			}

			gw, err := githubgateway.New(ctx,
				githubgateway.WithBaseURL(srv.URL),
				githubgateway.WithToken(srv.Token),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Testing connection to %s...\n", srv.URL)
			prs, err := gw.ListOpenPullRequests(ctx, repo)
			if err != nil {
				return fmt.Errorf("connection failed: %w", err)
			}

			fmt.Fprintf(out, "Successfully connected to %s\n", srv.Name)
			fmt.Fprintf(out, "Found %d open pull requests in %s:\n", len(prs), repo)

			table := newTable([]string{"PR", "Title", "Author"}, out)
			shown := min(len(prs), 5)
			for _, pr := range prs[:shown] {
				_ = table.Append([]string{"#" + strconv.Itoa(pr.Number), pr.Title, pr.Author})
			}
			_ = table.Render()
			if len(prs) > shown {
				fmt.Fprintf(out, "... and %d more\n", len(prs)-shown)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", "default", "GitHub server name")
	return cmd
}
