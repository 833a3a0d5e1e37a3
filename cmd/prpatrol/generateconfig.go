/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"fmt"
	"os"

	"chainguard.dev/prpatrol/config"
	"github.com/spf13/cobra"
)

func newGenerateConfigCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Generate a sample configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), config.Sample())
				return nil
			}
			if err := os.WriteFile(output, []byte(config.Sample()), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: stdout)")
	return cmd
}
