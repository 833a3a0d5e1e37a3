/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config loads prpatrol's configuration from the environment
// or from a YAML file. The core consumes these knobs; it does not own
// them.
package config
