/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package analyzers is the optional analysis side-channel: independent
// capability implementations behind one interface, aggregated by a
// Collector. Analyzers produce human-readable reports from a pull
// request snapshot; their output and their failures never feed back
// into reconciliation decisions.
package analyzers
