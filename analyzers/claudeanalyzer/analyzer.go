/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeanalyzer summarizes pull request state with a single
// Claude message. It is a side-channel reporter: it never influences
// reconciliation decisions.
package claudeanalyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/prpatrol/analyzers"
	"github.com/anthropics/anthropic-sdk-go"
)

// Analyzer implements analyzers.Interface backed by the Anthropic API.
type Analyzer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

var _ analyzers.Interface = (*Analyzer)(nil)

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(a *Analyzer) { a.model = model }
}

// WithMaxTokens overrides the response token cap.
func WithMaxTokens(n int64) Option {
	return func(a *Analyzer) { a.maxTokens = n }
}

// New constructs an Analyzer around an existing Anthropic client, so
// the caller decides how to authenticate.
func New(client anthropic.Client, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:    client,
		model:     "claude-sonnet-4-5",
		maxTokens: 1024,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements analyzers.Interface.
func (a *Analyzer) Name() string { return "claude" }

// Analyze implements analyzers.Interface with a single, non-streaming
// message exchange.
func (a *Analyzer) Analyze(ctx context.Context, snap *analyzers.Snapshot) (*analyzers.Report, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: analyzers.SummaryInstructions}},
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(analyzers.SummaryPrompt(snap)),
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("claude summary for %s#%d: %w", snap.Repository, snap.PullRequest.Number, err)
	}

	var summary strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			summary.WriteString(content.Text)
		}
	}
	if summary.Len() == 0 {
		return nil, errors.New("no text content in Claude's response")
	}

	report := &analyzers.Report{
		Analyzer: a.Name(),
		Summary:  summary.String(),
	}
	for _, check := range snap.FailingChecks() {
		report.Findings = append(report.Findings, check.Name)
	}
	return report, nil
}
