/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaianalyzer is the OpenAI-backed counterpart of
// claudeanalyzer, so deployments can pick either provider (or run
// both and compare reports).
package openaianalyzer

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/prpatrol/analyzers"
	"github.com/openai/openai-go"
)

// Analyzer implements analyzers.Interface backed by the OpenAI API.
type Analyzer struct {
	client openai.Client
	model  openai.ChatModel
}

var _ analyzers.Interface = (*Analyzer)(nil)

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithModel overrides the default model.
func WithModel(model openai.ChatModel) Option {
	return func(a *Analyzer) { a.model = model }
}

// New constructs an Analyzer around an existing OpenAI client, so the
// caller decides how to authenticate.
func New(client openai.Client, opts ...Option) *Analyzer {
	a := &Analyzer{
		client: client,
		model:  openai.ChatModelGPT4o,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements analyzers.Interface.
func (a *Analyzer) Name() string { return "openai" }

// Analyze implements analyzers.Interface with a single chat
// completion.
func (a *Analyzer) Analyze(ctx context.Context, snap *analyzers.Snapshot) (*analyzers.Report, error) {
	completion, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analyzers.SummaryInstructions),
			openai.UserMessage(analyzers.SummaryPrompt(snap)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai summary for %s#%d: %w", snap.Repository, snap.PullRequest.Number, err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return nil, errors.New("no content in OpenAI's response")
	}

	report := &analyzers.Report{
		Analyzer: a.Name(),
		Summary:  completion.Choices[0].Message.Content,
	}
	for _, check := range snap.FailingChecks() {
		report.Findings = append(report.Findings, check.Name)
	}
	return report, nil
}
