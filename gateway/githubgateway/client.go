/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubgateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the API endpoint for github.com.
const DefaultBaseURL = "https://api.github.com"

// Option configures the Gateway constructor.
type Option func(*options)

type options struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// WithBaseURL points the gateway at a GitHub Enterprise Server API
// root (e.g. "https://github.example.com/api/v3"). The GraphQL
// endpoint is derived from it.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithToken authenticates all requests with the given token.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithHTTPClient overrides the HTTP client used for both REST and
// GraphQL. Takes precedence over WithToken.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New constructs a Gateway for a single GitHub server.
func New(ctx context.Context, opts ...Option) (*Gateway, error) {
	o := &options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(o)
	}

	hc := o.httpClient
	if hc == nil && o.token != "" {
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token}))
	}

	rest := github.NewClient(hc)
	var gql *githubv4.Client
	if o.baseURL == DefaultBaseURL {
		gql = githubv4.NewClient(hc)
	} else {
		var err error
		rest, err = rest.WithEnterpriseURLs(o.baseURL, o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URLs: %w", err)
		}
		gql = githubv4.NewEnterpriseClient(graphqlEndpoint(o.baseURL), hc)
	}

	return NewFromClients(rest, gql), nil
}

// NewFromClients constructs a Gateway from pre-built API clients. This
// is the seam used by callers with custom authentication and by tests.
func NewFromClients(rest *github.Client, gql *githubv4.Client) *Gateway {
	return &Gateway{rest: rest, gql: gql}
}

// graphqlEndpoint derives the GraphQL URL from an Enterprise REST API
// root: ".../api/v3" hosts serve GraphQL at ".../api/graphql".
func graphqlEndpoint(baseURL string) string {
	b := strings.TrimSuffix(baseURL, "/")
	if strings.HasSuffix(b, "/api/v3") {
		return strings.TrimSuffix(b, "/v3") + "/graphql"
	}
	return b + "/api/graphql"
}

// splitRepo splits an "owner/name" repository identifier.
func splitRepo(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository %q: want owner/name", repo)
	}
	return owner, name, nil
}
