/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubgateway implements gateway.Interface against GitHub or
// GitHub Enterprise Server.
//
// Pull request listings go through the GraphQL API (one round trip for
// the fields the reconciler needs); workflow runs, check runs, run
// approval and fix-request comments go through REST. Fix requests are
// delivered as an issue comment mentioning @copilot with the failing
// check names.
package githubgateway
