/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package analyzers

import (
	"fmt"
	"strings"
)

// SummaryInstructions is the system prompt shared by the LLM-backed
// analyzers.
const SummaryInstructions = `You are a code-review assistant summarizing the state of a pull request
for a human reviewer. Be concise: a short paragraph on overall health,
then one bullet per failing check with the most likely cause category
(test failure, lint, build, flake). Do not propose code changes.`

// SummaryPrompt renders the snapshot into the user prompt shared by
// the LLM-backed analyzers.
func SummaryPrompt(snap *Snapshot) string {
	var b strings.Builder
	pr := snap.PullRequest
	fmt.Fprintf(&b, "Pull request %s#%d on %s: %q by %s\n", snap.Repository, pr.Number, snap.Server, pr.Title, pr.Author)
	fmt.Fprintf(&b, "Head commit: %s (draft=%v)\n\n", pr.HeadSHA, pr.Draft)

	if len(snap.CheckRuns) == 0 {
		b.WriteString("No check runs reported yet.\n")
	} else {
		b.WriteString("Check runs:\n")
		for _, check := range snap.CheckRuns {
			fmt.Fprintf(&b, "- %s: %s", check.Name, check.Status)
			if check.Conclusion != "" {
				fmt.Fprintf(&b, " (%s)", check.Conclusion)
			}
			b.WriteString("\n")
		}
	}

	if len(snap.WorkflowRuns) > 0 {
		b.WriteString("\nWorkflow runs:\n")
		for _, run := range snap.WorkflowRuns {
			fmt.Fprintf(&b, "- %s: %s", run.Name, run.Status)
			if run.Conclusion != "" {
				fmt.Fprintf(&b, " (%s)", run.Conclusion)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nSummarize the state of this pull request for a reviewer.")
	return b.String()
}
