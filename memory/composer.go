package memory

import (
	"fmt"
	"strings"
)

// Characters of each answer included in composed context.
const composedAnswerChars = 150

// ComposeContext renders the summary and recent exchanges into the
// context string injected into the answer-generation prompt.
//
// Deterministic string composition, no external calls. The summary is
// emitted verbatim followed by a blank line; each recent exchange is
// emitted oldest-first with its timestamp, the question verbatim, and the
// answer cut to its first 150 characters. The trailing ellipsis is
// appended even when the answer is shorter than the cut, matching the
// established output format. Empty inputs produce an empty string.
func ComposeContext(summary string, recent []Exchange) string {
	var b strings.Builder

	if summary != "" {
		b.WriteString(summary)
		b.WriteString("\n\n")
	}

	if len(recent) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, ex := range recent {
			fmt.Fprintf(&b, "[%s] Human: %s\n", ex.Timestamp.Format("15:04:05"), ex.Question)
			fmt.Fprintf(&b, "Assistant: %s...\n\n", truncateChars(ex.Answer, composedAnswerChars))
		}
	}

	return b.String()
}
