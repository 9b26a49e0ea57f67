// Package prompt assembles grounded prompts from conversation history,
// retrieved passages, and the current query.
//
// Build is a pure function: identical inputs always produce an identical
// prompt string.
package prompt

import (
	"fmt"
	"strings"

	"github.com/adityaaditya98/news-article-ai-backend/internal/retrieval"
	"github.com/adityaaditya98/news-article-ai-backend/internal/session"
)

// FallbackAnswer is the sentence the model is instructed to reply with
// when the answer is not supported by the given context. The assembler
// does not enforce this; it is a contract the downstream model honors.
const FallbackAnswer = "I don't have enough information in the indexed articles to answer that."

// instructions is the fixed block appended to every prompt.
var instructions = strings.Join([]string{
	"Instructions:",
	"- Answer using only the passages and the conversation above.",
	"- Be concise.",
	"- Do not fabricate information or cite sources not shown above.",
	fmt.Sprintf("- If the answer is not supported by the context, reply exactly: %q", FallbackAnswer),
	"- You may reply conversationally to generic small talk.",
}, "\n")

// Build combines prior turns, retrieved passages, and the current query
// into a single grounded prompt.
//
// Prior turns render as Q{i}/A{i} lines, 1-indexed, in history order; the
// "Conversation so far" block is omitted entirely when history is empty.
// Passages render as numbered blocks in the order given, which is the
// retrieval engine's rank order. The prompt ends with the user query line.
func Build(history []session.Turn, query string, passages []retrieval.Passage) string {
	var b strings.Builder

	b.WriteString("You are a news assistant answering questions about recently indexed articles.\n\n")

	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for i, turn := range history {
			fmt.Fprintf(&b, "Q%d: %s\n", i+1, turn.Query)
			fmt.Fprintf(&b, "A%d: %s\n", i+1, turn.Answer)
		}
		b.WriteString("\n")
	}

	for i, p := range passages {
		fmt.Fprintf(&b, "[Passage %d]\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", p.Title)
		fmt.Fprintf(&b, "Content: %s\n", p.Content)
		b.WriteString("\n")
	}

	b.WriteString(instructions)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "User: %s", query)

	return b.String()
}
