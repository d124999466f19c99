package rag

import (
	"fmt"
	"strings"
)

const (
	// ContextCharBudget caps the assembled context block to keep the
	// generation prompt within model limits.
	ContextCharBudget = 1000

	// NoContextSentinel is returned instead of an empty context so the
	// generation prompt always has evidence to reason over; the refusal
	// instruction turns it into a declined answer.
	NoContextSentinel = "No relevant complaints found."
)

// AssembleContext packs retrieved documents into a single context block in
// rank order. Each entry is a one-line excerpt tagged with its product;
// packing stops at the first entry that would push the block past the
// character budget. Greedy prefix packing, deliberately not best-fit.
func AssembleContext(docs []RetrievedDoc) string {
	var b strings.Builder
	for _, doc := range docs {
		text := strings.ReplaceAll(doc.Text, "\n", " ")
		entry := fmt.Sprintf("- [Product: %s] %s\n", doc.Metadata.Product, text)
		if b.Len()+len(entry) >= ContextCharBudget {
			break
		}
		b.WriteString(entry)
	}
	if b.Len() == 0 {
		return NoContextSentinel
	}
	return b.String()
}
