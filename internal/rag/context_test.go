package rag

import (
	"strings"
	"testing"

	"github.com/creditrust/complaints-rag/internal/storage"
)

func doc(product, text string) RetrievedDoc {
	return RetrievedDoc{
		Text:     text,
		Metadata: storage.ChunkMetadata{Product: product},
	}
}

func TestAssembleContext_Empty(t *testing.T) {
	got := AssembleContext(nil)
	if got != NoContextSentinel {
		t.Errorf("Expected sentinel for empty docs, got %q", got)
	}

	got = AssembleContext([]RetrievedDoc{})
	if got != NoContextSentinel {
		t.Errorf("Expected sentinel for zero-length docs, got %q", got)
	}
}

func TestAssembleContext_FormatsEntries(t *testing.T) {
	docs := []RetrievedDoc{
		doc("Credit card", "charged twice for the annual fee"),
		doc("Personal loan", "rate changed without notice"),
	}

	got := AssembleContext(docs)

	want := "- [Product: Credit card] charged twice for the annual fee\n" +
		"- [Product: Personal loan] rate changed without notice\n"
	if got != want {
		t.Errorf("Context mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestAssembleContext_NormalizesNewlines(t *testing.T) {
	docs := []RetrievedDoc{
		doc("Savings account", "first line\nsecond line\nthird line"),
	}

	got := AssembleContext(docs)

	if strings.Contains(strings.TrimSuffix(got, "\n"), "\n") {
		t.Errorf("Embedded newlines should be normalized to spaces: %q", got)
	}
	if !strings.Contains(got, "first line second line third line") {
		t.Errorf("Expected normalized text in context, got %q", got)
	}
}

func TestAssembleContext_GreedyPrefixTruncation(t *testing.T) {
	// Each entry is ~320 chars, so only the first three fit under the budget.
	long := strings.Repeat("x", 300)
	docs := []RetrievedDoc{
		doc("Credit card", long),
		doc("Credit card", long),
		doc("Credit card", long),
		doc("Credit card", long),
		doc("Credit card", long),
	}

	got := AssembleContext(docs)

	if len(got) >= ContextCharBudget {
		t.Errorf("Context length %d exceeds budget %d", len(got), ContextCharBudget)
	}

	// Truncation is at item granularity: the output is a whole number of entries.
	entries := strings.Count(got, "- [Product:")
	if entries != 3 {
		t.Errorf("Expected 3 whole entries under the budget, got %d", entries)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("Output should end with a complete entry")
	}
}

func TestAssembleContext_FirstEntryOverBudget(t *testing.T) {
	docs := []RetrievedDoc{
		doc("Credit card", strings.Repeat("y", ContextCharBudget+100)),
	}

	got := AssembleContext(docs)
	if got != NoContextSentinel {
		t.Errorf("Expected sentinel when no entry fits, got %d chars", len(got))
	}
}

func TestAssembleContext_PreservesRankOrder(t *testing.T) {
	docs := []RetrievedDoc{
		doc("Credit card", "alpha"),
		doc("Credit card", "beta"),
		doc("Credit card", "gamma"),
	}

	got := AssembleContext(docs)

	ia := strings.Index(got, "alpha")
	ib := strings.Index(got, "beta")
	ig := strings.Index(got, "gamma")
	if ia < 0 || ib < 0 || ig < 0 || !(ia < ib && ib < ig) {
		t.Errorf("Entries out of rank order: %q", got)
	}
}
