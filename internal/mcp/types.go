// Package mcp exposes the complaint question-answering pipeline as a Model
// Context Protocol tool, alongside the plain HTTP API.
package mcp

import "github.com/creditrust/complaints-rag/internal/rag"

// AskInput defines the ask_complaints tool parameters.
type AskInput struct {
	// Question is the natural-language question over the complaint corpus.
	Question string `json:"question" jsonschema:"required,description=Natural-language question about consumer complaints"`
	// Product restricts retrieval to complaints about one product (exact match).
	Product string `json:"product,omitempty" jsonschema:"description=Exact product name to filter on (e.g. Credit card)"`
	// Company restricts retrieval to complaints about one company (exact match).
	Company string `json:"company,omitempty" jsonschema:"description=Exact company name to filter on"`
}

// AskOutput is the tool result: the grounded answer plus its sources.
type AskOutput struct {
	// Question echoes the input question.
	Question string `json:"question"`
	// Answer is the generated, context-grounded answer.
	Answer string `json:"answer"`
	// Sources lists the complaint excerpts backing the answer, in
	// retrieval rank order.
	Sources []rag.Source `json:"sources"`
}
