// Package ingest builds the complaint index: it filters the raw CFPB
// complaint export to the product scope, cleans narratives, splits them
// into chunks, and loads embedded chunks into the vector store.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Record is one in-scope complaint with a cleaned narrative.
type Record struct {
	ComplaintID  string
	Product      string
	Issue        string
	SubIssue     string
	Company      string
	DateReceived string
	Narrative    string
}

// scopeKeywords define the product scope. A complaint is in scope when its
// product name contains any keyword, case-insensitively.
var scopeKeywords = []string{
	"credit card",
	"personal loan",
	"savings",
	"money transfer",
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// InScope reports whether a product name falls inside the business scope.
func InScope(product string) bool {
	lower := strings.ToLower(product)
	for _, keyword := range scopeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// CleanNarrative normalizes a complaint narrative: lowercase, CFPB
// redaction markers removed, whitespace collapsed.
func CleanNarrative(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "xx/xx/xxxx", "")
	text = strings.ReplaceAll(text, "xxxx", "")
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

// csv column headers in the CFPB export.
const (
	colComplaintID  = "Complaint ID"
	colProduct      = "Product"
	colIssue        = "Issue"
	colSubIssue     = "Sub-issue"
	colCompany      = "Company"
	colDateReceived = "Date received"
	colNarrative    = "Consumer complaint narrative"
)

// LoadComplaints streams the raw CFPB CSV and returns in-scope records with
// cleaned, non-empty narratives. Records outside the product scope or
// without a narrative are dropped.
func LoadComplaints(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // export rows occasionally vary

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colProduct, colNarrative} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		product := field(row, colProduct)
		if !InScope(product) {
			continue
		}

		narrative := CleanNarrative(field(row, colNarrative))
		if narrative == "" {
			continue
		}

		records = append(records, Record{
			ComplaintID:  field(row, colComplaintID),
			Product:      product,
			Issue:        field(row, colIssue),
			SubIssue:     field(row, colSubIssue),
			Company:      field(row, colCompany),
			DateReceived: field(row, colDateReceived),
			Narrative:    narrative,
		})
	}

	return records, nil
}
