// Package classify assigns a coarse legal category to a document from keyword heuristics.
package classify

import (
	"strings"

	"github.com/hyperjump/juris/internal/models"
)

type rule struct {
	docType models.DocumentType
	match   func(text, name string) bool
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{models.DocumentContract, func(text, name string) bool {
		return containsAny(text, "agreement", "contract") || containsAny(name, "agreement", "contract")
	}},
	{models.DocumentPolicy, func(text, name string) bool {
		return strings.Contains(text, "policy") || strings.Contains(name, "policy")
	}},
	{models.DocumentLease, func(text, name string) bool {
		return strings.Contains(text, "lease") || strings.Contains(name, "lease")
	}},
	{models.DocumentNDA, func(text, name string) bool {
		return containsAny(text, "nda", "non-disclosure") || strings.Contains(name, "nda")
	}},
	{models.DocumentTerms, func(text, _ string) bool {
		return containsAny(text, "terms of service", "terms and conditions")
	}},
	{models.DocumentLegal, func(text, _ string) bool {
		return strings.Contains(text, "whereas") && strings.Contains(text, "party")
	}},
}

// Classify returns the document type for text and filename. Matching is a
// case-insensitive substring scan; documents matching no rule are general.
func Classify(text, filename string) models.DocumentType {
	text = strings.ToLower(text)
	filename = strings.ToLower(filename)
	for _, r := range rules {
		if r.match(text, filename) {
			return r.docType
		}
	}
	return models.DocumentGeneral
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
