// Package matcher is the exact-match complement to similarity search.
// Approximate retrieval cannot guarantee finding every item matching a
// criterion, so questions that name a product outright or enumerate by
// capacity get a structured pass over the in-process catalog whose results
// are placed ahead of the retrieved context.
package matcher

import (
	"regexp"
	"strconv"
	"strings"

	"sonmez-voice-agent/internal/catalog"
	"sonmez-voice-agent/internal/rag/schema"
)

// capacityPattern matches phrasings like "fits 6 people", "sleeps 4",
// "capacity of 8 people".
var capacityPattern = regexp.MustCompile(`(?i)\b(?:fit|fits|sleep|sleeps|capacity(?:\s+of)?|for)\s+(\d{1,2})\b`)

// Matcher finds catalog items referenced directly by a user utterance.
type Matcher struct {
	cat *catalog.Catalog
}

// New creates a Matcher over the loaded catalog.
func New(cat *catalog.Catalog) *Matcher {
	return &Matcher{cat: cat}
}

// Match returns normalized documents for every item the utterance refers to
// by name, plus every product whose capacity matches an enumeration-style
// question. The result may be empty.
func (m *Matcher) Match(input string) []*schema.Document {
	if m.cat == nil || input == "" {
		return nil
	}
	lower := strings.ToLower(input)

	var docs []*schema.Document
	seen := make(map[string]bool)
	add := func(doc *schema.Document) {
		if !seen[doc.ID] {
			seen[doc.ID] = true
			docs = append(docs, doc)
		}
	}

	for _, p := range m.cat.Products {
		name := strings.ToLower(p.Name)
		if name != "" && strings.Contains(lower, name) {
			add(catalog.NormalizeProduct(p))
		}
	}
	for _, a := range m.cat.Accessories {
		name := strings.ToLower(a.Name)
		if name != "" && strings.Contains(lower, name) {
			add(catalog.NormalizeAccessory(a))
		}
	}

	if n, ok := capacityFrom(input); ok {
		for _, p := range m.cat.Products {
			if p.Capacity.Camping == n || p.Capacity.Glamping == n {
				add(catalog.NormalizeProduct(p))
			}
		}
	}

	return docs
}

func capacityFrom(input string) (int, bool) {
	match := capacityPattern.FindStringSubmatch(input)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
