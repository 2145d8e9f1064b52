package formatter

import (
	"fmt"
	"strings"

	"sonmez-voice-agent/internal/catalog"
	"sonmez-voice-agent/internal/rag/schema"
)

// NoContextSentinel is returned when retrieval produced no documents. The
// prompt template relies on this exact string to let the model decline
// truthfully instead of hallucinating.
const NoContextSentinel = "No relevant product information was found in the knowledge base."

// notAvailable marks fields missing from metadata. Rendering them explicitly
// lets the model say it lacks that data point instead of omitting it silently.
const notAvailable = "not available"

// Format de-duplicates retrieved documents by their owning item and renders
// each unique item into a short labeled block. Retrieval order is relevance
// order, so the first occurrence of an item wins.
func Format(docs []*schema.Document) string {
	if len(docs) == 0 {
		return NoContextSentinel
	}

	seen := make(map[string]bool)
	var blocks []string

	for _, doc := range docs {
		docID := doc.DocID()
		if seen[docID] {
			continue
		}
		seen[docID] = true
		blocks = append(blocks, renderBlock(doc))
	}

	if len(blocks) == 0 {
		return NoContextSentinel
	}
	return strings.Join(blocks, "\n\n")
}

func renderBlock(doc *schema.Document) string {
	switch doc.Category {
	case schema.CategoryProduct:
		return renderProduct(doc.Metadata)
	case schema.CategoryAccessory:
		return renderAccessory(doc.Metadata)
	case schema.CategoryFAQ:
		return renderFAQ(doc.Metadata)
	default:
		// A document without a known category still contributes its raw text.
		return doc.Text
	}
}

func renderProduct(md map[string]string) string {
	lines := []string{
		fmt.Sprintf("--- Product: %s ---", field(md, catalog.MetaName)),
		fmt.Sprintf("Capacity (Camping): %s people", field(md, catalog.MetaCapacityCamping)),
		fmt.Sprintf("Capacity (Glamping): %s people", field(md, catalog.MetaCapacityGlamping)),
		fmt.Sprintf("Weight: %s", field(md, catalog.MetaWeight)),
		fmt.Sprintf("Inflation Time: %s", field(md, catalog.MetaInflationTime)),
		fmt.Sprintf("Price: Starts at $%s", field(md, catalog.MetaPrice)),
	}
	return strings.Join(lines, "\n")
}

func renderAccessory(md map[string]string) string {
	lines := []string{
		fmt.Sprintf("--- Accessory: %s ---", field(md, catalog.MetaName)),
		fmt.Sprintf("Category: %s", field(md, catalog.MetaAccessoryKind)),
		fmt.Sprintf("Price: $%s", field(md, catalog.MetaPrice)),
	}
	if desc, ok := md[catalog.MetaDescription]; ok {
		lines = append(lines, fmt.Sprintf("Description: %s", desc))
	}
	return strings.Join(lines, "\n")
}

func renderFAQ(md map[string]string) string {
	lines := []string{
		fmt.Sprintf("--- FAQ: %s ---", field(md, catalog.MetaName)),
		fmt.Sprintf("Question: %s", field(md, catalog.MetaQuestion)),
		fmt.Sprintf("Answer: %s", field(md, catalog.MetaAnswerText)),
	}
	return strings.Join(lines, "\n")
}

func field(md map[string]string, key string) string {
	if md != nil {
		if v, ok := md[key]; ok && v != "" {
			return v
		}
	}
	return notAvailable
}
