package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonmez-voice-agent/internal/catalog"
	"sonmez-voice-agent/internal/rag/schema"
)

func productDoc(id string, chunk string) *schema.Document {
	md := map[string]string{
		schema.MetaKeyID:            id,
		schema.MetaKeyCategory:      "product",
		catalog.MetaName:            "London Family",
		catalog.MetaCapacityCamping: "6",
		catalog.MetaWeight:          "24 kg",
		catalog.MetaPrice:           "1299.99",
	}
	docID := id
	if chunk != "" {
		md[schema.MetaKeyDocID] = id
		docID = id + "#" + chunk
	}
	return &schema.Document{
		ID:       docID,
		Category: schema.CategoryProduct,
		Metadata: md,
	}
}

func TestFormat_EmptyRetrievalYieldsSentinel(t *testing.T) {
	assert.Equal(t, NoContextSentinel, Format(nil))
	assert.Equal(t, NoContextSentinel, Format([]*schema.Document{}))
}

func TestFormat_DeduplicatesChunksOfSameItem(t *testing.T) {
	docs := []*schema.Document{
		productDoc("product-london-family", "0"),
		productDoc("product-london-family", "1"),
		productDoc("product-london-family", "2"),
	}

	out := Format(docs)
	assert.Equal(t, 1, strings.Count(out, "--- Product: London Family ---"))
}

func TestFormat_RendersProductFields(t *testing.T) {
	out := Format([]*schema.Document{productDoc("product-london-family", "")})

	assert.Contains(t, out, "--- Product: London Family ---")
	assert.Contains(t, out, "Capacity (Camping): 6 people")
	assert.Contains(t, out, "Weight: 24 kg")
	assert.Contains(t, out, "Price: Starts at $1299.99")
}

func TestFormat_MissingFieldsRenderAsNotAvailable(t *testing.T) {
	out := Format([]*schema.Document{productDoc("product-london-family", "")})

	// Glamping capacity and inflation time are absent from the metadata.
	assert.Contains(t, out, "Capacity (Glamping): not available people")
	assert.Contains(t, out, "Inflation Time: not available")
}

func TestFormat_RendersAccessoryAndFAQ(t *testing.T) {
	accessory := &schema.Document{
		ID:       "accessory-footprint",
		Category: schema.CategoryAccessory,
		Metadata: map[string]string{
			schema.MetaKeyID:        "accessory-footprint",
			catalog.MetaName:        "Footprint",
			catalog.MetaPrice:       "49.9",
			catalog.MetaAccessoryKind: "ground sheets",
			catalog.MetaDescription: "Protects the floor.",
		},
	}
	faq := &schema.Document{
		ID:       "faq-warranty",
		Category: schema.CategoryFAQ,
		Metadata: map[string]string{
			schema.MetaKeyID:      "faq-warranty",
			catalog.MetaName:      "warranty",
			catalog.MetaQuestion:  "How long is the warranty?",
			catalog.MetaAnswerText: "Two years.",
		},
	}

	out := Format([]*schema.Document{accessory, faq})

	require.Contains(t, out, "--- Accessory: Footprint ---")
	assert.Contains(t, out, "Category: ground sheets")
	assert.Contains(t, out, "Price: $49.9")
	assert.Contains(t, out, "Description: Protects the floor.")

	require.Contains(t, out, "--- FAQ: warranty ---")
	assert.Contains(t, out, "Question: How long is the warranty?")
	assert.Contains(t, out, "Answer: Two years.")

	// Blocks are separated by a blank line.
	assert.Contains(t, out, "Protects the floor.\n\n--- FAQ: warranty ---")
}

func TestFormat_FirstOccurrenceWins(t *testing.T) {
	first := productDoc("product-london-family", "0")
	second := productDoc("product-london-family", "1")
	second.Metadata[catalog.MetaName] = "Wrong Name"

	out := Format([]*schema.Document{first, second})
	assert.Contains(t, out, "London Family")
	assert.NotContains(t, out, "Wrong Name")
}
