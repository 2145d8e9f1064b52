package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonmez-voice-agent/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Products: []catalog.Product{
			{Name: "London Family", Capacity: catalog.Capacity{Camping: 6, Glamping: 4}},
			{Name: "Oslo", Capacity: catalog.Capacity{Camping: 4, Glamping: 2}},
			{Name: "Porto", Capacity: catalog.Capacity{Camping: 6, Glamping: 5}},
		},
		Accessories: []catalog.Accessory{
			{Name: "Tent Footprint", Price: 49.9},
		},
	}
}

func TestMatch_ProductByName(t *testing.T) {
	m := New(testCatalog())

	docs := m.Match("How heavy is the London Family tent?")
	require.Len(t, docs, 1)
	assert.Equal(t, "product-london-family", docs[0].ID)
}

func TestMatch_AccessoryByName(t *testing.T) {
	m := New(testCatalog())

	docs := m.Match("do you sell a tent footprint")
	require.Len(t, docs, 1)
	assert.Equal(t, "accessory-tent-footprint", docs[0].ID)
}

func TestMatch_CapacityEnumeration(t *testing.T) {
	m := New(testCatalog())

	docs := m.Match("Which tents fit 6 people?")
	require.Len(t, docs, 2)

	ids := []string{docs[0].ID, docs[1].ID}
	assert.Contains(t, ids, "product-london-family")
	assert.Contains(t, ids, "product-porto")
}

func TestMatch_CapacityMatchesGlampingToo(t *testing.T) {
	m := New(testCatalog())

	docs := m.Match("any tent that sleeps 5?")
	require.Len(t, docs, 1)
	assert.Equal(t, "product-porto", docs[0].ID)
}

func TestMatch_NoMatches(t *testing.T) {
	m := New(testCatalog())

	assert.Empty(t, m.Match("what is your refund policy"))
	assert.Empty(t, m.Match(""))
}

func TestMatch_NameAndCapacityDeduplicated(t *testing.T) {
	m := New(testCatalog())

	// London Family matches both by name and by capacity; it must appear once.
	docs := m.Match("does the London Family fit 6 people?")
	ids := make(map[string]int)
	for _, doc := range docs {
		ids[doc.ID]++
	}
	assert.Equal(t, 1, ids["product-london-family"])
}

func TestMatch_NilCatalog(t *testing.T) {
	m := New(nil)
	assert.Empty(t, m.Match("anything"))
}
