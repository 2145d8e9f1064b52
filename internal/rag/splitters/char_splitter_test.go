package splitters

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sonmez-voice-agent/internal/rag/schema"
)

func TestNewCharSplitter_RejectsBadSettings(t *testing.T) {
	_, err := NewCharSplitter(0, 0)
	assert.Error(t, err)

	_, err = NewCharSplitter(100, 100)
	assert.Error(t, err)

	_, err = NewCharSplitter(100, -1)
	assert.Error(t, err)
}

func TestSplit_ShortDocumentIsSingleChunk(t *testing.T) {
	s, err := NewCharSplitter(1000, 200)
	require.NoError(t, err)

	doc := &schema.Document{
		ID:       "product-london-family",
		Category: schema.CategoryProduct,
		Text:     "Name: London Family. Sleeps 6.",
		Metadata: map[string]string{schema.MetaKeyID: "product-london-family"},
	}

	chunks, err := s.Split(context.Background(), []*schema.Document{doc})
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "product-london-family#0", chunks[0].ID)
	assert.Equal(t, doc.Text, chunks[0].Text)
	assert.Equal(t, "product-london-family", chunks[0].Metadata[schema.MetaKeyDocID])
	assert.Equal(t, "0", chunks[0].Metadata[schema.MetaKeyChunk])
}

func TestSplit_ChunksOverlapAndCoverText(t *testing.T) {
	s, err := NewCharSplitter(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("abcdefghij", 35) // 350 chars
	doc := &schema.Document{ID: "d", Text: text}

	chunks, err := s.Split(context.Background(), []*schema.Document{doc})
	require.NoError(t, err)
	require.True(t, len(chunks) > 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), 100)
		if i > 0 {
			// Each chunk starts with the tail of the previous one.
			prev := chunks[i-1].Text
			assert.Equal(t, prev[len(prev)-20:], chunk.Text[:20])
		}
	}

	// Stitching chunks back together without their overlaps reproduces the text.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0].Text)
	for _, chunk := range chunks[1:] {
		rebuilt.WriteString(chunk.Text[20:])
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplit_MetadataIsCopiedNotShared(t *testing.T) {
	s, err := NewCharSplitter(50, 10)
	require.NoError(t, err)

	doc := &schema.Document{
		ID:       "d",
		Text:     strings.Repeat("x", 120),
		Metadata: map[string]string{"name": "London Family"},
	}

	chunks, err := s.Split(context.Background(), []*schema.Document{doc})
	require.NoError(t, err)
	require.True(t, len(chunks) >= 2)

	chunks[0].Metadata["name"] = "mutated"
	assert.Equal(t, "London Family", chunks[1].Metadata["name"])
	assert.Equal(t, "London Family", doc.Metadata["name"])
}

func TestSplit_DeterministicChunkIDs(t *testing.T) {
	s, err := NewCharSplitter(50, 10)
	require.NoError(t, err)

	doc := func() *schema.Document {
		return &schema.Document{ID: "d", Text: strings.Repeat("y", 130)}
	}

	first, err := s.Split(context.Background(), []*schema.Document{doc()})
	require.NoError(t, err)
	second, err := s.Split(context.Background(), []*schema.Document{doc()})
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}
