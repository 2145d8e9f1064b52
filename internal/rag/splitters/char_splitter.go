package splitters

import (
	"context"
	"fmt"
	"strconv"

	"sonmez-voice-agent/internal/rag/interfaces"
	"sonmez-voice-agent/internal/rag/schema"
)

// CharSplitter implements the Splitter interface by cutting text into
// fixed-size rune windows with overlap. Every chunk keeps a copy of the
// owning document's metadata so retrieval can always recover the item.
type CharSplitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewCharSplitter creates a CharSplitter. ChunkOverlap must be smaller than
// ChunkSize.
func NewCharSplitter(chunkSize, chunkOverlap int) (*CharSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", chunkOverlap, chunkSize)
	}
	return &CharSplitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}, nil
}

// Split splits each document into overlapping chunks. Chunk ids are
// deterministic ("<docID>#<n>") so re-ingesting unchanged content produces
// the same ids and the upsert stays idempotent.
func (s *CharSplitter) Split(_ context.Context, docs []*schema.Document) ([]*schema.Document, error) {
	var chunks []*schema.Document

	for _, doc := range docs {
		runes := []rune(doc.Text)
		step := s.ChunkSize - s.ChunkOverlap

		for start, n := 0, 0; ; start, n = start+step, n+1 {
			end := start + s.ChunkSize
			if end > len(runes) {
				end = len(runes)
			}

			md := doc.CloneMetadata()
			md[schema.MetaKeyDocID] = doc.ID
			md[schema.MetaKeyChunk] = strconv.Itoa(n)

			chunks = append(chunks, &schema.Document{
				ID:       fmt.Sprintf("%s#%d", doc.ID, n),
				Category: doc.Category,
				Text:     string(runes[start:end]),
				Metadata: md,
			})

			if end == len(runes) {
				break
			}
		}
	}

	return chunks, nil
}

var _ interfaces.Splitter = (*CharSplitter)(nil)
