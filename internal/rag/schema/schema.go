package schema

// Category discriminates the kind of catalog item a document was built from.
// It is set once at normalization time; renderers dispatch on it instead of
// probing metadata for category-specific keys.
type Category string

const (
	CategoryProduct   Category = "product"
	CategoryAccessory Category = "accessory"
	CategoryFAQ       Category = "faq"
)

// Metadata keys present on every document. MetaKeyDocID identifies the owning
// normalized document on each chunk so retrieval can always recover it.
const (
	MetaKeyID       = "id"
	MetaKeyCategory = "category"
	MetaKeyDocID    = "doc_id"
	MetaKeyChunk    = "chunk_number"
)

// Document is the central data carrier of the retrieval pipeline: a text
// representation of one catalog item (or one chunk of it) plus its flattened
// metadata. Metadata values are scalars only, because the vector index stores
// them as plain strings; nested catalog fields are JSON-encoded at
// normalization time.
type Document struct {
	// ID uniquely identifies this document or chunk.
	ID string

	// Category is the catalog variant this document was normalized from.
	Category Category

	// Text is the short synthesized summary used for embedding.
	Text string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// Metadata is the flattened original catalog item. It always carries
	// MetaKeyID and MetaKeyCategory.
	Metadata map[string]string

	// Score is the similarity score attached at query time.
	Score float32
}

// DocID returns the owning document id of a chunk, falling back to the
// document's own id when it was never chunked.
func (d *Document) DocID() string {
	if d.Metadata != nil {
		if id, ok := d.Metadata[MetaKeyDocID]; ok && id != "" {
			return id
		}
		if id, ok := d.Metadata[MetaKeyID]; ok && id != "" {
			return id
		}
	}
	return d.ID
}

// CloneMetadata returns a copy of the document's metadata so chunks never
// share maps with their parent.
func (d *Document) CloneMetadata() map[string]string {
	if d.Metadata == nil {
		return make(map[string]string)
	}
	md := make(map[string]string, len(d.Metadata))
	for k, v := range d.Metadata {
		md[k] = v
	}
	return md
}
