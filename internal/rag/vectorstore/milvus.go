package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"sonmez-voice-agent/internal/rag/interfaces"
	"sonmez-voice-agent/internal/rag/schema"
	"sonmez-voice-agent/pkg/logger"
)

// Column names of the Milvus collection.
const (
	FieldID        = "id"
	FieldDocID     = "doc_id"
	FieldCategory  = "category"
	FieldText      = "text"
	FieldMetadata  = "metadata"
	FieldEmbedding = "embedding"
)

// MilvusStore implements the VectorStore interface on top of a Milvus
// collection. Metadata is stored as a JSON-encoded VarChar column next to the
// filterable doc_id and category columns.
type MilvusStore struct {
	log        *logger.Logger
	client     client.Client
	collection string
	dim        int
}

// NewMilvusStore connects to Milvus and returns a store bound to the named
// collection.
func NewMilvusStore(ctx context.Context, address, collection string, dim int, log *logger.Logger) (*MilvusStore, error) {
	c, err := client.NewClient(ctx, client.Config{Address: address})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus at %s: %w", address, err)
	}
	return &MilvusStore{
		log:        log,
		client:     c,
		collection: collection,
		dim:        dim,
	}, nil
}

// Close releases the Milvus connection.
func (s *MilvusStore) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// EnsureCollection creates the collection with its index when it does not
// exist yet, then loads it for search.
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	exists, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection %s: %w", s.collection, err)
	}

	if !exists {
		collSchema := &entity.Schema{
			CollectionName: s.collection,
			Description:    "Product, accessory and FAQ chunks for the retail assistant",
			Fields: []*entity.Field{
				{Name: FieldID, DataType: entity.FieldTypeVarChar, PrimaryKey: true,
					TypeParams: map[string]string{entity.TypeParamMaxLength: "256"}},
				{Name: FieldDocID, DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{entity.TypeParamMaxLength: "256"}},
				{Name: FieldCategory, DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{entity.TypeParamMaxLength: "32"}},
				{Name: FieldText, DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{entity.TypeParamMaxLength: "8192"}},
				{Name: FieldMetadata, DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{entity.TypeParamMaxLength: "16384"}},
				{Name: FieldEmbedding, DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{entity.TypeParamDim: strconv.Itoa(s.dim)}},
			},
		}
		if err := s.client.CreateCollection(ctx, collSchema, 1); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
		}

		idx, err := entity.NewIndexIvfFlat(entity.L2, 128)
		if err != nil {
			return fmt.Errorf("failed to build index definition: %w", err)
		}
		if err := s.client.CreateIndex(ctx, s.collection, FieldEmbedding, idx, false); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", s.collection, err)
		}
		s.log.Info(fmt.Sprintf("Created Milvus collection %s (dim=%d)", s.collection, s.dim))
	}

	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("failed to load collection %s: %w", s.collection, err)
	}
	return nil
}

// Upsert writes the chunks, replacing any previously stored chunks of the
// same owning documents so that re-ingestion never leaves stale entries.
func (s *MilvusStore) Upsert(ctx context.Context, docs []*schema.Document) error {
	if len(docs) == 0 {
		return nil
	}

	docIDs := make(map[string]bool)
	for _, doc := range docs {
		docIDs[doc.DocID()] = true
	}
	if err := s.deleteByDocIDs(ctx, docIDs); err != nil {
		return err
	}

	ids := make([]string, len(docs))
	owners := make([]string, len(docs))
	categories := make([]string, len(docs))
	texts := make([]string, len(docs))
	metadatas := make([]string, len(docs))
	embeddings := make([][]float32, len(docs))

	for i, doc := range docs {
		if len(doc.Embedding) != s.dim {
			return fmt.Errorf("document %s has embedding of dim %d, expected %d", doc.ID, len(doc.Embedding), s.dim)
		}
		mdJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", doc.ID, err)
		}
		ids[i] = doc.ID
		owners[i] = doc.DocID()
		categories[i] = string(doc.Category)
		texts[i] = doc.Text
		metadatas[i] = string(mdJSON)
		embeddings[i] = doc.Embedding
	}

	_, err := s.client.Insert(ctx, s.collection, "", /* default partition */
		entity.NewColumnVarChar(FieldID, ids),
		entity.NewColumnVarChar(FieldDocID, owners),
		entity.NewColumnVarChar(FieldCategory, categories),
		entity.NewColumnVarChar(FieldText, texts),
		entity.NewColumnVarChar(FieldMetadata, metadatas),
		entity.NewColumnFloatVector(FieldEmbedding, s.dim, embeddings),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chunks into Milvus: %w", err)
	}

	if err := s.client.Flush(ctx, s.collection, false); err != nil {
		return fmt.Errorf("failed to flush collection %s: %w", s.collection, err)
	}

	s.log.Info(fmt.Sprintf("Upserted %d chunks (%d documents) into %s", len(docs), len(docIDs), s.collection))
	return nil
}

func (s *MilvusStore) deleteByDocIDs(ctx context.Context, docIDs map[string]bool) error {
	quoted := make([]string, 0, len(docIDs))
	for id := range docIDs {
		quoted = append(quoted, fmt.Sprintf("%q", id))
	}
	expr := fmt.Sprintf("%s in [%s]", FieldDocID, strings.Join(quoted, ", "))
	if err := s.client.Delete(ctx, s.collection, "", expr); err != nil {
		return fmt.Errorf("failed to delete stale chunks: %w", err)
	}
	return nil
}

// Query performs the ANN search and decodes each hit back into a document.
func (s *MilvusStore) Query(ctx context.Context, embedding []float32, topK int) ([]*schema.Document, error) {
	sp, _ := entity.NewIndexIvfFlatSearchParam(10)

	results, err := s.client.Search(
		ctx, s.collection, []string{}, "",
		[]string{FieldID, FieldDocID, FieldCategory, FieldText, FieldMetadata},
		[]entity.Vector{entity.FloatVector(embedding)},
		FieldEmbedding, entity.L2, topK, sp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search in Milvus: %w", err)
	}

	var docs []*schema.Document
	for _, res := range results {
		idCol, ok := findColumn(res.Fields, FieldID).(*entity.ColumnVarChar)
		if !ok {
			s.log.Warn("Search result is missing the id column, skipping result set")
			continue
		}
		categoryCol, _ := findColumn(res.Fields, FieldCategory).(*entity.ColumnVarChar)
		textCol, _ := findColumn(res.Fields, FieldText).(*entity.ColumnVarChar)
		metadataCol, _ := findColumn(res.Fields, FieldMetadata).(*entity.ColumnVarChar)

		for i := 0; i < res.ResultCount; i++ {
			doc := &schema.Document{
				ID:    idCol.Data()[i],
				Score: res.Scores[i],
			}
			if categoryCol != nil {
				doc.Category = schema.Category(categoryCol.Data()[i])
			}
			if textCol != nil {
				doc.Text = textCol.Data()[i]
			}
			if metadataCol != nil {
				md := make(map[string]string)
				if err := json.Unmarshal([]byte(metadataCol.Data()[i]), &md); err != nil {
					s.log.Warn(fmt.Sprintf("Failed to decode metadata for chunk %s: %v", doc.ID, err))
					md = map[string]string{}
				}
				doc.Metadata = md
			}
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

func findColumn(fields []entity.Column, name string) entity.Column {
	for _, field := range fields {
		if field.Name() == name {
			return field
		}
	}
	return nil
}

var _ interfaces.VectorStore = (*MilvusStore)(nil)
