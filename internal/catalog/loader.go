package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"sonmez-voice-agent/internal/rag/schema"
	"sonmez-voice-agent/pkg/logger"
)

// Source names one catalog file and the category of the items inside it.
type Source struct {
	Path     string
	Category schema.Category
}

// Loader reads catalog files and normalizes their items into documents.
type Loader struct {
	log *logger.Logger
}

// NewLoader creates a Loader.
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{log: log}
}

// Load reads every source file, collects the raw items into a Catalog, and
// returns the normalized documents for ingestion. A missing or malformed file
// is logged and skipped; ingestion continues with the remaining sources.
func (l *Loader) Load(sources []Source) (*Catalog, []*schema.Document) {
	cat := &Catalog{}
	var docs []*schema.Document

	for _, src := range sources {
		n, err := l.loadSource(src, cat, &docs)
		if err != nil {
			l.log.Warn(fmt.Sprintf("Skipping catalog source %s: %v", src.Path, err))
			continue
		}
		l.log.Info(fmt.Sprintf("Loaded %d %s items from %s", n, src.Category, src.Path))
	}

	return cat, docs
}

func (l *Loader) loadSource(src Source, cat *Catalog, docs *[]*schema.Document) (int, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return 0, err
	}

	switch src.Category {
	case schema.CategoryProduct:
		var items []Product
		if err := json.Unmarshal(data, &items); err != nil {
			return 0, fmt.Errorf("failed to parse products: %w", err)
		}
		cat.Products = append(cat.Products, items...)
		for _, item := range items {
			*docs = append(*docs, NormalizeProduct(item))
		}
		return len(items), nil

	case schema.CategoryAccessory:
		var items []Accessory
		if err := json.Unmarshal(data, &items); err != nil {
			return 0, fmt.Errorf("failed to parse accessories: %w", err)
		}
		cat.Accessories = append(cat.Accessories, items...)
		for _, item := range items {
			*docs = append(*docs, NormalizeAccessory(item))
		}
		return len(items), nil

	case schema.CategoryFAQ:
		var items []FAQEntry
		if err := json.Unmarshal(data, &items); err != nil {
			return 0, fmt.Errorf("failed to parse FAQ entries: %w", err)
		}
		cat.FAQs = append(cat.FAQs, items...)
		for _, item := range items {
			*docs = append(*docs, NormalizeFAQ(item))
		}
		return len(items), nil

	default:
		return 0, fmt.Errorf("unknown catalog category: %s", src.Category)
	}
}
