package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"sonmez-voice-agent/internal/rag/schema"
)

// Metadata keys produced by normalization, beyond the shared id/category keys.
const (
	MetaName             = "name"
	MetaCapacityCamping  = "capacity_camping"
	MetaCapacityGlamping = "capacity_glamping"
	MetaWeight           = "weight"
	MetaDimensions       = "dimensions"
	MetaInflationTime    = "inflation_time"
	MetaDoors            = "doors"
	MetaWindows          = "windows"
	MetaMaterialDetails  = "material_details"
	MetaColors           = "colors"
	MetaBenefits         = "benefits"
	MetaKeyFeatures      = "key_features"
	MetaURL              = "url"
	MetaPrice            = "price"
	MetaSKU              = "sku"
	MetaAccessoryKind    = "accessory_category"
	MetaDescription      = "description"
	MetaImageURL         = "image_url"
	MetaQuestion         = "question"
	MetaVariants         = "question_variants"
	MetaAnswerText       = "answer_text"
	MetaAnswerVoice      = "answer_voice"
)

// Slug builds the stable id fragment from an item name: lowercased, with all
// whitespace runs collapsed to a single dash. Items sharing a category and
// name collapse to one document, which is the intended de-duplication key.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// DocumentID builds the stable document id for a category and item name.
func DocumentID(category schema.Category, name string) string {
	return fmt.Sprintf("%s-%s", category, Slug(name))
}

// NormalizeProduct converts a tent product into a retrievable document.
func NormalizeProduct(p Product) *schema.Document {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s. ", p.Name)
	fmt.Fprintf(&sb, "An inflatable tent that sleeps %d people for camping and %d for glamping. ", p.Capacity.Camping, p.Capacity.Glamping)
	if p.Weight != "" {
		fmt.Fprintf(&sb, "Weight: %s. ", p.Weight)
	}
	if p.InflationTime != "" {
		fmt.Fprintf(&sb, "Inflation time: %s. ", p.InflationTime)
	}
	if len(p.Benefits) > 0 {
		fmt.Fprintf(&sb, "Benefits: %s. ", strings.Join(p.Benefits, ", "))
	}
	if len(p.KeyFeatures) > 0 {
		fmt.Fprintf(&sb, "Key features: %s.", strings.Join(p.KeyFeatures, ", "))
	}

	md := map[string]string{
		MetaName:             p.Name,
		MetaCapacityCamping:  strconv.Itoa(p.Capacity.Camping),
		MetaCapacityGlamping: strconv.Itoa(p.Capacity.Glamping),
	}
	putString(md, MetaWeight, p.Weight)
	putString(md, MetaDimensions, p.Dimensions)
	putString(md, MetaInflationTime, p.InflationTime)
	if p.Doors > 0 {
		md[MetaDoors] = strconv.Itoa(p.Doors)
	}
	if p.Windows > 0 {
		md[MetaWindows] = strconv.Itoa(p.Windows)
	}
	putJSON(md, MetaMaterialDetails, p.MaterialDetails)
	putJSON(md, MetaColors, p.Colors)
	putJSON(md, MetaBenefits, p.Benefits)
	putJSON(md, MetaKeyFeatures, p.KeyFeatures)
	putString(md, MetaURL, p.URL)
	if len(p.Colors) > 0 {
		md[MetaPrice] = formatPrice(p.Colors[0].Price)
	}

	return newDocument(schema.CategoryProduct, p.Name, strings.TrimSpace(sb.String()), md)
}

// NormalizeAccessory converts an accessory into a retrievable document.
func NormalizeAccessory(a Accessory) *schema.Document {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s. ", a.Name)
	if a.Category != "" {
		fmt.Fprintf(&sb, "Accessory category: %s. ", a.Category)
	}
	if a.Price > 0 {
		fmt.Fprintf(&sb, "Price: $%s. ", formatPrice(a.Price))
	}
	if a.Description != "" {
		fmt.Fprintf(&sb, "%s", a.Description)
	}

	md := map[string]string{MetaName: a.Name}
	if a.Price > 0 {
		md[MetaPrice] = formatPrice(a.Price)
	}
	putString(md, MetaSKU, a.SKU)
	putString(md, MetaAccessoryKind, a.Category)
	putString(md, MetaDescription, a.Description)
	putString(md, MetaImageURL, a.ImageURL)

	return newDocument(schema.CategoryAccessory, a.Name, strings.TrimSpace(sb.String()), md)
}

// NormalizeFAQ converts an FAQ entry into a retrievable document. The question
// variants are part of the embedded text so paraphrased questions still land
// on the right entry.
func NormalizeFAQ(f FAQEntry) *schema.Document {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s. ", f.Name())
	if f.Question != "" && f.Question != f.Name() {
		fmt.Fprintf(&sb, "Question: %s ", f.Question)
	}
	if len(f.QuestionVariants) > 0 {
		fmt.Fprintf(&sb, "Also asked as: %s. ", strings.Join(f.QuestionVariants, " / "))
	}
	if f.ShortAnswerText != "" {
		fmt.Fprintf(&sb, "Answer: %s", f.ShortAnswerText)
	}

	md := map[string]string{MetaName: f.Name()}
	putString(md, MetaQuestion, f.Question)
	putJSON(md, MetaVariants, f.QuestionVariants)
	putString(md, MetaAnswerText, f.ShortAnswerText)
	putString(md, MetaAnswerVoice, f.ShortAnswerVoice)

	return newDocument(schema.CategoryFAQ, f.Name(), strings.TrimSpace(sb.String()), md)
}

func newDocument(category schema.Category, name, text string, md map[string]string) *schema.Document {
	id := DocumentID(category, name)
	md[schema.MetaKeyID] = id
	md[schema.MetaKeyCategory] = string(category)
	return &schema.Document{
		ID:       id,
		Category: category,
		Text:     text,
		Metadata: md,
	}
}

func putString(md map[string]string, key, value string) {
	if value != "" {
		md[key] = value
	}
}

// putJSON serializes a nested field to a JSON string, since the index's
// metadata storage accepts scalar values only. Empty slices are dropped.
func putJSON(md map[string]string, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil || string(data) == "null" || string(data) == "[]" {
		return
	}
	md[key] = string(data)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
