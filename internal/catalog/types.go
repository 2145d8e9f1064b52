package catalog

// Capacity holds the sleeping capacity of a tent in its two setups.
type Capacity struct {
	Camping  int `json:"camping"`
	Glamping int `json:"glamping"`
}

// ColorOption is one purchasable color variant of a tent with its price.
type ColorOption struct {
	Color string  `json:"color"`
	Price float64 `json:"price"`
	SKU   string  `json:"sku"`
}

// Product is a tent from the structured product catalog.
type Product struct {
	Name            string        `json:"name"`
	Capacity        Capacity      `json:"capacity"`
	Weight          string        `json:"weight"`
	Dimensions      string        `json:"dimensions"`
	InflationTime   string        `json:"inflation_time"`
	Doors           int           `json:"doors"`
	Windows         int           `json:"windows"`
	MaterialDetails []string      `json:"material_details"`
	Colors          []ColorOption `json:"colors"`
	Benefits        []string      `json:"benefits"`
	KeyFeatures     []string      `json:"key_features"`
	URL             string        `json:"url"`
}

// Accessory is a scraped accessory item.
type Accessory struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	SKU         string  `json:"sku"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

// FAQEntry is one frequently asked question with its canned answers.
type FAQEntry struct {
	IntentName       string   `json:"intent_name"`
	Question         string   `json:"question"`
	QuestionVariants []string `json:"question_variants"`
	ShortAnswerText  string   `json:"short_answer_text"`
	ShortAnswerVoice string   `json:"short_answer_voice"`
}

// Name returns the identifying name of the FAQ entry: the intent name when
// present, otherwise the question itself.
func (f *FAQEntry) Name() string {
	if f.IntentName != "" {
		return f.IntentName
	}
	return f.Question
}

// Catalog aggregates the raw items of all loaded catalog files. The raw items
// are kept in memory for the exact-match path; the normalized documents feed
// the vector index.
type Catalog struct {
	Products    []Product
	Accessories []Accessory
	FAQs        []FAQEntry
}
