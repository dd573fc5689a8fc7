package dto

// PreferenceQuery is constructed by the mobile client and rendered into the
// suggestion prompt. Only non-empty defaults are enforced.
type PreferenceQuery struct {
	Cuisine        string   `json:"cuisine"`
	DietaryTags    []string `json:"dietary_tags,omitempty"`
	PriceTier      int      `json:"price_tier,omitempty"` // 1 (cheap) .. 4 (splurge)
	Location       string   `json:"location"`
	Delivery       bool     `json:"delivery,omitempty"`
	OutdoorSeating bool     `json:"outdoor_seating,omitempty"`
	Takeout        bool     `json:"takeout,omitempty"`
	Reservable     bool     `json:"reservable,omitempty"`
}

// SuggestionEntry is one restaurant parsed out of the model's response text.
type SuggestionEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SuggestResponse struct {
	Entries []SuggestionEntry `json:"entries"`
	RawText string            `json:"raw_text"`
}
