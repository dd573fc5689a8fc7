package services

import (
	"context"
	"testing"

	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestionsNumberedList(t *testing.T) {
	raw := "1. **Trattoria Roma**: cozy spot\n\n2. **Sushi Bar**: fresh fish"

	entries := ParseSuggestions(raw)

	require.Len(t, entries, 2)
	assert.Equal(t, "Trattoria Roma", entries[0].Name)
	assert.Equal(t, "cozy spot", entries[0].Description)
	assert.Equal(t, "Sushi Bar", entries[1].Name)
	assert.Equal(t, "fresh fish", entries[1].Description)
}

func TestParseSuggestionsFallback(t *testing.T) {
	raw := "  I couldn't find anything matching those preferences, sorry!  "

	entries := ParseSuggestions(raw)

	require.Len(t, entries, 1)
	assert.Equal(t, "Suggestion", entries[0].Name)
	assert.Equal(t, "I couldn't find anything matching those preferences, sorry!", entries[0].Description)
}

func TestParseSuggestionsVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []dto.SuggestionEntry
	}{
		{
			name: "no colon after name",
			raw:  "1. **Pho Palace** slurpable broth",
			want: []dto.SuggestionEntry{{Name: "Pho Palace", Description: "slurpable broth"}},
		},
		{
			name: "leading whitespace",
			raw:  "   3. **Burger Barn**: smash patties",
			want: []dto.SuggestionEntry{{Name: "Burger Barn", Description: "smash patties"}},
		},
		{
			name: "empty description",
			raw:  "1. **Mystery Diner**:",
			want: []dto.SuggestionEntry{{Name: "Mystery Diner", Description: ""}},
		},
		{
			name: "entries interleaved with prose",
			raw:  "Here are my picks:\n1. **A**: first\nsome chatter\n2. **B**: second",
			want: []dto.SuggestionEntry{{Name: "A", Description: "first"}, {Name: "B", Description: "second"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSuggestions(tt.raw))
		})
	}
}

func TestRenderPrompt(t *testing.T) {
	prompt := renderPrompt(&dto.PreferenceQuery{
		Cuisine:        "thai",
		DietaryTags:    []string{"vegetarian", "gluten-free"},
		PriceTier:      3,
		Location:       "downtown Austin",
		Delivery:       true,
		OutdoorSeating: true,
	})

	assert.Contains(t, prompt, "downtown Austin")
	assert.Contains(t, prompt, "thai cuisine")
	assert.Contains(t, prompt, "vegetarian, gluten-free")
	assert.Contains(t, prompt, "upscale")
	assert.Contains(t, prompt, "delivery, outdoor seating")
}

func TestRenderPromptSkipsUnsetFields(t *testing.T) {
	prompt := renderPrompt(&dto.PreferenceQuery{Cuisine: "any", Location: "Paris"})

	assert.NotContains(t, prompt, "Dietary needs")
	assert.NotContains(t, prompt, "Budget")
	assert.NotContains(t, prompt, "Must offer")

	// Out-of-range price tiers are ignored rather than rendered.
	prompt = renderPrompt(&dto.PreferenceQuery{Cuisine: "any", Location: "Paris", PriceTier: 7})
	assert.NotContains(t, prompt, "Budget")
}

func TestSuggestRequiresLocation(t *testing.T) {
	svc := NewSuggestService(nil, nil)

	_, err := svc.Suggest(context.Background(), uuid.New(), &dto.PreferenceQuery{Cuisine: "thai"})
	assert.EqualError(t, err, "location is required")
}
