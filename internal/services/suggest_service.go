package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/forkcast/forkcast-backend/internal/models"
	"github.com/forkcast/forkcast-backend/internal/upstream"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// entryPattern matches one numbered suggestion line: `N. **Name**: description`.
// The description runs to the end of the line.
var entryPattern = regexp.MustCompile(`(?m)^\s*\d+\.\s*\*\*(.+?)\*\*\s*:?\s*(.*)$`)

var priceTierLabels = map[int]string{
	1: "inexpensive",
	2: "moderately priced",
	3: "upscale",
	4: "fine dining",
}

// Completer is the slice of the upstream suggestion client this service needs.
type Completer interface {
	Complete(ctx context.Context, userID, prompt string) (string, error)
}

type SuggestService struct {
	db     *gorm.DB
	client Completer
}

func NewSuggestService(db *gorm.DB, client Completer) *SuggestService {
	return &SuggestService{db: db, client: client}
}

// Suggest renders the preference query into a prompt, asks the suggestion
// provider, parses the blob into entries and records the round trip.
func (s *SuggestService) Suggest(ctx context.Context, userID uuid.UUID, query *dto.PreferenceQuery) (*dto.SuggestResponse, error) {
	if query.Location == "" {
		return nil, errors.New("location is required")
	}
	if query.Cuisine == "" {
		query.Cuisine = "any"
	}

	raw, err := s.client.Complete(ctx, userID.String(), renderPrompt(query))
	if err != nil {
		return nil, err
	}

	entries := ParseSuggestions(raw)
	s.record(userID, query, raw, entries)

	return &dto.SuggestResponse{Entries: entries, RawText: raw}, nil
}

// History returns the user's past suggestion rounds, newest first.
func (s *SuggestService) History(userID uuid.UUID, limit, offset int) ([]models.Suggestion, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var rounds []models.Suggestion
	var total int64

	s.db.Model(&models.Suggestion{}).Where("user_id = ?", userID).Count(&total)
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&rounds).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch suggestion history: %w", err)
	}
	return rounds, total, nil
}

// ParseSuggestions splits a suggestion blob into entries. Text with no
// numbered-bold pattern becomes a single fallback entry holding the whole
// text, so the caller always has something to show.
func ParseSuggestions(raw string) []dto.SuggestionEntry {
	matches := entryPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return []dto.SuggestionEntry{{Name: "Suggestion", Description: strings.TrimSpace(raw)}}
	}

	entries := make([]dto.SuggestionEntry, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, dto.SuggestionEntry{
			Name:        strings.TrimSpace(m[1]),
			Description: strings.TrimSpace(m[2]),
		})
	}
	return entries
}

func renderPrompt(q *dto.PreferenceQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest restaurants in %s serving %s cuisine.", q.Location, q.Cuisine)
	if len(q.DietaryTags) > 0 {
		fmt.Fprintf(&b, " Dietary needs: %s.", strings.Join(q.DietaryTags, ", "))
	}
	if label, ok := priceTierLabels[q.PriceTier]; ok {
		fmt.Fprintf(&b, " Budget: %s.", label)
	}

	var amenities []string
	if q.Delivery {
		amenities = append(amenities, "delivery")
	}
	if q.OutdoorSeating {
		amenities = append(amenities, "outdoor seating")
	}
	if q.Takeout {
		amenities = append(amenities, "takeout")
	}
	if q.Reservable {
		amenities = append(amenities, "takes reservations")
	}
	if len(amenities) > 0 {
		fmt.Fprintf(&b, " Must offer: %s.", strings.Join(amenities, ", "))
	}

	return b.String()
}

// record persists the round trip. Failures are logged by GORM and do not
// fail the request; history is best-effort.
func (s *SuggestService) record(userID uuid.UUID, query *dto.PreferenceQuery, raw string, entries []dto.SuggestionEntry) {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return
	}
	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return
	}

	s.db.Create(&models.Suggestion{
		ID:      uuid.New(),
		UserID:  userID,
		Query:   datatypes.JSON(queryJSON),
		RawText: raw,
		Entries: datatypes.JSON(entriesJSON),
	})
}

// compile-time check that the upstream client satisfies Completer.
var _ Completer = (*upstream.SuggestClient)(nil)
