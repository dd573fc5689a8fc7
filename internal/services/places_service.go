package services

import (
	"context"
	"log/slog"

	"github.com/forkcast/forkcast-backend/internal/cache"
	"github.com/forkcast/forkcast-backend/internal/upstream"
)

// PlacesService fronts the maps provider with a read-through details cache.
// Search and directions always go upstream; only details are cached because
// they are immutable enough for a short TTL and by far the hottest call.
type PlacesService struct {
	client *upstream.PlacesClient
	places *cache.Places
}

func NewPlacesService(client *upstream.PlacesClient, places *cache.Places) *PlacesService {
	return &PlacesService{client: client, places: places}
}

func (s *PlacesService) Search(ctx context.Context, query string, params upstream.SearchParams) ([]upstream.Place, error) {
	return s.client.Search(ctx, query, params)
}

func (s *PlacesService) Details(ctx context.Context, placeID string) (*upstream.PlaceDetails, error) {
	if s.places != nil {
		cached, err := s.places.GetDetails(ctx, placeID)
		if err != nil {
			slog.Warn("place cache read failed", "place_id", placeID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	details, err := s.client.Details(ctx, placeID)
	if err != nil {
		return nil, err
	}

	if s.places != nil {
		if err := s.places.SetDetails(ctx, details); err != nil {
			slog.Warn("place cache write failed", "place_id", placeID, "error", err)
		}
	}
	return details, nil
}

func (s *PlacesService) Directions(ctx context.Context, origin, destination, mode string) (*upstream.Route, error) {
	return s.client.Directions(ctx, origin, destination, mode)
}
