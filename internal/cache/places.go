package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/forkcast/forkcast-backend/internal/upstream"
	"github.com/redis/go-redis/v9"
)

// Places is a read-through cache for place-details responses. The provider
// remains the source of truth; entries just expire.
type Places struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPlaces(rdb *redis.Client, ttl time.Duration) *Places {
	return &Places{rdb: rdb, ttl: ttl}
}

// GetDetails returns the cached details for a place, or (nil, nil) on miss.
func (p *Places) GetDetails(ctx context.Context, placeID string) (*upstream.PlaceDetails, error) {
	raw, err := p.rdb.Get(ctx, placeKey(placeID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var details upstream.PlaceDetails
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		// A corrupt entry is dropped rather than surfaced.
		p.rdb.Del(ctx, placeKey(placeID))
		return nil, nil
	}
	return &details, nil
}

func (p *Places) SetDetails(ctx context.Context, details *upstream.PlaceDetails) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return p.rdb.Set(ctx, placeKey(details.ID), raw, p.ttl).Err()
}

func placeKey(placeID string) string {
	return fmt.Sprintf("place:%s", placeID)
}
