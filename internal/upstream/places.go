package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Wire DTOs for the maps/places provider. Shapes are fixed by the provider;
// we only consume them.

type Place struct {
	ID        string   `json:"place_id"`
	Name      string   `json:"name"`
	Address   string   `json:"formatted_address"`
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Rating    float64  `json:"rating"`
	PriceTier int      `json:"price_level"`
	Types     []string `json:"types"`
	OpenNow   bool     `json:"open_now"`
}

type PlaceReview struct {
	Author string  `json:"author_name"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
	Time   int64   `json:"time"`
}

type PlaceDetails struct {
	Place
	Phone        string        `json:"formatted_phone_number"`
	Website      string        `json:"website"`
	OpeningHours []string      `json:"weekday_text"`
	Reviews      []PlaceReview `json:"reviews"`
}

type RouteStep struct {
	Instruction    string `json:"html_instructions"`
	DistanceMeters int    `json:"distance_meters"`
	DurationSecs   int    `json:"duration_seconds"`
}

type RouteLeg struct {
	StartAddress   string      `json:"start_address"`
	EndAddress     string      `json:"end_address"`
	DistanceMeters int         `json:"distance_meters"`
	DurationSecs   int         `json:"duration_seconds"`
	Steps          []RouteStep `json:"steps"`
}

type Route struct {
	Summary  string     `json:"summary"`
	Polyline string     `json:"overview_polyline"`
	Legs     []RouteLeg `json:"legs"`
}

type placeSearchResponse struct {
	Results []Place `json:"results"`
}

type placeDetailsResponse struct {
	Result PlaceDetails `json:"result"`
}

type directionsResponse struct {
	Routes []Route `json:"routes"`
}

// SearchParams are the optional filters for a place search.
type SearchParams struct {
	Lat    float64
	Lng    float64
	Radius int
	Type   string
}

// PlacesClient consumes the three maps-provider endpoints through the
// authenticated executor.
type PlacesClient struct {
	exec *Executor
}

func NewPlacesClient(exec *Executor) *PlacesClient {
	return &PlacesClient{exec: exec}
}

func (c *PlacesClient) Search(ctx context.Context, query string, params SearchParams) ([]Place, error) {
	q := url.Values{}
	q.Set("query", query)
	if params.Lat != 0 || params.Lng != 0 {
		q.Set("location", strconv.FormatFloat(params.Lat, 'f', -1, 64)+","+strconv.FormatFloat(params.Lng, 'f', -1, 64))
	}
	if params.Radius > 0 {
		q.Set("radius", strconv.Itoa(params.Radius))
	}
	if params.Type != "" {
		q.Set("type", params.Type)
	}

	var resp placeSearchResponse
	if err := c.exec.Get(ctx, "/places/search?"+q.Encode(), &resp, RequestOptions{RequiresAuth: true}); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *PlacesClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if placeID == "" {
		return nil, fmt.Errorf("place id is required")
	}

	var resp placeDetailsResponse
	if err := c.exec.Get(ctx, "/places/"+url.PathEscape(placeID), &resp, RequestOptions{RequiresAuth: true}); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

func (c *PlacesClient) Directions(ctx context.Context, origin, destination, mode string) (*Route, error) {
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("origin and destination are required")
	}
	if mode == "" {
		mode = "driving"
	}

	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("mode", mode)

	var resp directionsResponse
	if err := c.exec.Get(ctx, "/directions?"+q.Encode(), &resp, RequestOptions{RequiresAuth: true}); err != nil {
		return nil, err
	}
	if len(resp.Routes) == 0 {
		return nil, fmt.Errorf("no route found from %q to %q", origin, destination)
	}
	return &resp.Routes[0], nil
}
