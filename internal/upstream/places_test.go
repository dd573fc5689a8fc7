package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacesSearchBuildsQuery(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"results":[{"place_id":"p1","name":"Taco Casa","rating":4.5,"price_level":2,"open_now":true}]}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)
	client := NewPlacesClient(exec)

	places, err := client.Search(context.Background(), "tacos", SearchParams{
		Lat: 30.27, Lng: -97.74, Radius: 1500, Type: "restaurant",
	})
	require.NoError(t, err)

	require.Len(t, places, 1)
	assert.Equal(t, "p1", places[0].ID)
	assert.Equal(t, "Taco Casa", places[0].Name)
	assert.Equal(t, 4.5, places[0].Rating)
	assert.Equal(t, 2, places[0].PriceTier)
	assert.True(t, places[0].OpenNow)

	assert.Equal(t, []string{"tacos"}, gotQuery["query"])
	assert.Equal(t, []string{"30.27,-97.74"}, gotQuery["location"])
	assert.Equal(t, []string{"1500"}, gotQuery["radius"])
	assert.Equal(t, []string{"restaurant"}, gotQuery["type"])
}

func TestPlacesSearchOmitsUnsetFilters(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)
	client := NewPlacesClient(exec)

	_, err := client.Search(context.Background(), "pizza", SearchParams{})
	require.NoError(t, err)

	assert.NotContains(t, gotQuery, "location")
	assert.NotContains(t, gotQuery, "radius")
	assert.NotContains(t, gotQuery, "type")
}

func TestPlacesDetails(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"result":{"place_id":"p1","name":"Taco Casa","formatted_phone_number":"555-0100","website":"https://tacocasa.example","reviews":[{"author_name":"Sam","rating":5,"text":"great"}]}}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)
	client := NewPlacesClient(exec)

	details, err := client.Details(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "/places/p1", gotPath)
	assert.Equal(t, "Taco Casa", details.Name)
	assert.Equal(t, "555-0100", details.Phone)
	require.Len(t, details.Reviews, 1)
	assert.Equal(t, "Sam", details.Reviews[0].Author)
}

func TestPlacesDetailsRequiresID(t *testing.T) {
	client := NewPlacesClient(nil)

	_, err := client.Details(context.Background(), "")
	assert.Error(t, err)
}

func TestDirectionsDefaultsToDriving(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"routes":[{"summary":"I-35 N","legs":[{"distance_meters":8200,"duration_seconds":600}]}]}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)
	client := NewPlacesClient(exec)

	route, err := client.Directions(context.Background(), "home", "Taco Casa", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"driving"}, gotQuery["mode"])
	assert.Equal(t, "I-35 N", route.Summary)
	require.Len(t, route.Legs, 1)
	assert.Equal(t, 8200, route.Legs[0].DistanceMeters)
}

func TestDirectionsNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()

	exec, _, _ := newTestExecutor(srv.URL)
	client := NewPlacesClient(exec)

	_, err := client.Directions(context.Background(), "a", "b", "walking")
	assert.Error(t, err)
}

func TestDirectionsRequiresEndpoints(t *testing.T) {
	client := NewPlacesClient(nil)

	_, err := client.Directions(context.Background(), "", "somewhere", "driving")
	assert.Error(t, err)
	_, err = client.Directions(context.Background(), "somewhere", "", "driving")
	assert.Error(t, err)
}
