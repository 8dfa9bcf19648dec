// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/workaround-app/workaround/internal/config"
	"github.com/workaround-app/workaround/internal/models"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
	})
}

func TestSearchParsesResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"next_page_token": "tok2",
			"results": [
				{
					"place_id": "p1",
					"name": "Corner Cafe",
					"vicinity": "12 Main St",
					"geometry": {"location": {"lat": 33.5, "lng": -117.8}},
					"rating": 4.3,
					"user_ratings_total": 87,
					"price_level": 2
				},
				{"place_id": "p2", "name": "Quiet Library"}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.Search(context.Background(), models.Coordinates{Lat: 33.5, Lng: -117.8}, 5000, models.CategoryCafe, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(page.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(page.Results))
	}
	if page.NextToken != "tok2" {
		t.Errorf("NextToken = %q, want tok2", page.NextToken)
	}

	first := page.Results[0]
	if first.PlaceID != "p1" || first.Name != "Corner Cafe" {
		t.Errorf("first result = %+v", first)
	}
	if first.Rating == nil || *first.Rating != 4.3 {
		t.Errorf("Rating = %v, want 4.3", first.Rating)
	}
	if first.Geometry == nil || first.Geometry.Location.Lat != 33.5 {
		t.Errorf("Geometry = %+v", first.Geometry)
	}
	if len(first.Raw) == 0 || !strings.Contains(string(first.Raw), `"place_id"`) {
		t.Error("raw payload not preserved")
	}

	second := page.Results[1]
	if second.Rating != nil || second.PriceLevel != nil {
		t.Errorf("absent fields should stay nil: %+v", second)
	}
}

func TestSearchZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	page, err := client.Search(context.Background(), models.Coordinates{}, 5000, models.CategoryLibrary, "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(page.Results) != 0 || page.NextToken != "" {
		t.Errorf("expected empty terminal page, got %+v", page)
	}
}

func TestSearchProviderStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "key invalid"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), models.Coordinates{}, 5000, models.CategoryCafe, "")
	if err == nil {
		t.Fatal("expected error for REQUEST_DENIED")
	}
	if !strings.Contains(err.Error(), "REQUEST_DENIED") {
		t.Errorf("error %q does not name the provider status", err)
	}
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), models.Coordinates{}, 5000, models.CategoryCafe, "")
	if err == nil {
		t.Fatal("expected error for HTTP 502")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error %q does not carry the status code", err)
	}
}

func TestSearchRequestParameters(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"location":  r.URL.Query().Get("location"),
			"radius":    r.URL.Query().Get("radius"),
			"type":      r.URL.Query().Get("type"),
			"key":       r.URL.Query().Get("key"),
			"pagetoken": r.URL.Query().Get("pagetoken"),
		}
		_, _ = w.Write([]byte(`{"status": "OK", "results": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Search(context.Background(), models.Coordinates{Lat: 33.65, Lng: -117.8}, 5000, models.CategoryLibrary, "tok")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got["radius"] != "5000" {
		t.Errorf("radius = %q, want 5000", got["radius"])
	}
	if got["type"] != "library" {
		t.Errorf("type = %q, want library", got["type"])
	}
	if got["key"] != "test-key" {
		t.Errorf("key = %q, want test-key", got["key"])
	}
	if got["pagetoken"] != "tok" {
		t.Errorf("pagetoken = %q, want tok", got["pagetoken"])
	}
	if !strings.HasPrefix(got["location"], "33.65") {
		t.Errorf("location = %q, want lat prefix 33.65", got["location"])
	}
}

func TestSearchCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OK", "results": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Search(ctx, models.Coordinates{}, 5000, models.CategoryCafe, ""); err == nil {
		t.Error("expected error on canceled context")
	}
}
