package geo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchBuildsQueryAndDecodes(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]Commune{
			{Name: "Paris", Code: "75056", PostalCodes: []string{"75001"}},
			{Name: "Parisot", Code: "81202", PostalCodes: []string{"81310"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	communes, err := c.Search(context.Background(), "Paris", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(communes) != 2 || communes[0].Code != "75056" {
		t.Errorf("unexpected communes: %+v", communes)
	}
	for _, want := range []string{"nom=Paris", "boost=population", "limit=5"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestReverseReturnsFirstMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Commune{
			{Name: "Lyon", Code: "69123"},
			{Name: "Villeurbanne", Code: "69266"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	commune, err := c.Reverse(context.Background(), 45.76, 4.83)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if commune.Code != "69123" {
		t.Errorf("expected first match, got %+v", commune)
	}
}

func TestReverseNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Commune{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Reverse(context.Background(), 0, 0); !errors.Is(err, ErrNoCommune) {
		t.Fatalf("expected ErrNoCommune, got %v", err)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Search(context.Background(), "Paris", 5); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
