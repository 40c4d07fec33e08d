package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("path = %s, want /v1/search", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "photosynthesis" || req.Limit != 5 {
			t.Errorf("request = %+v", req)
		}

		json.NewEncoder(w).Encode(searchResponse{Results: []SearchResult{
			{MessageID: "m1", Score: 0.92, Snippet: "light reactions"},
		}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", time.Second)
	results, err := client.Search(context.Background(), "hub-1", "photosynthesis", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].MessageID != "m1" {
		t.Fatalf("results = %+v", results)
	}
}

func TestSearchRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(searchResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	if _, err := client.Search(context.Background(), "hub-1", "q", 1); err != nil {
		t.Fatalf("Search should succeed after retries: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestSearchDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	if _, err := client.Search(context.Background(), "hub-1", "q", 1); err == nil {
		t.Fatal("expected error for 422 response")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls = %d, want 1 (no retry on 4xx)", got)
	}
}

func TestIndexMessageAcceptsAccepted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/index" {
			t.Errorf("path = %s, want /v1/index", r.URL.Path)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	if err := client.IndexMessage(context.Background(), "hub-1", "m1", "notes"); err != nil {
		t.Fatalf("IndexMessage: %v", err)
	}
}
