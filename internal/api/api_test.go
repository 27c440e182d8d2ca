package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGETSetsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(WithHeader("Accept", "application/json"))
	resp, err := c.GET(context.Background(), srv.URL, map[string]string{"User-Agent": "test-agent"})
	if err != nil {
		t.Fatalf("GET returned error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q, want per-call override", gotUA)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want client default", gotAccept)
	}

	var body struct {
		OK bool `json:"ok"`
	}
	if err := resp.ParseJSON(&body); err != nil || !body.OK {
		t.Errorf("ParseJSON failed: %v", err)
	}
}

func TestGETErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient().GET(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestGETWithRetryEventuallySucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond}
	resp, err := NewClient().GETWithRetry(context.Background(), srv.URL, cfg)
	if err != nil {
		t.Fatalf("GETWithRetry returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if resp.String() != "ok" {
		t.Errorf("body = %q, want ok", resp.String())
	}
}

func TestGETWithRetryExhaustsBudget(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond}
	_, err := NewClient().GETWithRetry(context.Background(), srv.URL, cfg)
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !strings.Contains(err.Error(), "all 3 attempts failed") {
		t.Errorf("error should report the attempt budget: %v", err)
	}
}

func TestGETWithRetryHonorsPredicate(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := &RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     2 * time.Millisecond,
		RetryIf:     func(err error) bool { return !strings.Contains(err.Error(), "400") },
	}
	_, err := NewClient().GETWithRetry(context.Background(), srv.URL, cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (non-retryable error)", calls)
	}
}

func TestBackoffWithinBounds(t *testing.T) {
	cfg := &RetryConfig{MaxAttempts: 5, InitialWait: 500 * time.Millisecond, MaxWait: 4 * time.Second}
	for attempt := 1; attempt <= 10; attempt++ {
		for i := 0; i < 50; i++ {
			w := cfg.backoff(attempt)
			if w < 0 || w > cfg.MaxWait {
				t.Fatalf("backoff(%d) = %v, outside [0, %v]", attempt, w, cfg.MaxWait)
			}
		}
	}
}
