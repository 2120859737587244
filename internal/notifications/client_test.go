package notifications

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestNtfy(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "props", true, "default")
	client.baseDelay = time.Millisecond
	client.maxDelay = 5 * time.Millisecond
	return client, server
}

func TestSendNotification(t *testing.T) {
	var gotPath, gotBody string
	client, _ := newTestNtfy(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	})

	if err := client.SendNotification(context.Background(), "kickoff soon"); err != nil {
		t.Fatalf("SendNotification: %v", err)
	}
	if gotPath != "/props" {
		t.Errorf("posted to %q, want /props", gotPath)
	}
	if gotBody != "kickoff soon" {
		t.Errorf("body = %q", gotBody)
	}

	sent, failed, _ := client.GetMetrics()
	if sent != 1 || failed != 0 {
		t.Errorf("metrics sent=%d failed=%d", sent, failed)
	}
}

func TestSendNotificationDisabled(t *testing.T) {
	requests := 0
	client, _ := newTestNtfy(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})
	client.enabled = false

	if err := client.SendNotification(context.Background(), "nope"); err != nil {
		t.Fatalf("disabled client should not error: %v", err)
	}
	if requests != 0 {
		t.Errorf("disabled client made %d requests", requests)
	}
}

func TestSendNotificationNonRetryable(t *testing.T) {
	requests := 0
	client, _ := newTestNtfy(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	})

	err := client.SendNotification(context.Background(), "auth broken")
	if err == nil {
		t.Fatal("expected error on 403")
	}
	notifErr, ok := err.(*NotificationError)
	if !ok || notifErr.Type != "auth" {
		t.Fatalf("expected auth error, got %v", err)
	}
	if requests != 1 {
		t.Errorf("non-retryable error retried: %d requests", requests)
	}
}

func TestSendNotificationRetriesServerErrors(t *testing.T) {
	requests := 0
	client, _ := newTestNtfy(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.SendNotification(context.Background(), "flaky"); err != nil {
		t.Fatalf("should recover after retries: %v", err)
	}
	if requests != 3 {
		t.Errorf("expected 3 requests, got %d", requests)
	}
}

func TestNotifyScrapeCompleteDeliversBeforeReturning(t *testing.T) {
	requests := 0
	client, _ := newTestNtfy(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	})

	client.NotifyScrapeComplete(context.Background(), "PrizePicks", 120, 14)
	if requests != 1 {
		t.Errorf("expected the push to land before returning, got %d requests", requests)
	}

	// An empty board sends nothing.
	client.NotifyScrapeComplete(context.Background(), "PrizePicks", 0, 0)
	if requests != 1 {
		t.Errorf("empty scrape should not notify, got %d requests", requests)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	client, _ := newTestNtfy(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	for i := 0; i < 5; i++ {
		if err := client.SendNotification(context.Background(), "failing"); err == nil {
			t.Fatal("expected failure")
		}
	}

	err := client.SendNotification(context.Background(), "while open")
	notifErr, ok := err.(*NotificationError)
	if !ok || notifErr.Type != "circuit_open" {
		t.Fatalf("expected circuit_open, got %v", err)
	}
}
