package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CosmeticsWatch/internal/domain"
)

func TestPublishRunReport(t *testing.T) {
	t.Parallel()

	var received domain.RunReport
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL)
	report := domain.RunReport{
		StartedAt:        time.Date(2025, time.August, 30, 6, 0, 0, 0, time.UTC),
		Duration:         "1.2s",
		ProductsScored:   120,
		CancelledCovered: 14,
		AlternativeRows:  63,
	}

	if err := notifier.PublishRunReport(context.Background(), report); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if received.ProductsScored != 120 || received.AlternativeRows != 63 {
		t.Fatalf("unexpected payload: %+v", received)
	}
}

func TestPublishRunReportServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL)
	if err := notifier.PublishRunReport(context.Background(), domain.RunReport{}); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

func TestPublishRunReportMisconfigured(t *testing.T) {
	t.Parallel()

	notifier := NewNotifier("")
	if err := notifier.PublishRunReport(context.Background(), domain.RunReport{}); err == nil {
		t.Fatalf("expected error for empty webhook url")
	}
}
