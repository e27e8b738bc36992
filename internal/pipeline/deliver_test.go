package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smbsync/internal/models"
)

func TestDeliverAll(t *testing.T) {
	var received []models.DeliveryEnvelope
	var gotID, gotSecret, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("CF-Access-Client-Id")
		gotSecret = r.Header.Get("CF-Access-Client-Secret")
		gotContentType = r.Header.Get("Content-Type")

		body, _ := io.ReadAll(r.Body)
		var envelope models.DeliveryEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			t.Errorf("request body is not a valid envelope: %v", err)
		}
		received = append(received, envelope)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	deliverer := NewDeliverer(server.URL, "test-id", "test-secret", 10*time.Second)

	envelopes := []models.DeliveryEnvelope{
		{Content: "aGVsbG8=", Filename: "a_rec.json", ContentType: "application/json", GroupIdentifier: "rec"},
		{Content: "d29ybGQ=", Filename: "a_rec.pdf", ContentType: "application/pdf", GroupIdentifier: "rec"},
	}

	outcomes := deliverer.DeliverAll(context.Background(), envelopes)

	if len(received) != 2 {
		t.Fatalf("server received %d requests, want 2 (one per file)", len(received))
	}
	if gotID != "test-id" || gotSecret != "test-secret" {
		t.Errorf("auth headers = (%s, %s), want (test-id, test-secret)", gotID, gotSecret)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", gotContentType)
	}
	for i, outcome := range outcomes {
		if !outcome.Delivered {
			t.Errorf("outcome %d not delivered: %s", i, outcome.Error)
		}
		if outcome.StatusCode != http.StatusOK {
			t.Errorf("outcome %d status = %d, want 200", i, outcome.StatusCode)
		}
	}
	if received[0].Content != "aGVsbG8=" {
		t.Errorf("first envelope content = %q, want full payload", received[0].Content)
	}
}

func TestDeliverAllIsolatesFailures(t *testing.T) {
	var count int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		if count == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	deliverer := NewDeliverer(server.URL, "", "", 10*time.Second)

	envelopes := []models.DeliveryEnvelope{
		{Filename: "a_rec.json"},
		{Filename: "a_rec.pdf"},
		{Filename: "b_rec.json"},
	}

	outcomes := deliverer.DeliverAll(context.Background(), envelopes)

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	if !outcomes[0].Delivered || outcomes[1].Delivered || !outcomes[2].Delivered {
		t.Errorf("delivered flags = %v, %v, %v; want true, false, true",
			outcomes[0].Delivered, outcomes[1].Delivered, outcomes[2].Delivered)
	}
	if outcomes[1].Error == "" {
		t.Error("failed outcome has no error description")
	}
	if outcomes[1].StatusCode != http.StatusBadGateway {
		t.Errorf("failed outcome status = %d, want 502", outcomes[1].StatusCode)
	}
}

func TestDeliverAllTransportError(t *testing.T) {
	// Endpoint that refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	deliverer := NewDeliverer(server.URL, "", "", 2*time.Second)
	outcomes := deliverer.DeliverAll(context.Background(), []models.DeliveryEnvelope{{Filename: "a_rec.json"}})

	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
	if outcomes[0].Delivered {
		t.Error("transport error reported as delivered")
	}
	if outcomes[0].Error == "" {
		t.Error("transport error has no description")
	}
}
