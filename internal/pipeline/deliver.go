package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"smbsync/internal/models"
)

// Deliverer posts one envelope per staged file to the ingestion endpoint.
// Every POST is independent: a failed request is logged and counted, the
// remaining items are still attempted. There is no retry and no rollback.
type Deliverer struct {
	endpoint     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewDeliverer(endpoint, clientID, clientSecret string, timeout time.Duration) *Deliverer {
	if clientID == "" || clientSecret == "" {
		slog.Warn("CF Access credentials are not set; posting without authentication headers")
	}
	return &Deliverer{
		endpoint:     endpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// DeliverAll posts the envelopes in order and returns a per-item outcome for
// each.
func (d *Deliverer) DeliverAll(ctx context.Context, envelopes []models.DeliveryEnvelope) []models.DeliveryOutcome {
	outcomes := make([]models.DeliveryOutcome, 0, len(envelopes))
	for _, envelope := range envelopes {
		outcomes = append(outcomes, d.deliver(ctx, envelope))
	}
	return outcomes
}

func (d *Deliverer) deliver(ctx context.Context, envelope models.DeliveryEnvelope) models.DeliveryOutcome {
	outcome := models.DeliveryOutcome{
		Filename:        envelope.Filename,
		GroupIdentifier: envelope.GroupIdentifier,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to encode envelope: %v", err)
		slog.Error("Failed to encode delivery envelope", "filename", envelope.Filename, "error", err)
		return outcome
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to build request: %v", err)
		slog.Error("Failed to build delivery request", "filename", envelope.Filename, "error", err)
		return outcome
	}
	req.Header.Set("Content-Type", "application/json")
	if d.clientID != "" {
		req.Header.Set("CF-Access-Client-Id", d.clientID)
	}
	if d.clientSecret != "" {
		req.Header.Set("CF-Access-Client-Secret", d.clientSecret)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		outcome.Error = err.Error()
		slog.Error("POST failed", "filename", envelope.Filename, "error", err)
		return outcome
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	outcome.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome.Error = fmt.Sprintf("unexpected status %s", resp.Status)
		slog.Error("POST rejected", "filename", envelope.Filename, "status", resp.StatusCode)
		return outcome
	}

	outcome.Delivered = true
	slog.Info("POST successful", "filename", envelope.Filename, "status", resp.StatusCode)
	return outcome
}
