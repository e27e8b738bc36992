// Package pipeline implements the incremental record synchronization run:
// change filtering against a watermark, grouping with a completeness gate,
// staging into temporary storage, and per-file delivery.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smbsync/internal/models"
	"smbsync/internal/source"
	"smbsync/pkg/utils"
)

// Options configures a single run.
type Options struct {
	// Source labels the remote store in the summary, e.g. "smb://host/share".
	Source string
	// FolderPath is the listing path relative to the share root.
	FolderPath string
	// Since is the effective watermark; nil triggers a full resync.
	Since *time.Time
	// Endpoint is the ingestion URL; empty skips delivery entirely.
	Endpoint             string
	CFAccessClientID     string
	CFAccessClientSecret string
	HTTPTimeout          time.Duration
}

// Run executes the pipeline stages sequentially over one session. It returns
// a summary on completion; only listing and staging-setup failures are fatal.
// Per-file download, encoding, and delivery failures are isolated and the run
// still completes. The caller owns the session and persists the watermark
// from the summary after a nil-error return.
func Run(ctx context.Context, session source.Session, opts Options) (*models.SyncSummary, error) {
	startTime := time.Now()

	entries, err := session.List(ctx, opts.FolderPath)
	if err != nil {
		return nil, fmt.Errorf("listing failed: %w", err)
	}
	slog.Info("Listed remote directory", "path", opts.FolderPath, "entries", len(entries))

	filtered := FilterSince(entries, opts.Since)
	grouping := GroupRecords(filtered.Included)
	for _, id := range grouping.Rejected {
		slog.Warn("Skipping group: missing .json or .pdf member", "identifier", id)
	}

	stager, err := NewStager(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer stager.Cleanup()

	var envelopes []models.DeliveryEnvelope
	var totalSize int64
	for _, record := range grouping.Records {
		staged := stager.StageRecord(ctx, record)
		for _, file := range staged.Files {
			if !file.Staged {
				continue
			}
			envelopes = append(envelopes, models.DeliveryEnvelope{
				Content:         file.ContentBase64,
				Filename:        file.Entry.Name,
				ContentType:     file.MimeType,
				SourcePath:      file.Entry.Path,
				GroupIdentifier: staged.Identifier,
				LastWriteTime:   file.Entry.LastWriteTime,
				CreationTime:    file.Entry.CreationTime,
				SizeBytes:       file.Entry.SizeBytes,
			})
			if file.Entry.SizeBytes != nil {
				totalSize += *file.Entry.SizeBytes
			}
		}
	}

	summary := &models.SyncSummary{
		Source:          opts.Source,
		FolderPath:      opts.FolderPath,
		Since:           opts.Since,
		EntriesListed:   len(entries),
		EntriesIncluded: len(filtered.Included),
		GroupsAdmitted:  len(grouping.Records),
		GroupsRejected:  len(grouping.Rejected),
		Items:           make([]models.DeliveryEnvelope, 0, len(envelopes)),
		TotalSizeBytes:  totalSize,
		TotalSizeHuman:  utils.FormatBytes(totalSize),
		OperationTime:   utils.FormatTime(startTime),
		NextWatermark:   filtered.MaxLastWrite,
	}
	for _, envelope := range envelopes {
		summary.Items = append(summary.Items, envelope.Elided())
	}

	if opts.Endpoint == "" {
		slog.Warn("No ingestion endpoint configured; skipping delivery")
		return summary, nil
	}

	deliverer := NewDeliverer(opts.Endpoint, opts.CFAccessClientID, opts.CFAccessClientSecret, opts.HTTPTimeout)
	summary.Outcomes = deliverer.DeliverAll(ctx, envelopes)
	for _, outcome := range summary.Outcomes {
		if outcome.Delivered {
			summary.DeliveredCount++
		} else {
			summary.FailedCount++
		}
	}

	return summary, nil
}
