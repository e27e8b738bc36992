package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"smbsync/internal/pipeline"
	"smbsync/internal/source"
	"smbsync/internal/watermark"
	"smbsync/pkg/utils"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize new records from the remote store to the ingestion endpoint",
	Long: `Synchronize multi-file records from the remote store.

The command lists the configured folder, keeps entries whose last write time
is strictly newer than the stored watermark, groups files by the identifier
derived from their names, admits only groups containing both a .json and a
.pdf member, stages admitted files into a temporary directory, and posts each
staged file as an individual JSON envelope to the configured endpoint.

On completion the maximum observed last write time is persisted as the new
watermark, even when individual deliveries failed. Per-file failures never
abort the run; only a connection or listing failure does.`,
	Example: `  # Incremental sync of a share folder
  smbsync sync --server fileserver01 --share scans --folder-path /dispatch

  # Re-filter from a chosen instant instead of the stored watermark
  smbsync sync --since-time 2025-07-01T00:00:00+09:00

  # Sync from an S3-compatible source instead of SMB
  smbsync sync --source s3 --folder-path incoming/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd)
	},
}

func runSync(cmd *cobra.Command) error {
	effective := applySourceOverrides(cmd)

	store := watermark.NewStore(watermarkPath(effective.WatermarkFile))

	since, err := resolveSince(cmd, store)
	if err != nil {
		utils.PrintError(err, "sync")
		return err
	}
	if since != nil {
		slog.Info("Filtering entries written after watermark", "since", since.Format(time.RFC3339))
	} else {
		slog.Info("No watermark found; performing full resync")
	}
	if effective.PostURL == "" {
		slog.Warn("POST_URL is not configured; results will be printed but not posted")
	}

	ctx := context.Background()

	session, err := source.Connect(ctx, effective)
	if err != nil {
		utils.PrintError(err, "sync")
		return err
	}
	defer session.Close()

	summary, err := pipeline.Run(ctx, session, pipeline.Options{
		Source:               sourceLabel(effective),
		FolderPath:           getFolderPath(cmd),
		Since:                since,
		Endpoint:             effective.PostURL,
		CFAccessClientID:     effective.CFAccessClientID,
		CFAccessClientSecret: effective.CFAccessClientSecret,
		HTTPTimeout:          deliveryTimeout(cmd, effective),
	})
	if err != nil {
		utils.PrintError(err, "sync")
		return err
	}

	if err := utils.PrintJSON(summary); err != nil {
		utils.PrintError(err, "sync")
		return err
	}

	// The watermark advances on every non-fatal completion with at least one
	// included entry, regardless of per-file delivery outcomes.
	if summary.NextWatermark != nil {
		if err := store.Save(*summary.NextWatermark); err != nil {
			slog.Warn("Failed to save watermark", "path", store.Path(), "error", err)
		} else {
			slog.Info("Watermark saved", "path", store.Path(), "value", summary.NextWatermark.Format(time.RFC3339))
		}
	} else {
		slog.Info("No new entries observed; watermark unchanged")
	}

	return nil
}

// resolveSince returns the effective lower bound: the --since-time override
// when given (malformed values are fatal before the pipeline starts),
// otherwise the stored watermark.
func resolveSince(cmd *cobra.Command, store *watermark.Store) (*time.Time, error) {
	override, _ := cmd.Flags().GetString("since-time")
	if override == "" {
		return store.Load(), nil
	}

	t, err := parseTimestamp(override)
	if err != nil {
		return nil, fmt.Errorf("invalid --since-time format, use ISO 8601 (e.g. 2023-01-01T10:00:00+09:00): %w", err)
	}
	return &t, nil
}

// parseTimestamp accepts ISO-8601 with an offset, or a naive local timestamp.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
}

// watermarkPath falls back to a file next to the executable, so scheduled
// runs keep their state regardless of working directory.
func watermarkPath(configured string) string {
	if configured != "" {
		return configured
	}
	exe, err := os.Executable()
	if err != nil {
		slog.Warn("Cannot determine executable path, using working directory for watermark", "error", err)
		return watermark.DefaultFileName
	}
	return filepath.Join(filepath.Dir(exe), watermark.DefaultFileName)
}

func init() {
	syncCmd.Flags().String("server", "", "SMB server host name or IP")
	syncCmd.Flags().String("share", "", "SMB share name")
	syncCmd.Flags().String("user", "", "SMB user name")
	syncCmd.Flags().String("password", "", "SMB password")
	syncCmd.Flags().String("domain", "", "SMB domain")
	syncCmd.Flags().String("post-url", "", "Ingestion endpoint URL (overrides POST_URL)")
	syncCmd.Flags().String("since-time", "", "Override the stored watermark with an ISO 8601 timestamp")
	syncCmd.Flags().Int("timeout", 60, "Timeout in seconds per HTTP delivery request")
}
