package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"smbsync/internal/models"
	"smbsync/internal/pipeline"
	"smbsync/internal/source"
	"smbsync/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List remote entries once, without grouping or watermark state",
	Long: `List the entries of a remote folder and print them as JSON.

This is the one-shot variant: no watermark is read or written, nothing is
grouped or downloaded. When --since-time is given, entries are kept if either
their last write time or their creation time is at or after the given instant
(a deliberately looser rule than the sync command's strict filter). With
--post-url the whole listing is sent as a single POST request.`,
	Example: `  # Print everything in a share folder
  smbsync list --server fileserver01 --share scans

  # Entries touched since a given time, posted in one request
  smbsync list --since-time 2025-07-25T00:00:00+09:00 --post-url https://ingest.example.com/listing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd)
	},
}

func runList(cmd *cobra.Command) error {
	effective := applySourceOverrides(cmd)

	var since *time.Time
	if override, _ := cmd.Flags().GetString("since-time"); override != "" {
		t, err := parseTimestamp(override)
		if err != nil {
			err = fmt.Errorf("invalid --since-time format, use ISO 8601 (e.g. 2023-01-01T10:00:00+09:00): %w", err)
			utils.PrintError(err, "list")
			return err
		}
		since = &t
	}

	ctx := context.Background()

	session, err := source.Connect(ctx, effective)
	if err != nil {
		utils.PrintError(err, "list")
		return err
	}
	defer session.Close()

	entries, err := session.List(ctx, getFolderPath(cmd))
	if err != nil {
		utils.PrintError(err, "list")
		return err
	}

	included := pipeline.FilterInclusiveSince(entries, since)
	if included == nil {
		included = []models.DirectoryEntry{}
	}

	if err := utils.PrintJSON(included); err != nil {
		utils.PrintError(err, "list")
		return err
	}

	if effective.PostURL != "" {
		postListing(ctx, effective.PostURL, effective.CFAccessClientID, effective.CFAccessClientSecret,
			deliveryTimeout(cmd, effective), included)
	}

	return nil
}

// postListing sends the entire listing as one request. A failure is logged
// but does not fail the command; the listing has already been printed.
func postListing(ctx context.Context, endpoint, clientID, clientSecret string, timeout time.Duration, entries []models.DirectoryEntry) {
	if clientID == "" || clientSecret == "" {
		slog.Warn("CF Access credentials are not set; posting without authentication headers")
	}

	body, err := json.Marshal(entries)
	if err != nil {
		slog.Error("Failed to encode listing", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Error("Failed to build listing request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set("CF-Access-Client-Id", clientID)
	}
	if clientSecret != "" {
		req.Header.Set("CF-Access-Client-Secret", clientSecret)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		slog.Error("Failed to POST listing", "error", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("Listing POST rejected", "status", resp.StatusCode)
		return
	}
	slog.Info("Listing posted", "entries", len(entries), "status", resp.StatusCode)
}

func init() {
	listCmd.Flags().String("server", "", "SMB server host name or IP")
	listCmd.Flags().String("share", "", "SMB share name")
	listCmd.Flags().String("user", "", "SMB user name")
	listCmd.Flags().String("password", "", "SMB password")
	listCmd.Flags().String("domain", "", "SMB domain")
	listCmd.Flags().String("post-url", "", "Endpoint receiving the listing as a single POST")
	listCmd.Flags().String("since-time", "", "Keep entries written or created at/after this ISO 8601 instant")
	listCmd.Flags().Int("timeout", 60, "Timeout in seconds for the listing POST")
}
