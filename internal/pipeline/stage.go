package pipeline

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"

	"smbsync/internal/models"
	"smbsync/internal/source"
	"smbsync/pkg/utils"
)

// Stager downloads record members into a run-scoped temporary directory and
// prepares their payloads. Each file succeeds or fails on its own; a failed
// member never aborts its group or the run.
type Stager struct {
	session source.Session
	tempDir string
}

// NewStager creates the temporary download directory for this run. The caller
// must arrange Cleanup on every exit path.
func NewStager(session source.Session) (*Stager, error) {
	dir, err := os.MkdirTemp("", "smbsync_download_")
	if err != nil {
		return nil, err
	}
	slog.Info("Created temporary download directory", "dir", dir)
	return &Stager{session: session, tempDir: dir}, nil
}

// TempDir returns the run-scoped download directory.
func (s *Stager) TempDir() string {
	return s.tempDir
}

// Cleanup removes the temporary directory. Failure is logged only.
func (s *Stager) Cleanup() {
	if err := os.RemoveAll(s.tempDir); err != nil {
		slog.Warn("Failed to clean up temporary directory", "dir", s.tempDir, "error", err)
	}
}

// StageRecord downloads and encodes every member of an admitted group in
// member order.
func (s *Stager) StageRecord(ctx context.Context, record models.Record) models.StagedRecord {
	staged := models.StagedRecord{Identifier: record.Identifier}

	for _, member := range record.Members {
		staged.Files = append(staged.Files, s.stageFile(ctx, member))
	}

	return staged
}

func (s *Stager) stageFile(ctx context.Context, entry models.DirectoryEntry) models.StagedFile {
	file := models.StagedFile{Entry: entry}

	localPath := filepath.Join(s.tempDir, entry.Name)
	if err := s.session.Fetch(ctx, entry.Path, localPath); err != nil {
		slog.Warn("Download failed, skipping member", "path", entry.Path, "error", err)
		file.FailureReason = err.Error()
		return file
	}
	file.LocalPath = localPath

	content, err := os.ReadFile(localPath)
	if err != nil {
		// A read failure after download is handled exactly like a download
		// failure: payload discarded, rest of the group continues.
		slog.Warn("Failed to read downloaded file", "path", localPath, "error", err)
		file.FailureReason = err.Error()
		return file
	}

	file.ContentBase64 = base64.StdEncoding.EncodeToString(content)
	file.MimeType = utils.DetectContentType(entry.Name)
	file.Staged = true
	return file
}
