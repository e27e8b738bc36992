// Package source abstracts the remote file store the pipeline reads from.
// Listing and fetching are the external capability boundary: a Session
// implementation owns the connection for the full run and is closed via
// deferred cleanup on every exit path.
package source

import (
	"context"
	"fmt"

	"smbsync/config"
	"smbsync/internal/models"
)

// Session is one live connection to a remote store.
//
// List returns the entries of a directory, excluding "." and "..". Per-entry
// metadata is best-effort: an attribute failure keeps the entry with nil
// metadata fields and is never fatal. Fetch copies one remote file to a local
// path; its error is isolated to that file. Close is idempotent and
// best-effort.
type Session interface {
	List(ctx context.Context, dirPath string) ([]models.DirectoryEntry, error)
	Fetch(ctx context.Context, remotePath, localPath string) error
	Close() error
}

// Connect establishes a session against the configured backend. A connection
// failure here is the one fatal error of the pipeline setup.
func Connect(ctx context.Context, cfg *config.Config) (Session, error) {
	switch cfg.SourceBackend {
	case "", "smb":
		return connectSMB(ctx, cfg)
	case "s3":
		return connectS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown source backend %q", cfg.SourceBackend)
	}
}
