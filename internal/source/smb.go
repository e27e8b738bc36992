package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/hirochachacha/go-smb2"

	"smbsync/config"
	"smbsync/internal/models"
)

type smbSession struct {
	conn    net.Conn
	session *smb2.Session
	share   *smb2.Share
	closed  bool
}

func connectSMB(ctx context.Context, cfg *config.Config) (Session, error) {
	if cfg.SMBServer == "" || cfg.SMBShare == "" {
		return nil, fmt.Errorf("SMB server and share must be configured")
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(cfg.SMBServer, "445"), 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to reach SMB server %s: %w", cfg.SMBServer, err)
	}

	dialer := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     cfg.SMBUser,
			Password: cfg.SMBPassword,
			Domain:   cfg.SMBDomain,
		},
	}

	session, err := dialer.DialContext(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("SMB authentication to %s failed: %w", cfg.SMBServer, err)
	}

	share, err := session.Mount(cfg.SMBShare)
	if err != nil {
		session.Logoff()
		conn.Close()
		return nil, fmt.Errorf("failed to mount share %q: %w", cfg.SMBShare, err)
	}

	slog.Info("Connected to SMB server", "server", cfg.SMBServer, "share", cfg.SMBShare)
	return &smbSession{conn: conn, session: session, share: share}, nil
}

func (s *smbSession) List(ctx context.Context, dirPath string) ([]models.DirectoryEntry, error) {
	infos, err := s.share.ReadDir(toSharePath(dirPath))
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", dirPath, err)
	}

	entries := make([]models.DirectoryEntry, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if name == "." || name == ".." {
			continue
		}

		fullPath := joinRemotePath(dirPath, name)
		entry := models.DirectoryEntry{
			Name: name,
			Kind: models.EntryKindFile,
			Path: fullPath,
		}
		if info.IsDir() {
			entry.Kind = models.EntryKindDirectory
		}

		// Attributes are fetched per entry so one unreadable item cannot
		// abort the listing.
		st, err := s.share.Stat(toSharePath(fullPath))
		if err != nil {
			slog.Warn("Failed to get attributes, keeping entry without metadata", "path", fullPath, "error", err)
			entries = append(entries, entry)
			continue
		}

		if !st.IsDir() {
			size := st.Size()
			entry.SizeBytes = &size
		}
		if mt := st.ModTime(); !mt.IsZero() {
			local := mt.Local()
			entry.LastWriteTime = &local
		}
		if fstat, ok := st.Sys().(*smb2.FileStat); ok {
			if !fstat.CreationTime.IsZero() {
				local := fstat.CreationTime.Local()
				entry.CreationTime = &local
			}
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *smbSession) Fetch(ctx context.Context, remotePath, localPath string) error {
	src, err := s.share.Open(toSharePath(remotePath))
	if err != nil {
		return fmt.Errorf("failed to open remote file %q: %w", remotePath, err)
	}
	defer src.Close()

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %q: %w", localPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to download %q: %w", remotePath, err)
	}
	return nil
}

func (s *smbSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.share.Umount(); err != nil {
		slog.Warn("Failed to unmount SMB share", "error", err)
	}
	if err := s.session.Logoff(); err != nil {
		slog.Warn("Failed to log off SMB session", "error", err)
	}
	return s.conn.Close()
}

// toSharePath converts a slash-separated path relative to the share root into
// the backslash form go-smb2 expects.
func toSharePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "."
	}
	return strings.ReplaceAll(p, "/", `\`)
}

// joinRemotePath builds the slash-separated share-relative path used
// throughout the pipeline and in delivery envelopes.
func joinRemotePath(dir, name string) string {
	if !strings.HasPrefix(dir, "/") {
		dir = "/" + dir
	}
	return path.Join(dir, name)
}
