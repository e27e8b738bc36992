package models

import "time"

type EntryKind string

const (
	EntryKindFile      EntryKind = "file"
	EntryKindDirectory EntryKind = "directory"
)

// DirectoryEntry is one item of a remote directory listing. Metadata fields
// are pointers because per-entry attribute retrieval can fail without
// aborting the listing; a nil field means "unknown". Directories never carry
// a size.
type DirectoryEntry struct {
	Name          string     `json:"name"`
	Kind          EntryKind  `json:"type"`
	Path          string     `json:"path"`
	SizeBytes     *int64     `json:"size_bytes"`
	LastWriteTime *time.Time `json:"last_write_time"`
	CreationTime  *time.Time `json:"creation_time"`
}

// IsFile reports whether the entry is a plain file.
func (e DirectoryEntry) IsFile() bool {
	return e.Kind == EntryKindFile
}
