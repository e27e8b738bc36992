package models

// Record is an admitted group of related files sharing a name-derived
// identifier. It exists only within a single run and is never persisted.
type Record struct {
	Identifier string
	Members    []DirectoryEntry
}

// StagedFile is a record member after the staging step. A member that failed
// to download or encode keeps Staged=false and an empty payload; it is never
// delivered but never stops the rest of its group.
type StagedFile struct {
	Entry         DirectoryEntry
	LocalPath     string
	Staged        bool
	FailureReason string
	ContentBase64 string
	MimeType      string
}

// StagedRecord pairs an admitted group with its staging results, preserving
// member order.
type StagedRecord struct {
	Identifier string
	Files      []StagedFile
}
