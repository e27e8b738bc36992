package pipeline

import (
	"time"

	"smbsync/internal/models"
)

// FilterResult carries the entries admitted by the change filter plus the
// running maxima observed across them. MaxLastWrite is the candidate for the
// next watermark; MaxCreation is tracked for diagnostics only and never
// persisted.
type FilterResult struct {
	Included     []models.DirectoryEntry
	MaxLastWrite *time.Time
	MaxCreation  *time.Time
}

// FilterSince selects entries strictly newer than the watermark. An entry is
// included iff since is nil, or its last write time is known and greater than
// since. Creation time never qualifies an entry here: the strict,
// last-write-only rule keeps the boundary file of the previous run from being
// reprocessed.
func FilterSince(entries []models.DirectoryEntry, since *time.Time) FilterResult {
	var result FilterResult

	for _, entry := range entries {
		if since != nil {
			if entry.LastWriteTime == nil || !entry.LastWriteTime.After(*since) {
				continue
			}
		}

		if entry.LastWriteTime != nil {
			if result.MaxLastWrite == nil || entry.LastWriteTime.After(*result.MaxLastWrite) {
				t := *entry.LastWriteTime
				result.MaxLastWrite = &t
			}
		}
		if entry.CreationTime != nil {
			if result.MaxCreation == nil || entry.CreationTime.After(*result.MaxCreation) {
				t := *entry.CreationTime
				result.MaxCreation = &t
			}
		}

		result.Included = append(result.Included, entry)
	}

	return result
}

// FilterInclusiveSince is the looser rule used by the one-shot listing
// command: inclusive comparison, and either last write time or creation time
// qualifies. It is intentionally not unified with FilterSince.
func FilterInclusiveSince(entries []models.DirectoryEntry, since *time.Time) []models.DirectoryEntry {
	if since == nil {
		return entries
	}

	var included []models.DirectoryEntry
	for _, entry := range entries {
		byWrite := entry.LastWriteTime != nil && !entry.LastWriteTime.Before(*since)
		byCreation := entry.CreationTime != nil && !entry.CreationTime.Before(*since)
		if byWrite || byCreation {
			included = append(included, entry)
		}
	}
	return included
}
