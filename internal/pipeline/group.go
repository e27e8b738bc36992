package pipeline

import (
	"path/filepath"
	"sort"
	"strings"

	"smbsync/internal/models"
)

// Extension priority inside an admitted group: the structured-data file goes
// first, the document second, anything else last. Ties keep listing order.
var extOrder = map[string]int{
	".json": 0,
	".pdf":  1,
}

const extOrderDefault = 999

// ExtractIdentifier derives the grouping key from a filename following the
// "prefix_identifier.ext" pattern: the portion after the first "_" and before
// the first "." of the remainder. Names without that pattern yield ok=false
// and are never grouped.
//
// Example: "20250725135757_北九州１００え５０４３.pdf" → "北九州１００え５０４３".
func ExtractIdentifier(filename string) (string, bool) {
	idx := strings.Index(filename, "_")
	if idx < 0 {
		return "", false
	}
	rest := filename[idx+1:]
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return "", false
	}
	id := rest[:dot]
	if id == "" {
		return "", false
	}
	return id, true
}

// Grouping is the output of the grouper and completeness gate.
//
// Records holds admitted groups in ascending identifier order, each with
// members ordered by extension priority. Rejected lists the identifiers of
// groups that failed the gate; their member files are dropped entirely.
// Others collects directories and files without a derivable identifier; they
// are reported but never staged.
type Grouping struct {
	Records  []models.Record
	Rejected []string
	Others   []models.DirectoryEntry
}

// GroupRecords clusters file entries by identifier and admits only groups
// containing at least one .json and one .pdf member (case-insensitive).
func GroupRecords(entries []models.DirectoryEntry) Grouping {
	var g Grouping
	groups := make(map[string][]models.DirectoryEntry)

	for _, entry := range entries {
		if !entry.IsFile() || entry.Path == "" {
			g.Others = append(g.Others, entry)
			continue
		}
		id, ok := ExtractIdentifier(entry.Name)
		if !ok {
			g.Others = append(g.Others, entry)
			continue
		}
		groups[id] = append(groups[id], entry)
	}

	identifiers := make([]string, 0, len(groups))
	for id := range groups {
		identifiers = append(identifiers, id)
	}
	sort.Strings(identifiers)

	for _, id := range identifiers {
		members := groups[id]
		if !gateAdmits(members) {
			g.Rejected = append(g.Rejected, id)
			continue
		}

		sort.SliceStable(members, func(i, j int) bool {
			return extPriority(members[i].Name) < extPriority(members[j].Name)
		})

		g.Records = append(g.Records, models.Record{
			Identifier: id,
			Members:    members,
		})
	}

	return g
}

func gateAdmits(members []models.DirectoryEntry) bool {
	hasJSON := false
	hasPDF := false
	for _, m := range members {
		switch strings.ToLower(filepath.Ext(m.Name)) {
		case ".json":
			hasJSON = true
		case ".pdf":
			hasPDF = true
		}
	}
	return hasJSON && hasPDF
}

func extPriority(name string) int {
	if p, ok := extOrder[strings.ToLower(filepath.Ext(name))]; ok {
		return p
	}
	return extOrderDefault
}
