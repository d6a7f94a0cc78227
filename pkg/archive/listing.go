package archive

import (
	"sort"
	"strings"
)

// EntryType discriminates file and directory nodes.
type EntryType string

const (
	TypeFile      EntryType = "FILE"
	TypeDirectory EntryType = "DIRECTORY"
)

// Entry is one node of the tree synthesized over an archive. InnerPath
// is the full normalized path from the archive root and Name its last
// segment. Size is the uncompressed byte count (0 for directories),
// CompressedSize and Modified degrade to 0 when the container does not
// record them.
type Entry struct {
	Name           string    `json:"name"`
	InnerPath      string    `json:"innerPath"`
	Type           EntryType `json:"type"`
	Size           int64     `json:"size"`
	CompressedSize int64     `json:"compressedSize"`
	Modified       int64     `json:"modified"`
	Compression    string    `json:"compression"`
}

// Listing is the result of listing one inner path of one archive:
// exactly the direct children of InnerPath, sorted, with intermediate
// directories synthesized from deeper entries.
type Listing struct {
	ArchivePath string  `json:"archivePath"`
	InnerPath   string  `json:"innerPath"`
	Format      string  `json:"format"`
	Entries     []Entry `json:"entries"`
	TotalSize   int64   `json:"totalSize"`
}

// childIndex accumulates direct children of a listing root while a
// backend iterates its native entries in whatever order the container
// stores them.
type childIndex struct {
	parent   string
	children map[string]Entry
	// synthetic marks keys that only ever received a placeholder
	// directory. An explicit entry always replaces a placeholder and a
	// placeholder never replaces anything, so the result does not
	// depend on backend iteration order.
	synthetic map[string]bool
}

func newChildIndex(parent string) *childIndex {
	return &childIndex{
		parent:    parent,
		children:  make(map[string]Entry),
		synthetic: make(map[string]bool),
	}
}

// add offers one native entry to the index. Entries outside the parent
// subtree, the parent itself, and entries with empty normalized paths
// (the archive-root marker some containers store) are ignored.
func (ci *childIndex) add(e Entry) {
	if e.InnerPath == "" || e.InnerPath == ci.parent || !isDescendant(e.InnerPath, ci.parent) {
		return
	}
	key := directChildKey(e.InnerPath, ci.parent)
	if e.InnerPath == key {
		// The entry is itself the direct child: real metadata wins over
		// any previously synthesized placeholder.
		if _, ok := ci.children[key]; !ok || ci.synthetic[key] {
			ci.children[key] = e
			ci.synthetic[key] = false
		}
		return
	}
	// Deeper descendant: it only proves the direct child is a
	// directory.
	if _, ok := ci.children[key]; !ok {
		ci.children[key] = Entry{
			Name:        baseName(key),
			InnerPath:   key,
			Type:        TypeDirectory,
			Compression: "Stored",
		}
		ci.synthetic[key] = true
	}
}

// listing collects, sorts and sums the accumulated children.
func (ci *childIndex) listing(archivePath string, format Format) *Listing {
	entries := make([]Entry, 0, len(ci.children))
	for _, e := range ci.children {
		entries = append(entries, e)
	}
	sortEntries(entries)

	var total int64
	for _, e := range entries {
		total += e.Size
	}

	return &Listing{
		ArchivePath: archivePath,
		InnerPath:   ci.parent,
		Format:      format.String(),
		Entries:     entries,
		TotalSize:   total,
	}
}

// sortEntries orders directories before files, then case-insensitive
// name ascending with the original-case name as a stable tiebreak.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Type != b.Type {
			return a.Type == TypeDirectory
		}
		if la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name); la != lb {
			return la < lb
		}
		return a.Name < b.Name
	})
}
