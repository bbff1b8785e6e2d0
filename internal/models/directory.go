package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntryKind distinguishes folders from files
type EntryKind int

const (
	KindFile EntryKind = iota
	KindFolder
)

// String returns the wire name of the kind ("folder" or "file")
func (k EntryKind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// MarshalJSON encodes the kind by its wire name
func (k EntryKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind from its wire name
func (k *EntryKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "folder":
		*k = KindFolder
	case "file":
		*k = KindFile
	default:
		return fmt.Errorf("unknown entry kind %q", name)
	}
	return nil
}

// DirectoryEntry represents one crawled file or folder and its crawled children
type DirectoryEntry struct {
	Path     string           `json:"path"`
	Name     string           `json:"name"`
	Kind     EntryKind        `json:"type"`
	Size     int64            `json:"size"`
	ModTime  time.Time        `json:"modified"`
	Children []DirectoryEntry `json:"children"`
}

// IsFolder reports whether the entry is a folder
func (e DirectoryEntry) IsFolder() bool {
	return e.Kind == KindFolder
}

// Count returns the number of entries in the tree rooted at e, e included
func (e DirectoryEntry) Count() int {
	n := 1
	for _, child := range e.Children {
		n += child.Count()
	}
	return n
}
