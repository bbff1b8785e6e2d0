package models

// Display groups used by the renderer to colour nodes
const (
	GroupFolder = 1
	GroupFile   = 2
)

// GraphNode is one filesystem entry in the flattened graph
type GraphNode struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Kind  EntryKind `json:"type"`
	Path  string    `json:"path"`
	Size  int64     `json:"size"`
	Group int       `json:"group"`
}

// GraphLink connects a parent folder to one of its direct children
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphView is the node/link form of a crawled tree consumed by the renderer
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}
