package models

// LoadRootRequest is the body of a root load. Depth is optional; zero is a valid depth.
type LoadRootRequest struct {
	Path  string `json:"path"`
	Depth *int   `json:"depth"`
}

// PathRequest is the body of expand and parent requests
type PathRequest struct {
	Path string `json:"path"`
}

// Operation names a navigation entry point
type Operation string

const (
	OpLoadRoot Operation = "load"
	OpExpand   Operation = "expand"
	OpAscend   Operation = "parent"
)

// NavigationResult is the outcome of a navigation operation
type NavigationResult struct {
	Operation Operation `json:"operation"`
	Path      string    `json:"path"`
	Graph     GraphView `json:"graph"`
	Skips     []Skip    `json:"skips"`
}
