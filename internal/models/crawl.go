package models

// SkipReason classifies why an entry was left out of a crawl
type SkipReason string

const (
	SkipPermission SkipReason = "permission"
	SkipNotExist   SkipReason = "not_exist"
	SkipCycle      SkipReason = "cycle"
	SkipListFailed SkipReason = "list_failed"
	SkipOther      SkipReason = "error"
)

// Skip records an entry that could not be crawled
type Skip struct {
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
	Error  string     `json:"error"`
}

// CrawlResult is the tree produced by one crawl plus its diagnostics.
// Truncated is set when the crawl was stopped early by its context.
type CrawlResult struct {
	Root      DirectoryEntry `json:"root"`
	Skips     []Skip         `json:"skips"`
	Truncated bool           `json:"truncated"`
}
