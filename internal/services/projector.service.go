package services

import "fsgraph/internal/models"

// Project flattens a crawled tree into graph nodes and parent→child links.
// Nodes are emitted in pre-order, so the root is always Nodes[0].
func Project(root models.DirectoryEntry) models.GraphView {
	count := root.Count()
	view := models.GraphView{
		Nodes: make([]models.GraphNode, 0, count),
		Links: make([]models.GraphLink, 0, count-1),
	}
	project(&view, root)
	return view
}

func project(view *models.GraphView, entry models.DirectoryEntry) {
	group := models.GroupFile
	if entry.IsFolder() {
		group = models.GroupFolder
	}
	view.Nodes = append(view.Nodes, models.GraphNode{
		ID:    entry.Path,
		Name:  entry.Name,
		Kind:  entry.Kind,
		Path:  entry.Path,
		Size:  entry.Size,
		Group: group,
	})
	for _, child := range entry.Children {
		view.Links = append(view.Links, models.GraphLink{Source: entry.Path, Target: child.Path})
		project(view, child)
	}
}
