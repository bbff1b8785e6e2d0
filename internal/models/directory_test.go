package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryKindJSON(t *testing.T) {
	b, err := json.Marshal(GraphNode{ID: "/a", Kind: KindFolder, Group: GroupFolder})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"folder"`)

	var node GraphNode
	require.NoError(t, json.Unmarshal([]byte(`{"id":"/a/b","type":"file"}`), &node))
	assert.Equal(t, KindFile, node.Kind)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"socket"}`), &node))
}

func TestDirectoryEntryCount(t *testing.T) {
	tree := DirectoryEntry{Kind: KindFolder, Children: []DirectoryEntry{
		{Kind: KindFile},
		{Kind: KindFolder, Children: []DirectoryEntry{{Kind: KindFile}, {Kind: KindFile}}},
	}}
	assert.Equal(t, 5, tree.Count())
	assert.True(t, tree.IsFolder())
	assert.False(t, tree.Children[0].IsFolder())
}
