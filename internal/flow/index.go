package flow

import (
	"strings"

	"github.com/v0xg/clickflow/internal/design"
)

// Fallback names substituted when a lookup misses.
const (
	UnnamedNode   = "Unnamed"
	UnknownScreen = "Unknown"
	DefaultTarget = "Target"
)

// Index holds flat lookups over a design tree, keyed by node id.
// All three maps are filled together by BuildIndex.
type Index struct {
	names   map[string]string
	parents map[string]string
	nodes   map[string]*design.Node
}

// BuildIndex walks the tree pre-order and records every node that has an id.
// Nodes without an id are not indexed but their children still are.
func BuildIndex(root *design.Node) *Index {
	ix := &Index{
		names:   make(map[string]string),
		parents: make(map[string]string),
		nodes:   make(map[string]*design.Node),
	}
	ix.visit(root, nil)
	return ix
}

func (ix *Index) visit(node, parent *design.Node) {
	if node == nil {
		return
	}
	if node.ID != "" {
		ix.names[node.ID] = DisplayName(node)
		var parentID string
		if parent != nil {
			parentID = parent.ID
		}
		ix.parents[node.ID] = parentID
		ix.nodes[node.ID] = node
	}
	for _, child := range node.Children {
		ix.visit(child, node)
	}
}

// DisplayName returns the node's name, or "Unnamed" when it has none.
func DisplayName(n *design.Node) string {
	if n == nil || n.Name == "" {
		return UnnamedNode
	}
	return n.Name
}

// Len returns the number of indexed nodes.
func (ix *Index) Len() int {
	return len(ix.names)
}

// Node returns the node with the given id.
func (ix *Index) Node(id string) (*design.Node, bool) {
	n, ok := ix.nodes[id]
	return n, ok
}

// Parent returns the id of the node's parent. The root, and any node whose
// parent has no id, has none.
func (ix *Index) Parent(id string) (string, bool) {
	p := ix.parents[id]
	return p, p != ""
}

// Indexed reports whether id is present in the name, parent and node maps.
// It returns false unless all three agree.
func (ix *Index) Indexed(id string) bool {
	_, inNames := ix.names[id]
	_, inParents := ix.parents[id]
	_, inNodes := ix.nodes[id]
	return inNames && inParents && inNodes
}

// NameOr returns the display name for id, or fallback if id is not indexed.
func (ix *Index) NameOr(id, fallback string) string {
	if name, ok := ix.names[id]; ok {
		return name
	}
	return fallback
}

// TargetName returns the trimmed display name of a navigation target,
// "Unknown" if the target is not in the document.
func (ix *Index) TargetName(id string) string {
	return strings.TrimSpace(ix.NameOr(id, UnknownScreen))
}

// FileStem returns a file-safe stem for a target's screenshot: its trimmed
// display name ("Target" if unknown) with spaces turned into underscores.
func (ix *Index) FileStem(id string) string {
	name := strings.TrimSpace(ix.NameOr(id, DefaultTarget))
	return strings.ReplaceAll(name, " ", "_")
}
