package flow

import "github.com/v0xg/clickflow/internal/design"

// FindScreen returns the nearest screen at or above node. The walk follows
// parent ids through the index and stops at the first node it has already
// seen, so a malformed parent chain cannot loop forever.
func FindScreen(node *design.Node, ix *Index) (*design.Node, bool) {
	seen := make(map[*design.Node]struct{})
	current := node
	for current != nil {
		if _, dup := seen[current]; dup {
			return nil, false
		}
		seen[current] = struct{}{}

		if current.IsScreen() {
			return current, true
		}

		parentID, ok := ix.Parent(current.ID)
		if !ok {
			return nil, false
		}
		current, _ = ix.Node(parentID)
	}
	return nil, false
}
