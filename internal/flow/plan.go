package flow

import "github.com/v0xg/clickflow/internal/design"

// Plan indexes the tree, extracts its clickables and returns them in
// navigation order together with the index used to resolve names.
func Plan(root *design.Node, order Order) (*Index, []Clickable) {
	ix := BuildIndex(root)
	return ix, order.Sort(Extract(root, ix), ix)
}
