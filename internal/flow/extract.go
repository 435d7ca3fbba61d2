package flow

import (
	"math"

	"github.com/v0xg/clickflow/internal/design"
)

// Extract walks the tree post-order and returns one Clickable per navigation
// found. Children are visited before their parent, left to right, which fixes
// the order that sorting later treats as the tiebreak.
func Extract(root *design.Node, ix *Index) []Clickable {
	var out []Clickable
	extract(root, ix, &out)
	return out
}

func extract(node *design.Node, ix *Index, out *[]Clickable) {
	if node == nil {
		return
	}
	for _, child := range node.Children {
		extract(child, ix, out)
	}
	if !node.Navigable() {
		return
	}

	fromScreen := UnknownScreen
	screen, found := FindScreen(node, ix)
	if found {
		fromScreen = DisplayName(screen)
	}

	base := Clickable{
		Name:        DisplayName(node),
		FromScreen:  fromScreen,
		TapPosition: TapPosition(*node.Box, screen),
		NodeID:      node.ID,
		ElementY:    node.Box.Y,
	}

	switch node.Link.Kind {
	case design.LinkInteractions:
		for _, in := range node.Link.Interactions {
			if in.Target == "" {
				continue
			}
			c := base
			c.NavigatesTo = in.Target
			c.InteractionType = in.Type
			if c.InteractionType == "" {
				c.InteractionType = design.DefaultInteractionType
			}
			*out = append(*out, c)
		}
	case design.LinkLegacy:
		c := base
		c.NavigatesTo = node.Link.Target
		c.InteractionType = design.DefaultInteractionType
		*out = append(*out, c)
	}
}

// TapPosition returns the midpoint of box relative to the screen's origin, or
// the absolute midpoint when screen is nil or has no box. Coordinates are
// rounded half to even.
func TapPosition(box design.BoundingBox, screen *design.Node) Point {
	x, y := box.Center()
	if screen != nil && screen.Box != nil {
		x -= screen.Box.X
		y -= screen.Box.Y
	}
	return Point{X: int(math.RoundToEven(x)), Y: int(math.RoundToEven(y))}
}
