package design

import "encoding/json"

// FrameType is the type tag of a screen container.
const FrameType = "FRAME"

// DefaultInteractionType is used when an interaction omits its type or the
// node only carries a legacy transition target.
const DefaultInteractionType = "ON_CLICK"

// Document is the top-level response of a file fetch
type Document struct {
	Name     string `json:"name"`
	Document Node   `json:"document"`
}

// BoundingBox is an absolute box in document space
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the box
func (b BoundingBox) Center() (x, y float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Interaction is one prototype trigger and its navigation target
type Interaction struct {
	Type   string `json:"type,omitempty"`
	Target string `json:"target,omitempty"`
}

// LinkKind tells which navigation shape a node carries.
type LinkKind int

const (
	LinkNone LinkKind = iota
	LinkInteractions
	LinkLegacy
)

// Link is the navigation metadata of a node. Exactly one shape is set:
// Interactions for LinkInteractions, Target for LinkLegacy.
type Link struct {
	Kind         LinkKind
	Interactions []Interaction
	Target       string
}

// Node is one element of the design tree
type Node struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name,omitempty"`
	Type     string       `json:"type,omitempty"`
	Box      *BoundingBox `json:"absoluteBoundingBox,omitempty"`
	Children []*Node      `json:"children,omitempty"`
	Link     Link         `json:"-"`
}

// rawNode mirrors the wire shape so that field presence survives decoding.
type rawNode struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Box          *BoundingBox   `json:"absoluteBoundingBox"`
	Children     []*Node        `json:"children"`
	Interactions *[]Interaction `json:"prototypeInteractions"`
	Transition   *string        `json:"transitionNodeID"`
}

// UnmarshalJSON decodes a node and folds the two navigation fields into Link.
// A present interaction list wins over the legacy field, even when empty.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Node{
		ID:       raw.ID,
		Name:     raw.Name,
		Type:     raw.Type,
		Box:      raw.Box,
		Children: raw.Children,
	}
	switch {
	case raw.Interactions != nil:
		n.Link = Link{Kind: LinkInteractions, Interactions: *raw.Interactions}
	case raw.Transition != nil && *raw.Transition != "":
		n.Link = Link{Kind: LinkLegacy, Target: *raw.Transition}
	}
	return nil
}

// MarshalJSON writes the node back in wire shape.
func (n Node) MarshalJSON() ([]byte, error) {
	raw := rawNode{
		ID:       n.ID,
		Name:     n.Name,
		Type:     n.Type,
		Box:      n.Box,
		Children: n.Children,
	}
	switch n.Link.Kind {
	case LinkInteractions:
		interactions := n.Link.Interactions
		if interactions == nil {
			interactions = []Interaction{}
		}
		raw.Interactions = &interactions
	case LinkLegacy:
		target := n.Link.Target
		raw.Transition = &target
	}
	return json.Marshal(wireNode(raw))
}

// wireNode drops absent fields on output.
type wireNode struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name,omitempty"`
	Type         string         `json:"type,omitempty"`
	Box          *BoundingBox   `json:"absoluteBoundingBox,omitempty"`
	Children     []*Node        `json:"children,omitempty"`
	Interactions *[]Interaction `json:"prototypeInteractions,omitempty"`
	Transition   *string        `json:"transitionNodeID,omitempty"`
}

// IsScreen reports whether the node is a frame with a bounding box.
func (n *Node) IsScreen() bool {
	return n != nil && n.Type == FrameType && n.Box != nil
}

// Navigable reports whether the node links somewhere and can be placed.
func (n *Node) Navigable() bool {
	return n.Link.Kind != LinkNone && n.Box != nil
}
