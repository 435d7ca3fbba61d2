package flow

// Point is an integer tap coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Clickable is one navigation action found in the design tree.
// Screenshot is nil until the target's image has been saved.
type Clickable struct {
	Name            string  `json:"name"`
	FromScreen      string  `json:"from_screen"`
	TapPosition     Point   `json:"tap_position"`
	NavigatesTo     string  `json:"navigates_to"`
	InteractionType string  `json:"interaction_type"`
	NodeID          string  `json:"node_id"`
	ElementY        float64 `json:"element_y"`
	Screenshot      *string `json:"screenshot"`
}
