package script

import (
	"fmt"
	"path/filepath"

	"github.com/v0xg/clickflow/internal/flow"
)

// Tags used in summary lines.
const (
	ActionTapCoord = "Click_COORD"
	VerbCheck      = "CHECK"
)

// Step is one line of the click script: tap at X,Y then check the screen
// against Image.
type Step struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Verb   string `json:"verb"`
	Image  string `json:"image"`
}

// String renders the step as a summary line.
func (s Step) String() string {
	return fmt.Sprintf("%d. %s, %d, %d, %s, %s", s.Index, s.Action, s.X, s.Y, s.Verb, s.Image)
}

// Steps turns ordered clickables into script steps, numbered from 1.
// When no screenshot was saved for a step, the image name falls back to the
// target's file stem.
func Steps(ordered []flow.Clickable, ix *flow.Index) []Step {
	steps := make([]Step, 0, len(ordered))
	for i, c := range ordered {
		image := ix.FileStem(c.NavigatesTo) + ".png"
		if c.Screenshot != nil {
			image = filepath.Base(*c.Screenshot)
		}
		steps = append(steps, Step{
			Index:  i + 1,
			Action: ActionTapCoord,
			X:      c.TapPosition.X,
			Y:      c.TapPosition.Y,
			Verb:   VerbCheck,
			Image:  image,
		})
	}
	return steps
}

// Summary returns one line per step.
func Summary(steps []Step) []string {
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = s.String()
	}
	return lines
}
