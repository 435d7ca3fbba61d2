package flow

import "sort"

// DefaultStartScreen is the screen whose outgoing actions come first.
const DefaultStartScreen = "Splash"

// DefaultPreference ranks targets by display name after the start screen.
var DefaultPreference = map[string]int{
	"3": 1,
	"2": 2,
}

// Order configures the navigation priority policy.
type Order struct {
	StartScreen string
	Preference  map[string]int
}

// DefaultOrder returns the policy for the given start screen with the
// built-in target preference.
func DefaultOrder(start string) Order {
	if start == "" {
		start = DefaultStartScreen
	}
	return Order{StartScreen: start, Preference: DefaultPreference}
}

type sortKey struct {
	tier int
	rank float64
}

func (k sortKey) less(o sortKey) bool {
	if k.tier != o.tier {
		return k.tier < o.tier
	}
	return k.rank < o.rank
}

func (o Order) key(c Clickable, ix *Index) sortKey {
	if c.FromScreen == o.StartScreen {
		return sortKey{tier: 0}
	}
	if rank, ok := o.Preference[ix.TargetName(c.NavigatesTo)]; ok {
		return sortKey{tier: 1, rank: float64(rank)}
	}
	return sortKey{tier: 2, rank: c.ElementY}
}

// Sort returns the clickables in navigation order. Actions leaving the start
// screen come first, then actions reaching preferred targets by rank, then
// everything else top to bottom. Equal keys keep their input order.
// The input slice is not modified.
func (o Order) Sort(clickables []Clickable, ix *Index) []Clickable {
	keys := make([]sortKey, len(clickables))
	idx := make([]int, len(clickables))
	for i, c := range clickables {
		keys[i] = o.key(c, ix)
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return keys[idx[a]].less(keys[idx[b]])
	})

	out := make([]Clickable, len(clickables))
	for i, j := range idx {
		out[i] = clickables[j]
	}
	return out
}
