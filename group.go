package paint

import "fmt"

// Group names the half-open index range [Start, Start+Length) of a
// LayerStack. Groups follow insertions and removals and are kept when they
// become empty.
type Group struct {
	Name   string `json:"name" yaml:"name"`
	Start  int    `json:"start" yaml:"start"`
	Length int    `json:"length" yaml:"length"`
}

// End returns the first index after the group.
func (g Group) End() int {
	return g.Start + g.Length
}

// Contains reports whether index lies inside the group.
func (g Group) Contains(index int) bool {
	return index >= g.Start && index < g.End()
}

func (g Group) String() string {
	return fmt.Sprintf("%s[%d,%d)", g.Name, g.Start, g.End())
}

// shift updates the group for an insertion (delta +1) or removal (delta -1)
// at index. A group containing index grows or shrinks; a group lying after
// the mutation point translates. On insertion "after" includes a group
// starting exactly at index that does not contain it (an empty group).
func (g *Group) shift(index, delta int) {
	switch {
	case g.Contains(index):
		g.Length += delta
	case g.Start > index, delta > 0 && g.Start == index:
		g.Start += delta
	}
}
