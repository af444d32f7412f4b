// Package view derives the screen layout of an exploration as a tree of
// nodes stored in a flat arena. Composition is a pure function of its
// input; the tree owns no state.
package view

import (
	"github.com/bascanada/logexplorer/pkg/explore"
	"github.com/bascanada/logexplorer/pkg/explore/filter"
	"github.com/bascanada/logexplorer/pkg/explore/query"
)

// SplitRatio is the share of the width given to the primary pane when the
// details pane is open.
const SplitRatio = 0.6

// Group headers.
const (
	HeaderPatterns        = "Patterns"
	HeaderIncludePatterns = "Include patterns"
	HeaderExcludePatterns = "Exclude patterns"
)

type NodeKind int

const (
	KindRoot NodeKind = iota
	KindPrimary
	KindSecondary
	KindControls
	KindSelectorGroup
	KindControlGroup
	KindControl
	KindVariable
	KindPatterns
	KindPatternGroup
	KindHeader
	KindChip
	KindTopView
)

func (k NodeKind) String() string {
	return [...]string{
		"root", "primary", "secondary", "controls", "selector-group",
		"control-group", "control", "variable", "patterns", "pattern-group",
		"header", "chip", "top-view",
	}[k]
}

// NodeID indexes Tree.Nodes. The root is always 0.
type NodeID int

const noParent NodeID = -1

// Node is one element of the layout. Only the fields relevant to its kind
// are set.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Parent   NodeID
	Children []NodeID
	Text     string

	Control  explore.Control
	Variable VariableView
	TopView  explore.TopView
	Details  *explore.DetailsState

	// Chip fields. ChipIndex is the position in display order.
	Pattern     query.AppliedPattern
	PatternType query.PatternType
	ChipIndex   int
	Focused     bool
	Expanded    bool
}

// Tree is the arena holding every node.
type Tree struct {
	Nodes []Node
	// Ratio is the primary pane share, 1 when there is no secondary pane.
	Ratio float64
}

func (t *Tree) Root() *Node { return &t.Nodes[0] }

func (t *Tree) Node(id NodeID) *Node { return &t.Nodes[id] }

// Children returns the direct children of id in order.
func (t *Tree) Children(id NodeID) []*Node {
	out := make([]*Node, 0, len(t.Nodes[id].Children))
	for _, c := range t.Nodes[id].Children {
		out = append(out, &t.Nodes[c])
	}
	return out
}

// Find returns every node of kind in depth first order.
func (t *Tree) Find(kind NodeKind) []*Node {
	var out []*Node
	var walk func(NodeID)
	walk = func(id NodeID) {
		if t.Nodes[id].Kind == kind {
			out = append(out, &t.Nodes[id])
		}
		for _, c := range t.Nodes[id].Children {
			walk(c)
		}
	}
	walk(0)
	return out
}

// First returns the first node of kind or nil.
func (t *Tree) First(kind NodeKind) *Node {
	if nodes := t.Find(kind); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// Chips returns the chip nodes in display order.
func (t *Tree) Chips() []*Node { return t.Find(KindChip) }

func (t *Tree) add(parent NodeID, n Node) NodeID {
	n.ID = NodeID(len(t.Nodes))
	n.Parent = parent
	t.Nodes = append(t.Nodes, n)
	if parent != noParent {
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, n.ID)
	}
	return n.ID
}

// VariableView is what a selector shows for one variable.
type VariableView struct {
	Name       string
	Label      string
	Visibility filter.Visibility
	Values     []string
}

// VariablesOf lists the selectors of vars in display order.
func VariablesOf(vars *explore.Variables) []VariableView {
	out := []VariableView{{
		Name:       vars.Datasource.Name(),
		Label:      vars.Datasource.Label(),
		Visibility: filter.VisibilityShown,
		Values:     []string{vars.Datasource.Value()},
	}}
	for _, id := range vars.Filters.IDs() {
		c := vars.Filters.Get(id)
		values := make([]string, 0, c.Len())
		for _, f := range c.Filters() {
			values = append(values, f.String())
		}
		out = append(out, VariableView{
			Name:       c.Name(),
			Label:      c.Label(),
			Visibility: c.Visibility(),
			Values:     values,
		})
	}
	return out
}

// Input is everything Compose reads.
type Input struct {
	State     explore.State
	Variables []VariableView
	Chips     ChipFocus
}

// InputOf snapshots an exploration.
func InputOf(e *explore.Exploration, chips ChipFocus) Input {
	return Input{State: e.State(), Variables: VariablesOf(e.Variables()), Chips: chips}
}

// Compose builds the layout tree.
func Compose(in Input) *Tree {
	t := &Tree{Ratio: 1}
	root := t.add(noParent, Node{Kind: KindRoot})

	primary := t.add(root, Node{Kind: KindPrimary})
	composeControls(t, primary, in)
	composePatterns(t, primary, in)
	t.add(primary, Node{Kind: KindTopView, TopView: in.State.TopView, Text: in.State.TopView.String()})

	if in.State.DetailsVisible {
		t.Ratio = SplitRatio
		t.add(root, Node{Kind: KindSecondary, Details: in.State.Details.Clone()})
	}
	return t
}

func composeControls(t *Tree, parent NodeID, in Input) {
	if len(in.State.Controls) == 0 {
		return
	}
	controls := t.add(parent, Node{Kind: KindControls})
	selectors := t.add(controls, Node{Kind: KindSelectorGroup})
	others := t.add(controls, Node{Kind: KindControlGroup})

	for _, c := range in.State.Controls {
		group := others
		if c.IsVariableSelector() {
			group = selectors
		}
		id := t.add(group, Node{Kind: KindControl, Control: c, Text: c.Key})
		if c.IsVariableSelector() {
			for _, v := range in.Variables {
				if v.Visibility == filter.VisibilityHidden {
					continue
				}
				label := v.Label
				if v.Visibility == filter.VisibilityHideLabel {
					label = ""
				}
				t.add(id, Node{Kind: KindVariable, Variable: v, Text: label})
			}
		}
	}
}

func composePatterns(t *Tree, parent NodeID, in Input) {
	patterns := in.State.Patterns
	if in.State.Mode != explore.ModeLogs || len(patterns) == 0 {
		return
	}
	include, exclude := query.SplitPatterns(patterns)
	section := t.add(parent, Node{Kind: KindPatterns})

	index := 0
	addGroup := func(header string, typ query.PatternType, group []query.AppliedPattern) {
		if len(group) == 0 {
			return
		}
		g := t.add(section, Node{Kind: KindPatternGroup, PatternType: typ})
		t.add(g, Node{Kind: KindHeader, Text: header})
		for _, p := range group {
			t.add(g, Node{
				Kind:        KindChip,
				Text:        in.Chips.Label(index, p.Pattern),
				Pattern:     p,
				PatternType: p.Type,
				ChipIndex:   index,
				Focused:     in.Chips.Index == index,
				Expanded:    in.Chips.Index == index && in.Chips.Expanded,
			})
			index++
		}
	}

	includeHeader := HeaderPatterns
	if len(exclude) > 0 {
		includeHeader = HeaderIncludePatterns
	}
	addGroup(includeHeader, query.Include, include)
	addGroup(HeaderExcludePatterns, query.Exclude, exclude)
}
