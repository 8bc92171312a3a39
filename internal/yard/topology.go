package yard

import (
	"fmt"
	"math"
)

// NodeType classifies a topology node.
type NodeType string

const (
	NodeEntry    NodeType = "entry"
	NodeExit     NodeType = "exit"
	NodeBay      NodeType = "bay"
	NodeWorkshop NodeType = "workshop"
	NodeSiding   NodeType = "siding"
	NodeTrack    NodeType = "track"
)

// Node is one point in the static yard graph.
type Node struct {
	ID          string   `json:"id"`
	Type        NodeType `json:"type"`
	Label       string   `json:"label,omitempty"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Connections []string `json:"connections,omitempty"`
}

// WorkshopDef declares one workshop line in the topology.
type WorkshopDef struct {
	NodeID         string `json:"node_id"`
	Specialization string `json:"specialization,omitempty"`
	Primary        bool   `json:"primary,omitempty"`
}

// SidingDef declares one a/b siding pair in the topology.
type SidingDef struct {
	Number       int     `json:"number"`
	SlotA        string  `json:"slot_a"` // node id
	SlotB        string  `json:"slot_b"` // node id
	ReverseCostA float64 `json:"reverse_cost_a"`
	ReverseCostB float64 `json:"reverse_cost_b"`
}

// Topology is the immutable yard graph plus the classified id lists the
// engine builds its registries from. Supplied once at construction and
// never mutated by the engine.
//
// Declaration order of InspectionBays is significant: it is the fixed
// preference order used when claiming a bay.
type Topology struct {
	Name           string          `json:"name,omitempty"`
	Nodes          map[string]Node `json:"nodes"`
	Entry          string          `json:"entry"`
	Exit           string          `json:"exit"`
	InspectionBays []string        `json:"inspection_bays"`
	Workshops      []WorkshopDef   `json:"workshops"`
	Sidings        []SidingDef     `json:"sidings"`
}

// Distance returns the straight-line distance between two nodes in the
// topology's coordinate space. Point-to-point track routing is a
// non-goal; this proxy feeds distance estimates and ETAs only.
func (tp *Topology) Distance(a, b string) float64 {
	na, ok := tp.Nodes[a]
	if !ok {
		return 0
	}
	nb, ok := tp.Nodes[b]
	if !ok {
		return 0
	}
	return math.Hypot(nb.X-na.X, nb.Y-na.Y)
}

// Check verifies the structural invariants the engine relies on.
// The layout compiler runs richer validation with source positions;
// this is the last line of defense for hand-built topologies.
func (tp *Topology) Check() error {
	if tp.Entry == "" {
		return fmt.Errorf("topology: entry node is required")
	}
	if _, ok := tp.Nodes[tp.Entry]; !ok {
		return fmt.Errorf("topology: entry node %q not defined", tp.Entry)
	}
	if tp.Exit != "" {
		if _, ok := tp.Nodes[tp.Exit]; !ok {
			return fmt.Errorf("topology: exit node %q not defined", tp.Exit)
		}
	}
	for _, id := range tp.InspectionBays {
		if _, ok := tp.Nodes[id]; !ok {
			return fmt.Errorf("topology: inspection bay %q not defined", id)
		}
	}
	for _, w := range tp.Workshops {
		if _, ok := tp.Nodes[w.NodeID]; !ok {
			return fmt.Errorf("topology: workshop node %q not defined", w.NodeID)
		}
	}
	for _, s := range tp.Sidings {
		if s.Number < 1 || s.Number > TopSidingNumber {
			return fmt.Errorf("topology: siding number %d out of range 1..%d", s.Number, TopSidingNumber)
		}
		if _, ok := tp.Nodes[s.SlotA]; !ok {
			return fmt.Errorf("topology: siding %d slot a node %q not defined", s.Number, s.SlotA)
		}
		if _, ok := tp.Nodes[s.SlotB]; !ok {
			return fmt.Errorf("topology: siding %d slot b node %q not defined", s.Number, s.SlotB)
		}
	}
	return nil
}
