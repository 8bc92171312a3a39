// Package layout compiles declarative CUE yard layouts into the
// immutable topology the engine consumes.
//
// A layout file defines a single `yard` struct: the node graph with
// coordinates, plus the classified id lists (entry/exit, inspection
// bays, workshop lines, siding pairs). Compilation validates every
// cross-reference so the engine can trust the topology blindly.
package layout

import (
	"fmt"

	"cuelang.org/go/cue"
	"github.com/rwaldren/shuntyard/internal/yard"
)

// Compile parses a CUE value holding a `yard` struct into a Topology.
//
// The value should be the yard struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(src)
//	topo, err := layout.Compile(v.LookupPath(cue.ParsePath("yard")))
func Compile(v cue.Value) (*yard.Topology, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if !v.Exists() {
		return nil, &CompileError{Field: "yard", Message: "yard struct is required"}
	}

	topo := &yard.Topology{Nodes: make(map[string]yard.Node)}
	topo.Name, _ = optionalString(v, "name")

	if err := parseNodes(v, topo); err != nil {
		return nil, err
	}

	entry, err := requiredString(v, "entry")
	if err != nil {
		return nil, err
	}
	topo.Entry = entry
	topo.Exit, _ = optionalString(v, "exit")

	if err := parseBays(v, topo); err != nil {
		return nil, err
	}
	if err := parseWorkshops(v, topo); err != nil {
		return nil, err
	}
	if err := parseSidings(v, topo); err != nil {
		return nil, err
	}

	// Compile-time structural validation mirrors Topology.Check but
	// adds source positions.
	if err := validateRefs(v, topo); err != nil {
		return nil, err
	}

	return topo, nil
}

func parseNodes(v cue.Value, topo *yard.Topology) error {
	nodesVal := v.LookupPath(cue.ParsePath("nodes"))
	if !nodesVal.Exists() {
		return &CompileError{Field: "nodes", Message: "at least one node is required", Pos: v.Pos()}
	}

	iter, err := nodesVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		id := iter.Selector().Unquoted()
		nv := iter.Value()

		typ, err := requiredString(nv, "type")
		if err != nil {
			return err
		}
		x, err := requiredFloat(nv, "x")
		if err != nil {
			return err
		}
		y, err := requiredFloat(nv, "y")
		if err != nil {
			return err
		}

		node := yard.Node{
			ID:   id,
			Type: yard.NodeType(typ),
			X:    x,
			Y:    y,
		}
		node.Label, _ = optionalString(nv, "label")

		connsVal := nv.LookupPath(cue.ParsePath("connections"))
		if connsVal.Exists() {
			conns, err := stringList(connsVal)
			if err != nil {
				return err
			}
			node.Connections = conns
		}

		if _, dup := topo.Nodes[id]; dup {
			return &CompileError{Field: "nodes", Message: fmt.Sprintf("duplicate node id %q", id), Pos: nv.Pos()}
		}
		topo.Nodes[id] = node
	}
	if len(topo.Nodes) == 0 {
		return &CompileError{Field: "nodes", Message: "at least one node is required", Pos: v.Pos()}
	}
	return nil
}

func parseBays(v cue.Value, topo *yard.Topology) error {
	baysVal := v.LookupPath(cue.ParsePath("inspection_bays"))
	if !baysVal.Exists() {
		return &CompileError{Field: "inspection_bays", Message: "at least one inspection bay is required", Pos: v.Pos()}
	}
	bays, err := stringList(baysVal)
	if err != nil {
		return err
	}
	if len(bays) == 0 {
		return &CompileError{Field: "inspection_bays", Message: "at least one inspection bay is required", Pos: baysVal.Pos()}
	}
	// Declaration order is preserved: it is the claim preference order.
	topo.InspectionBays = bays
	return nil
}

func parseWorkshops(v cue.Value, topo *yard.Topology) error {
	wsVal := v.LookupPath(cue.ParsePath("workshops"))
	if !wsVal.Exists() {
		return nil
	}
	iter, err := wsVal.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		wv := iter.Value()
		node, err := requiredString(wv, "node")
		if err != nil {
			return err
		}
		def := yard.WorkshopDef{NodeID: node}
		def.Specialization, _ = optionalString(wv, "specialization")
		if pv := wv.LookupPath(cue.ParsePath("primary")); pv.Exists() {
			primary, err := pv.Bool()
			if err != nil {
				return formatCUEError(err)
			}
			def.Primary = primary
		}
		topo.Workshops = append(topo.Workshops, def)
	}
	return nil
}

func parseSidings(v cue.Value, topo *yard.Topology) error {
	sVal := v.LookupPath(cue.ParsePath("sidings"))
	if !sVal.Exists() {
		return nil
	}
	iter, err := sVal.List()
	if err != nil {
		return formatCUEError(err)
	}
	seen := make(map[int]bool)
	for iter.Next() {
		sv := iter.Value()

		numVal := sv.LookupPath(cue.ParsePath("number"))
		if !numVal.Exists() {
			return &CompileError{Field: "sidings.number", Message: "siding number is required", Pos: sv.Pos()}
		}
		num, err := numVal.Int64()
		if err != nil {
			return formatCUEError(err)
		}
		if seen[int(num)] {
			return &CompileError{Field: "sidings", Message: fmt.Sprintf("duplicate siding number %d", num), Pos: sv.Pos()}
		}
		seen[int(num)] = true

		slotA, err := requiredString(sv, "slot_a")
		if err != nil {
			return err
		}
		slotB, err := requiredString(sv, "slot_b")
		if err != nil {
			return err
		}
		rcA, err := requiredFloat(sv, "reverse_cost_a")
		if err != nil {
			return err
		}
		rcB, err := requiredFloat(sv, "reverse_cost_b")
		if err != nil {
			return err
		}

		topo.Sidings = append(topo.Sidings, yard.SidingDef{
			Number:       int(num),
			SlotA:        slotA,
			SlotB:        slotB,
			ReverseCostA: rcA,
			ReverseCostB: rcB,
		})
	}
	return nil
}

// validateRefs checks that every classified id refers to a defined node.
func validateRefs(v cue.Value, topo *yard.Topology) error {
	if _, ok := topo.Nodes[topo.Entry]; !ok {
		return &CompileError{Field: "entry", Message: fmt.Sprintf("entry node %q not defined", topo.Entry), Pos: v.Pos()}
	}
	if topo.Exit != "" {
		if _, ok := topo.Nodes[topo.Exit]; !ok {
			return &CompileError{Field: "exit", Message: fmt.Sprintf("exit node %q not defined", topo.Exit), Pos: v.Pos()}
		}
	}
	for _, id := range topo.InspectionBays {
		if _, ok := topo.Nodes[id]; !ok {
			return &CompileError{Field: "inspection_bays", Message: fmt.Sprintf("bay node %q not defined", id), Pos: v.Pos()}
		}
	}
	for _, w := range topo.Workshops {
		if _, ok := topo.Nodes[w.NodeID]; !ok {
			return &CompileError{Field: "workshops", Message: fmt.Sprintf("workshop node %q not defined", w.NodeID), Pos: v.Pos()}
		}
	}
	for _, s := range topo.Sidings {
		if s.Number < 1 || s.Number > yard.TopSidingNumber {
			return &CompileError{Field: "sidings", Message: fmt.Sprintf("siding number %d out of range 1..%d", s.Number, yard.TopSidingNumber), Pos: v.Pos()}
		}
		if _, ok := topo.Nodes[s.SlotA]; !ok {
			return &CompileError{Field: "sidings", Message: fmt.Sprintf("slot a node %q not defined", s.SlotA), Pos: v.Pos()}
		}
		if _, ok := topo.Nodes[s.SlotB]; !ok {
			return &CompileError{Field: "sidings", Message: fmt.Sprintf("slot b node %q not defined", s.SlotB), Pos: v.Pos()}
		}
	}
	return nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, bool) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", false
	}
	s, err := fv.String()
	if err != nil {
		return "", false
	}
	return s, true
}

func requiredFloat(v cue.Value, field string) (float64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &CompileError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	f, err := fv.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return f, nil
}

func stringList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}
