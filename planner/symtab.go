/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package planner

import "github.com/krotik/cqlite/util"

/*
binding records how a name was first introduced: the slot it was
assigned, whether it names a node or an edge, and the label it was
bound with (empty if the pattern gave none).
*/
type binding struct {
	slot   int
	isEdge bool
	label  string
}

/*
symtab assigns dense, appearance-ordered slots to names, keeping node
and edge slots in disjoint spaces.
*/
type symtab struct {
	names    map[string]binding
	nodeNext int
	edgeNext int
}

func newSymtab() *symtab {
	return &symtab{names: make(map[string]binding)}
}

/*
nodeSlot returns the slot for name, allocating a fresh one and
reporting isNew=true if name has not been seen before. A non-empty
label is recorded on first sight and checked for conflicts on later
sightings.
*/
func (s *symtab) nodeSlot(name, label string) (slot int, isNew bool, err error) {
	if name == "" {
		slot = s.nodeNext
		s.nodeNext++
		return slot, true, nil
	}

	b, ok := s.names[name]
	if !ok {
		b = binding{slot: s.nodeNext, isEdge: false, label: label}
		s.nodeNext++
		s.names[name] = b
		return b.slot, true, nil
	}

	if b.isEdge {
		return 0, false, util.NewPlanError("name '" + name + "' is bound to an edge but used as a node")
	}
	if err := checkLabelConflict(name, s.names, b, label); err != nil {
		return 0, false, err
	}
	return b.slot, false, nil
}

/*
edgeSlot returns the slot for name, allocating a fresh one and
reporting isNew=true if name has not been seen before.
*/
func (s *symtab) edgeSlot(name, label string) (slot int, isNew bool, err error) {
	if name == "" {
		slot = s.edgeNext
		s.edgeNext++
		return slot, true, nil
	}

	b, ok := s.names[name]
	if !ok {
		b = binding{slot: s.edgeNext, isEdge: true, label: label}
		s.edgeNext++
		s.names[name] = b
		return b.slot, true, nil
	}

	if !b.isEdge {
		return 0, false, util.NewPlanError("name '" + name + "' is bound to a node but used as an edge")
	}
	if err := checkLabelConflict(name, s.names, b, label); err != nil {
		return 0, false, err
	}
	return b.slot, false, nil
}

func checkLabelConflict(name string, names map[string]binding, b binding, label string) error {
	if label == "" {
		return nil
	}
	if b.label == "" {
		b.label = label
		names[name] = b
		return nil
	}
	if b.label != label {
		return util.NewPlanError("name '" + name + "' rebound with conflicting label '" + label + "' (was '" + b.label + "')")
	}
	return nil
}

/*
lookupNode resolves an already-bound node name, failing if it is
unbound or bound to an edge.
*/
func (s *symtab) lookupNode(name string) (int, error) {
	b, ok := s.names[name]
	if !ok {
		return 0, util.NewPlanError("unbound name '" + name + "'")
	}
	if b.isEdge {
		return 0, util.NewPlanError("name '" + name + "' is bound to an edge but used as a node")
	}
	return b.slot, nil
}

/*
lookupEdge resolves an already-bound edge name, failing if it is
unbound or bound to a node.
*/
func (s *symtab) lookupEdge(name string) (int, error) {
	b, ok := s.names[name]
	if !ok {
		return 0, util.NewPlanError("unbound name '" + name + "'")
	}
	if !b.isEdge {
		return 0, util.NewPlanError("name '" + name + "' is bound to a node but used as an edge")
	}
	return b.slot, nil
}

/*
lookupAny resolves a name to its slot regardless of kind, reporting
whether it is an edge; used by PropRef/SET/DELETE which refer to a
name introduced anywhere.
*/
func (s *symtab) lookupAny(name string) (slot int, isEdge bool, err error) {
	b, ok := s.names[name]
	if !ok {
		return 0, false, util.NewPlanError("unbound name '" + name + "'")
	}
	return b.slot, b.isEdge, nil
}
