/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vm

import (
	"github.com/krotik/cqlite/planner"
	"github.com/krotik/cqlite/store"
	"github.com/krotik/cqlite/util"
)

/*
iterState is the runtime counterpart of a planner.MatchStep that opens
an iterator: advancing it either binds the next candidate and reports
true, or reports false once exhausted.
*/
type iterState interface {
	Advance(m *VirtualMachine) (bool, error)
	Close() error
}

/*
openIterator builds the iterState for a single OpOpen instruction's
Step. FilterStep never reaches here - compiler never emits OpOpen for
it.
*/
func openIterator(step planner.MatchStep, m *VirtualMachine) (iterState, error) {
	switch s := step.(type) {

	case planner.LoadAnyNode:
		return &nodeEnumIter{slot: s.Slot, src: m.txn.Nodes()}, nil

	case planner.LoadOriginEdge:
		return newEdgeEnumIter(s.Slot, s.NodeSlot, store.Outgoing, m)

	case planner.LoadTargetEdge:
		return newEdgeEnumIter(s.Slot, s.NodeSlot, store.Incoming, m)

	case planner.LoadEitherEdge:
		return newEdgeEnumIter(s.Slot, s.NodeSlot, store.Either, m)

	case planner.LoadOriginNode:
		return &singleNodeIter{slot: s.Slot, lookup: func() (uint64, bool) {
			e := m.edges[s.EdgeSlot]
			if e == nil {
				return 0, false
			}
			return e.Origin, true
		}}, nil

	case planner.LoadTargetNode:
		return &singleNodeIter{slot: s.Slot, lookup: func() (uint64, bool) {
			e := m.edges[s.EdgeSlot]
			if e == nil {
				return 0, false
			}
			return e.Target, true
		}}, nil

	case planner.LoadOtherNode:
		return &singleNodeIter{slot: s.Slot, lookup: func() (uint64, bool) {
			e := m.edges[s.EdgeSlot]
			from := m.nodes[s.FromSlot]
			if e == nil || from == nil {
				return 0, false
			}
			if e.Origin == from.ID {
				return e.Target, true
			}
			return e.Origin, true
		}}, nil
	}

	return nil, util.NewInternalError("unknown match step kind in compiled program")
}

/*
nodeEnumIter wraps store.NodeIter, binding each node it yields into
m.nodes[slot].
*/
type nodeEnumIter struct {
	slot int
	src  *store.NodeIter
}

func (it *nodeEnumIter) Advance(m *VirtualMachine) (bool, error) {
	if !it.src.Next() {
		m.nodes[it.slot] = nil
		return false, it.src.Err()
	}
	m.nodes[it.slot] = it.src.Node()
	return true, nil
}

func (it *nodeEnumIter) Close() error { return it.src.Close() }

/*
edgeEnumIter wraps store.IncidentIter, binding each edge it yields into
m.edges[slot]. The source node is re-resolved at open time since
NodeSlot is guaranteed bound before the edge step runs.
*/
type edgeEnumIter struct {
	slot int
	src  *store.IncidentIter
}

func newEdgeEnumIter(slot, nodeSlot int, dir store.AdjDirection, m *VirtualMachine) (*edgeEnumIter, error) {
	n := m.nodes[nodeSlot]
	if n == nil {
		return nil, util.NewInternalError("edge enumeration step ran before its anchoring node was bound")
	}
	src, err := m.txn.IncidentEdges(n.ID, dir)
	if err != nil {
		return nil, err
	}
	return &edgeEnumIter{slot: slot, src: src}, nil
}

func (it *edgeEnumIter) Advance(m *VirtualMachine) (bool, error) {
	if !it.src.Next() {
		m.edges[it.slot] = nil
		return false, it.src.Err()
	}
	m.edges[it.slot] = it.src.Edge()
	return true, nil
}

func (it *edgeEnumIter) Close() error { return it.src.Close() }

/*
singleNodeIter yields exactly one node, resolved by a deterministic
lookup (origin, target, or the far endpoint of an edge) off already
bound slots. It never needs to consult the store iterator API because
the id it wants is already known once the anchoring edge is bound.
*/
type singleNodeIter struct {
	slot   int
	lookup func() (uint64, bool)
	done   bool
}

func (it *singleNodeIter) Advance(m *VirtualMachine) (bool, error) {
	if it.done {
		m.nodes[it.slot] = nil
		return false, nil
	}
	it.done = true

	id, ok := it.lookup()
	if !ok {
		return false, util.NewInternalError("single node step ran before its anchoring edge was bound")
	}
	n, err := m.txn.LoadNode(id)
	if err != nil {
		return false, err
	}
	if n == nil {
		return false, nil
	}
	m.nodes[it.slot] = n
	return true, nil
}

func (it *singleNodeIter) Close() error { return nil }
