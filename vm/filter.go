/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vm

import (
	"github.com/krotik/cqlite/model"
	"github.com/krotik/cqlite/planner"
	"github.com/krotik/cqlite/util"
)

/*
evalFilter evaluates a planner.Filter against the VM's current bound
state. Every leaf predicate here already collapses a null operand to
false per evalLoadProperty's callers (IsTruthy, Eq, Lt, Gt), so And/Or/Not
can stay ordinary two-valued boolean logic instead of a three-valued
"unknown" propagation - there is no leaf that can actually produce
"unknown" for a combinator to propagate. A consequence is that Not
turns a false produced by a null operand into true: NOT x.k = 1, and
x.k <> 1 (planned as Not over Eq), hold for a node without key k.
*/
func evalFilter(f planner.Filter, m *VirtualMachine) (bool, error) {
	switch fl := f.(type) {

	case planner.And:
		l, err := evalFilter(fl.Left, m)
		if err != nil || !l {
			return false, err
		}
		return evalFilter(fl.Right, m)

	case planner.Or:
		l, err := evalFilter(fl.Left, m)
		if err != nil {
			return false, err
		}
		if l {
			return true, nil
		}
		return evalFilter(fl.Right, m)

	case planner.Not:
		v, err := evalFilter(fl.Inner, m)
		if err != nil {
			return false, err
		}
		return !v, nil

	case planner.IsOrigin:
		e := m.edges[fl.EdgeSlot]
		n := m.nodes[fl.NodeSlot]
		if e == nil || n == nil {
			return false, nil
		}
		return e.Origin == n.ID, nil

	case planner.IsTarget:
		e := m.edges[fl.EdgeSlot]
		n := m.nodes[fl.NodeSlot]
		if e == nil || n == nil {
			return false, nil
		}
		return e.Target == n.ID, nil

	case planner.NodeHasLabel:
		n := m.nodes[fl.NodeSlot]
		return n != nil && n.Label == fl.Label, nil

	case planner.EdgeHasLabel:
		e := m.edges[fl.EdgeSlot]
		return e != nil && e.Label == fl.Label, nil

	case planner.NodeHasId:
		n := m.nodes[fl.NodeSlot]
		if n == nil {
			return false, nil
		}
		id, err := evalLoadProperty(fl.ID, m)
		if err != nil {
			return false, err
		}
		return id.Kind() == model.KindInt && id.AsInt() == int64(n.ID), nil

	case planner.EdgeHasId:
		e := m.edges[fl.EdgeSlot]
		if e == nil {
			return false, nil
		}
		id, err := evalLoadProperty(fl.ID, m)
		if err != nil {
			return false, err
		}
		return id.Kind() == model.KindInt && id.AsInt() == int64(e.ID), nil

	case planner.IsTruthy:
		v, err := evalLoadProperty(fl.Value, m)
		if err != nil {
			return false, err
		}
		return v.Truthy(), nil

	case planner.Eq:
		l, r, err := evalPair(fl.Left, fl.Right, m)
		if err != nil {
			return false, err
		}
		if l.IsNull() || r.IsNull() {
			return false, nil
		}
		return l.Equal(r) || model.Compare(l, r) == model.Equal, nil

	case planner.Lt:
		l, r, err := evalPair(fl.Left, fl.Right, m)
		if err != nil {
			return false, err
		}
		return model.Compare(l, r) == model.Less, nil

	case planner.Gt:
		l, r, err := evalPair(fl.Left, fl.Right, m)
		if err != nil {
			return false, err
		}
		return model.Compare(l, r) == model.Greater, nil
	}

	return false, util.NewInternalError("unknown filter kind in compiled program")
}

func evalPair(left, right planner.LoadProperty, m *VirtualMachine) (model.Property, model.Property, error) {
	l, err := evalLoadProperty(left, m)
	if err != nil {
		return model.Null, model.Null, err
	}
	r, err := evalLoadProperty(right, m)
	if err != nil {
		return model.Null, model.Null, err
	}
	return l, r, nil
}

/*
evalLoadProperty resolves one operand to a concrete value. A reference
to a node/edge slot that is not yet bound (should never happen given
the planner's ordering guarantees, but defensive here) or a property
key absent on a bound record both resolve to Null, matching the
teacher's "missing means null" convention for optional attributes.
*/
func evalLoadProperty(lp planner.LoadProperty, m *VirtualMachine) (model.Property, error) {
	switch v := lp.(type) {

	case planner.Constant:
		return v.Value, nil

	case planner.PropertyOfNode:
		n := m.nodes[v.NodeSlot]
		if n == nil {
			return model.Null, nil
		}
		return n.Property(v.Key), nil

	case planner.PropertyOfEdge:
		e := m.edges[v.EdgeSlot]
		if e == nil {
			return model.Null, nil
		}
		return e.Property(v.Key), nil

	case planner.Parameter:
		p, ok := m.params[v.Name]
		if !ok {
			return model.Null, util.NewRuntimeError("unknown parameter '" + v.Name + "'")
		}
		return p, nil

	case planner.IDOf:
		if v.IsEdge {
			e := m.edges[v.Slot]
			if e == nil {
				return model.Null, nil
			}
			return model.Int(int64(e.ID)), nil
		}
		n := m.nodes[v.Slot]
		if n == nil {
			return model.Null, nil
		}
		return model.Int(int64(n.ID)), nil
	}

	return model.Null, util.NewInternalError("unknown load-property kind in compiled program")
}
