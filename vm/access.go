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
resolveAccess turns one RETURN item's AccessDescriptor into its runtime
value: a *model.Node, a *model.Edge, or a model.Property.
*/
func resolveAccess(ad planner.AccessDescriptor, m *VirtualMachine) (interface{}, error) {
	switch a := ad.(type) {

	case planner.AccessNode:
		n := m.nodes[a.Slot]
		if n == nil {
			return nil, util.NewInternalError("RETURN of an unbound node slot")
		}
		return n, nil

	case planner.AccessEdge:
		e := m.edges[a.Slot]
		if e == nil {
			return nil, util.NewInternalError("RETURN of an unbound edge slot")
		}
		return e, nil

	case planner.AccessNodeProperty:
		n := m.nodes[a.Slot]
		if n == nil {
			return model.Null, nil
		}
		return n.Property(a.Key), nil

	case planner.AccessEdgeProperty:
		e := m.edges[a.Slot]
		if e == nil {
			return model.Null, nil
		}
		return e.Property(a.Key), nil

	case planner.AccessConstant:
		return a.Value, nil

	case planner.AccessParameter:
		p, ok := m.params[a.Name]
		if !ok {
			return nil, util.NewRuntimeError("unknown parameter '" + a.Name + "'")
		}
		return p, nil

	case planner.AccessID:
		if a.IsEdge {
			e := m.edges[a.Slot]
			if e == nil {
				return nil, util.NewInternalError("RETURN of ID() for an unbound edge slot")
			}
			return model.Int(int64(e.ID)), nil
		}
		n := m.nodes[a.Slot]
		if n == nil {
			return nil, util.NewInternalError("RETURN of ID() for an unbound node slot")
		}
		return model.Int(int64(n.ID)), nil
	}

	return nil, util.NewInternalError("unknown access descriptor kind in compiled program")
}
