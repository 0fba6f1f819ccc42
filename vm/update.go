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
applyUpdate runs one OpStage instruction's UpdateStep directly against
the transaction. There is no separate pending-write buffer: Txn already
holds every mutation in its own staged overlay until Commit, so staging
here and flushing at Commit are the same act the store already performs.
*/
func applyUpdate(u planner.UpdateStep, m *VirtualMachine) error {
	switch up := u.(type) {

	case planner.SetNodeProperty:
		n := m.nodes[up.NodeSlot]
		if n == nil {
			return util.NewInternalError("SET ran against an unbound node slot")
		}
		v, err := evalLoadProperty(up.Value, m)
		if err != nil {
			return err
		}
		if err := m.txn.UpdateNode(n.ID, up.Key, v); err != nil {
			return err
		}
		n.SetProperty(up.Key, v)
		return nil

	case planner.SetEdgeProperty:
		e := m.edges[up.EdgeSlot]
		if e == nil {
			return util.NewInternalError("SET ran against an unbound edge slot")
		}
		v, err := evalLoadProperty(up.Value, m)
		if err != nil {
			return err
		}
		if err := m.txn.UpdateEdge(e.ID, up.Key, v); err != nil {
			return err
		}
		e.SetProperty(up.Key, v)
		return nil

	case planner.CreateNode:
		props := make(map[string]model.Property, len(up.Props))
		for k, lp := range up.Props {
			v, err := evalLoadProperty(lp, m)
			if err != nil {
				return err
			}
			props[k] = v
		}
		n, err := m.txn.CreateNode(up.Label, props)
		if err != nil {
			return err
		}
		m.nodes[up.Slot] = n
		return nil

	case planner.CreateEdge:
		origin := m.nodes[up.OriginSlot]
		target := m.nodes[up.TargetSlot]
		if origin == nil || target == nil {
			return util.NewInternalError("CREATE edge ran before its endpoints were bound")
		}
		e, err := m.txn.CreateEdge(up.Label, origin.ID, target.ID, nil)
		if err != nil {
			return err
		}
		m.edges[up.Slot] = e
		return nil

	case planner.DeleteNode:
		n := m.nodes[up.NodeSlot]
		if n == nil {
			return util.NewInternalError("DELETE ran against an unbound node slot")
		}
		return m.txn.DeleteNode(n.ID)

	case planner.DeleteEdge:
		e := m.edges[up.EdgeSlot]
		if e == nil {
			return util.NewInternalError("DELETE ran against an unbound edge slot")
		}
		return m.txn.DeleteEdge(e.ID)
	}

	return util.NewInternalError("unknown update step kind in compiled program")
}
