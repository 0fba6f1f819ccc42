/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package planner

import (
	"github.com/krotik/cqlite/parser"
)

/*
Plan lowers a parsed Query into a QueryPlan: slots are assigned in
appearance order across all MATCH/CREATE clauses (node and edge slot
spaces are disjoint), match steps are emitted clause by clause, the
WHERE condition becomes a single trailing filter, SET/DELETE become
update steps, and RETURN becomes the access vector.

Fails with a PlanError on an unknown identifier, a name rebound with an
incompatible label, or a reference to a name never bound by any
pattern.
*/
func Plan(q *parser.Query) (*QueryPlan, error) {
	sym := newSymtab()
	var steps []MatchStep
	var updates []UpdateStep

	for _, clause := range q.Clauses {
		if clause.IsCreate() {
			if err := planCreatePattern(sym, clause.Pattern, &updates); err != nil {
				return nil, err
			}
		} else {
			if err := planMatchPattern(sym, clause.Pattern, &steps); err != nil {
				return nil, err
			}
		}
	}

	if q.Where != nil {
		f, err := buildCondition(sym, q.Where)
		if err != nil {
			return nil, err
		}
		steps = append(steps, FilterStep{Filter: f})
	}

	for _, set := range q.Sets {
		slot, isEdge, err := sym.lookupAny(set.Name)
		if err != nil {
			return nil, err
		}
		value, err := convertExpr(sym, set.Value)
		if err != nil {
			return nil, err
		}
		if isEdge {
			updates = append(updates, SetEdgeProperty{EdgeSlot: slot, Key: set.Key, Value: value})
		} else {
			updates = append(updates, SetNodeProperty{NodeSlot: slot, Key: set.Key, Value: value})
		}
	}

	if q.Delete != nil {
		for _, name := range q.Delete.Names {
			slot, isEdge, err := sym.lookupAny(name)
			if err != nil {
				return nil, err
			}
			if isEdge {
				updates = append(updates, DeleteEdge{EdgeSlot: slot})
			} else {
				updates = append(updates, DeleteNode{NodeSlot: slot})
			}
		}
	}

	var returns []AccessDescriptor
	if q.Return != nil {
		for _, item := range q.Return.Items {
			ad, err := convertReturnExpr(sym, item.Value)
			if err != nil {
				return nil, err
			}
			returns = append(returns, ad)
		}
	}

	return &QueryPlan{
		Steps:     steps,
		Updates:   updates,
		Returns:   returns,
		NodeSlots: sym.nodeNext,
		EdgeSlots: sym.edgeNext,
	}, nil
}
