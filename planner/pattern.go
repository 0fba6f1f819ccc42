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
	"github.com/krotik/cqlite/util"
)

/*
planMatchPattern lowers one MATCH clause's pattern into load/filter
steps, threading the running slot of the most-recently-bound node
through each (edge, node) step.
*/
func planMatchPattern(sym *symtab, p *parser.Pattern, steps *[]MatchStep) error {
	prevSlot, err := planMatchNode(sym, p.Start, steps)
	if err != nil {
		return err
	}

	for _, step := range p.Steps {
		dir := step.Edge.Direction()

		edgeSlot, edgeIsNew, err := sym.edgeSlot(step.Edge.Name, step.Edge.Label)
		if err != nil {
			return err
		}

		if edgeIsNew {
			switch dir {
			case "right":
				*steps = append(*steps, LoadOriginEdge{Slot: edgeSlot, NodeSlot: prevSlot})
			case "left":
				*steps = append(*steps, LoadTargetEdge{Slot: edgeSlot, NodeSlot: prevSlot})
			case "either":
				// prevSlot is itself an enumerated (or backtracked-over)
				// candidate, so a genuinely either-direction load here
				// would see every edge twice: once from each endpoint.
				// Canonicalizing to the origin side, the same as "right",
				// keeps every edge bound exactly once.
				*steps = append(*steps, LoadOriginEdge{Slot: edgeSlot, NodeSlot: prevSlot})
			}
		} else {
			switch dir {
			case "right":
				*steps = append(*steps, FilterStep{IsOrigin{NodeSlot: prevSlot, EdgeSlot: edgeSlot}})
			case "left":
				*steps = append(*steps, FilterStep{IsTarget{NodeSlot: prevSlot, EdgeSlot: edgeSlot}})
			case "either":
				*steps = append(*steps, FilterStep{Or{
					Left:  IsOrigin{NodeSlot: prevSlot, EdgeSlot: edgeSlot},
					Right: IsTarget{NodeSlot: prevSlot, EdgeSlot: edgeSlot},
				}})
			}
		}
		if step.Edge.Label != "" {
			*steps = append(*steps, FilterStep{EdgeHasLabel{EdgeSlot: edgeSlot, Label: step.Edge.Label}})
		}

		nextSlot, nextIsNew, err := sym.nodeSlot(step.Node.Name, step.Node.Label)
		if err != nil {
			return err
		}

		if nextIsNew {
			switch dir {
			case "right":
				*steps = append(*steps, LoadTargetNode{Slot: nextSlot, EdgeSlot: edgeSlot})
			case "left":
				*steps = append(*steps, LoadOriginNode{Slot: nextSlot, EdgeSlot: edgeSlot})
			case "either":
				if edgeIsNew {
					// The edge step above already canonicalized prevSlot
					// to the edge's origin, so the other endpoint is
					// deterministically the target - same as "right".
					*steps = append(*steps, LoadTargetNode{Slot: nextSlot, EdgeSlot: edgeSlot})
				} else {
					*steps = append(*steps, LoadOtherNode{Slot: nextSlot, FromSlot: prevSlot, EdgeSlot: edgeSlot})
				}
			}
		} else {
			switch dir {
			case "right":
				*steps = append(*steps, FilterStep{IsTarget{NodeSlot: nextSlot, EdgeSlot: edgeSlot}})
			case "left":
				*steps = append(*steps, FilterStep{IsOrigin{NodeSlot: nextSlot, EdgeSlot: edgeSlot}})
			case "either":
				if edgeIsNew {
					*steps = append(*steps, FilterStep{IsTarget{NodeSlot: nextSlot, EdgeSlot: edgeSlot}})
				} else {
					*steps = append(*steps, FilterStep{Or{
						Left:  And{IsOrigin{prevSlot, edgeSlot}, IsTarget{nextSlot, edgeSlot}},
						Right: And{IsOrigin{nextSlot, edgeSlot}, IsTarget{prevSlot, edgeSlot}},
					}})
				}
			}
		}
		if step.Node.Label != "" {
			*steps = append(*steps, FilterStep{NodeHasLabel{NodeSlot: nextSlot, Label: step.Node.Label}})
		}
		if err := planPropFilters(sym, nextSlot, false, step.Node.Props, steps); err != nil {
			return err
		}

		prevSlot = nextSlot
	}

	return nil
}

/*
planMatchNode emits the load (and label/property filters) for a
pattern's starting node.
*/
func planMatchNode(sym *symtab, np *parser.NodePattern, steps *[]MatchStep) (int, error) {
	slot, isNew, err := sym.nodeSlot(np.Name, np.Label)
	if err != nil {
		return 0, err
	}

	if isNew {
		*steps = append(*steps, LoadAnyNode{Slot: slot})
		if np.Label != "" {
			*steps = append(*steps, FilterStep{NodeHasLabel{NodeSlot: slot, Label: np.Label}})
		}
	} else if np.Label != "" {
		*steps = append(*steps, FilterStep{NodeHasLabel{NodeSlot: slot, Label: np.Label}})
	}

	if err := planPropFilters(sym, slot, false, np.Props, steps); err != nil {
		return 0, err
	}

	return slot, nil
}

/*
planPropFilters lowers a pattern's inline property initializers into
equality filters checked as soon as the entity they constrain is bound.
*/
func planPropFilters(sym *symtab, slot int, isEdge bool, props []*parser.PropInit, steps *[]MatchStep) error {
	for _, p := range props {
		value := Constant{Value: literalToProperty(p.Value)}
		var left LoadProperty
		if isEdge {
			left = PropertyOfEdge{EdgeSlot: slot, Key: p.Key}
		} else {
			left = PropertyOfNode{NodeSlot: slot, Key: p.Key}
		}
		*steps = append(*steps, FilterStep{Eq{Left: left, Right: value}})
	}
	return nil
}

/*
planCreatePattern lowers one CREATE clause's pattern into creation
update steps. A name already bound by an earlier clause is reused as
the endpoint of a new edge rather than re-created; an edge name is
always freshly introduced, since CREATE has no notion of matching an
existing edge.
*/
func planCreatePattern(sym *symtab, p *parser.Pattern, updates *[]UpdateStep) error {
	prevSlot, err := planCreateNode(sym, p.Start, updates)
	if err != nil {
		return err
	}

	for _, step := range p.Steps {
		dir := step.Edge.Direction()
		if dir == "either" {
			return util.NewPlanError("CREATE edge pattern must have a direction, not '-[...]-'")
		}

		edgeSlot, edgeIsNew, err := sym.edgeSlot(step.Edge.Name, step.Edge.Label)
		if err != nil {
			return err
		}
		if !edgeIsNew {
			return util.NewPlanError("CREATE always introduces a new edge; '" + step.Edge.Name + "' is already bound")
		}

		nextSlot, err := planCreateNode(sym, step.Node, updates)
		if err != nil {
			return err
		}

		origin, target := prevSlot, nextSlot
		if dir == "left" {
			origin, target = nextSlot, prevSlot
		}
		*updates = append(*updates, CreateEdge{
			Slot:       edgeSlot,
			Label:      step.Edge.Label,
			OriginSlot: origin,
			TargetSlot: target,
		})

		prevSlot = nextSlot
	}

	return nil
}

/*
planCreateNode emits a CreateNode update step for a fresh name, or
resolves an already-bound name to its existing slot. Inline properties
on an already-bound name are rejected: they would silently have no
effect, since the node is not being created.
*/
func planCreateNode(sym *symtab, np *parser.NodePattern, updates *[]UpdateStep) (int, error) {
	slot, isNew, err := sym.nodeSlot(np.Name, np.Label)
	if err != nil {
		return 0, err
	}

	if !isNew {
		if len(np.Props) > 0 {
			return 0, util.NewPlanError("'" + np.Name + "' is already bound; its CREATE properties would have no effect")
		}
		return slot, nil
	}

	props := make(map[string]LoadProperty, len(np.Props))
	for _, p := range np.Props {
		props[p.Key] = Constant{Value: literalToProperty(p.Value)}
	}

	*updates = append(*updates, CreateNode{Slot: slot, Label: np.Label, Props: props})
	return slot, nil
}
