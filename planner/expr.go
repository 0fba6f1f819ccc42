/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package planner

import (
	"strings"

	"github.com/krotik/cqlite/model"
	"github.com/krotik/cqlite/parser"
	"github.com/krotik/cqlite/util"
)

/*
literalToProperty converts a parsed literal into the Property it
denotes.
*/
func literalToProperty(lit *parser.Literal) model.Property {
	switch {
	case lit.Real != nil:
		return model.Real(*lit.Real)
	case lit.Int != nil:
		return model.Int(*lit.Int)
	case lit.Text != nil:
		return model.Text(string(*lit.Text))
	}
	return model.Null
}

/*
convertExpr lowers a parsed expression to a LoadProperty, resolving any
name reference against sym.
*/
func convertExpr(sym *symtab, e *parser.Expr) (LoadProperty, error) {
	switch {
	case e.IDName != "":
		slot, isEdge, err := sym.lookupAny(e.IDName)
		if err != nil {
			return nil, err
		}
		return IDOf{Slot: slot, IsEdge: isEdge}, nil

	case e.PropRef != nil:
		slot, isEdge, err := sym.lookupAny(e.PropRef.Name)
		if err != nil {
			return nil, err
		}
		if isEdge {
			return PropertyOfEdge{EdgeSlot: slot, Key: e.PropRef.Key}, nil
		}
		return PropertyOfNode{NodeSlot: slot, Key: e.PropRef.Key}, nil

	case e.Param != "":
		return Parameter{Name: strings.TrimPrefix(e.Param, "$")}, nil

	case e.Literal != nil:
		return Constant{Value: literalToProperty(e.Literal)}, nil

	case e.Name != "":
		return nil, util.NewPlanError("'" + e.Name + "' needs a property or ID() reference here; a bare name is only valid in RETURN")
	}
	return nil, util.NewInternalError("expression with no alternative set")
}

/*
convertReturnExpr lowers a RETURN item's expression to an
AccessDescriptor. A bare name with no ID()/property suffix returns the
whole node or edge.
*/
func convertReturnExpr(sym *symtab, e *parser.Expr) (AccessDescriptor, error) {
	switch {
	case e.IDName != "":
		slot, isEdge, err := sym.lookupAny(e.IDName)
		if err != nil {
			return nil, err
		}
		return AccessID{Slot: slot, IsEdge: isEdge}, nil

	case e.PropRef != nil:
		slot, isEdge, err := sym.lookupAny(e.PropRef.Name)
		if err != nil {
			return nil, err
		}
		if isEdge {
			return AccessEdgeProperty{Slot: slot, Key: e.PropRef.Key}, nil
		}
		return AccessNodeProperty{Slot: slot, Key: e.PropRef.Key}, nil

	case e.Param != "":
		return AccessParameter{Name: strings.TrimPrefix(e.Param, "$")}, nil

	case e.Literal != nil:
		return AccessConstant{Value: literalToProperty(e.Literal)}, nil

	case e.Name != "":
		slot, isEdge, err := sym.lookupAny(e.Name)
		if err != nil {
			return nil, err
		}
		if isEdge {
			return AccessEdge{Slot: slot}, nil
		}
		return AccessNode{Slot: slot}, nil
	}
	return nil, util.NewInternalError("expression with no alternative set")
}

/*
buildCondition lowers a WHERE condition (OR of AND of NOT of
comparison) into a Filter tree.
*/
func buildCondition(sym *symtab, cond *parser.Condition) (Filter, error) {
	result, err := buildAndExpr(sym, cond.Left)
	if err != nil {
		return nil, err
	}
	for _, rest := range cond.Rest {
		rf, err := buildAndExpr(sym, rest)
		if err != nil {
			return nil, err
		}
		result = Or{Left: result, Right: rf}
	}
	return result, nil
}

func buildAndExpr(sym *symtab, a *parser.AndExpr) (Filter, error) {
	result, err := buildNotExpr(sym, a.Left)
	if err != nil {
		return nil, err
	}
	for _, rest := range a.Rest {
		rf, err := buildNotExpr(sym, rest)
		if err != nil {
			return nil, err
		}
		result = And{Left: result, Right: rf}
	}
	return result, nil
}

func buildNotExpr(sym *symtab, n *parser.NotExpr) (Filter, error) {
	f, err := buildComparison(sym, n.Expr)
	if err != nil {
		return nil, err
	}
	if n.Negate {
		return Not{Inner: f}, nil
	}
	return f, nil
}

/*
buildComparison lowers a single comparison. With no tail it is a bare
truthiness test; "ID(name) = expr" is special-cased into
NodeHasId/EdgeHasId, the one place the id of a bound entity can be
compared directly against a value, matching the Rust original's
dedicated Filter leaves for identity tests.
*/
func buildComparison(sym *symtab, cmp *parser.Comparison) (Filter, error) {
	if cmp.Tail == nil {
		v, err := convertExpr(sym, cmp.Left)
		if err != nil {
			return nil, err
		}
		return IsTruthy{Value: v}, nil
	}

	op := cmp.Tail.Op

	if cmp.Left.IDName != "" && op == "=" {
		slot, isEdge, err := sym.lookupAny(cmp.Left.IDName)
		if err != nil {
			return nil, err
		}
		id, err := convertExpr(sym, cmp.Tail.Right)
		if err != nil {
			return nil, err
		}
		if isEdge {
			return EdgeHasId{EdgeSlot: slot, ID: id}, nil
		}
		return NodeHasId{NodeSlot: slot, ID: id}, nil
	}

	left, err := convertExpr(sym, cmp.Left)
	if err != nil {
		return nil, err
	}
	right, err := convertExpr(sym, cmp.Tail.Right)
	if err != nil {
		return nil, err
	}

	switch op {
	case "=":
		return Eq{Left: left, Right: right}, nil
	case "<":
		return Lt{Left: left, Right: right}, nil
	case ">":
		return Gt{Left: left, Right: right}, nil
	case "<=":
		return Or{Left: Lt{Left: left, Right: right}, Right: Eq{Left: left, Right: right}}, nil
	case ">=":
		return Or{Left: Gt{Left: left, Right: right}, Right: Eq{Left: left, Right: right}}, nil
	case "<>":
		return Not{Inner: Eq{Left: left, Right: right}}, nil
	}
	return nil, util.NewInternalError("unknown comparison operator " + op)
}
