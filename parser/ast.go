/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package parser turns query source text into an abstract syntax tree.
The grammar is expressed as Go structs carrying
github.com/alecthomas/participle/v2 struct tags rather than a
hand-written recursive-descent parser, the same pattern
ritamzico/pgraph's internal/dsl package uses for its own node/edge
pattern language.
*/
package parser

import "github.com/alecthomas/participle/v2/lexer"

/*
Query is the root of the AST: one or more MATCH/CREATE clauses,
followed by an optional WHERE, zero or more SET clauses, an optional
DELETE and an optional RETURN - the structural order spec.md fixes for
the pattern language.
*/
type Query struct {
	Pos lexer.Position

	Clauses []*MatchCreate `parser:"@@+"`
	Where   *Condition     `parser:"( \"WHERE\" @@ )?"`
	Sets    []*SetClause   `parser:"@@*"`
	Delete  *DeleteClause  `parser:"@@?"`
	Return  *ReturnClause  `parser:"@@?"`
}

/*
MatchCreate is one MATCH or CREATE clause.
*/
type MatchCreate struct {
	Pos lexer.Position

	Keyword string   `parser:"@(\"MATCH\"|\"CREATE\")"`
	Pattern *Pattern `parser:"@@"`
}

/*
IsCreate reports whether this clause is a CREATE clause (as opposed to
MATCH).
*/
func (m *MatchCreate) IsCreate() bool { return m.Keyword == "CREATE" }

/*
Pattern is a node, optionally followed by alternating edge/node steps.
*/
type Pattern struct {
	Start *NodePattern `parser:"@@"`
	Steps []*EdgeStep  `parser:"@@*"`
}

/*
EdgeStep is one (edge, node) link in a pattern chain.
*/
type EdgeStep struct {
	Edge *EdgePattern `parser:"@@"`
	Node *NodePattern `parser:"@@"`
}

/*
NodePattern is "(" [name] [":" label] ["{" prop_init ("," prop_init)* "}"] ")".
*/
type NodePattern struct {
	Pos lexer.Position

	Open  string      `parser:"@LParen"`
	Name  string      `parser:"@Ident?"`
	Label string      `parser:"( Colon @Ident )?"`
	Props []*PropInit `parser:"( LBrace @@ ( Comma @@ )* RBrace )?"`
	Close string      `parser:"@RParen"`
}

/*
EdgePattern is one of "-[...]->", "<-[...]-", "-[...]-". Open and Close
jointly determine direction; a nonsensical combination (e.g. an
EdgeOpenLeft paired with an EdgeCloseRight) is rejected by Parse
(validateDirections) before the AST reaches the planner.
*/
type EdgePattern struct {
	Pos lexer.Position

	Open  string `parser:"@(EdgeOpenLeft|EdgeOpenRight)"`
	Name  string `parser:"@Ident?"`
	Label string `parser:"( Colon @Ident )?"`
	Close string `parser:"@(EdgeCloseRight|EdgeCloseEither)"`
}

/*
PropInit is "key" ":" literal, used in a node/edge's inline property
initializer.
*/
type PropInit struct {
	Key   string   `parser:"@Ident Colon"`
	Value *Literal `parser:"@@"`
}

/*
SetClause is "SET" name "." key "=" expr.
*/
type SetClause struct {
	Pos lexer.Position

	Name  string `parser:"\"SET\" @Ident Dot"`
	Key   string `parser:"@Ident Eq"`
	Value *Expr  `parser:"@@"`
}

/*
DeleteClause is "DELETE" name ("," name)*.
*/
type DeleteClause struct {
	Pos lexer.Position

	Names []string `parser:"\"DELETE\" @Ident ( Comma @Ident )*"`
}

/*
ReturnClause is "RETURN" item ("," item)*.
*/
type ReturnClause struct {
	Pos lexer.Position

	Items []*ReturnItem `parser:"\"RETURN\" @@ ( Comma @@ )*"`
}

/*
ReturnItem is an expression in a RETURN list.
*/
type ReturnItem struct {
	Pos   lexer.Position
	Value *Expr `parser:"@@"`
}

/*
Condition is a WHERE predicate: the standard OR-of-AND-of-NOT precedence
chain over comparisons.
*/
type Condition struct {
	Left *AndExpr   `parser:"@@"`
	Rest []*AndExpr `parser:"( \"OR\" @@ )*"`
}

/*
AndExpr is a conjunction of NotExprs.
*/
type AndExpr struct {
	Left *NotExpr   `parser:"@@"`
	Rest []*NotExpr `parser:"( \"AND\" @@ )*"`
}

/*
NotExpr is an optionally negated comparison.
*/
type NotExpr struct {
	Negate bool        `parser:"@\"NOT\"?"`
	Expr   *Comparison `parser:"@@"`
}

/*
Comparison is an expression optionally followed by a comparison
operator and a right-hand expression. With no tail it is a bare
truthiness test (IsTruthy in the planner).
*/
type Comparison struct {
	Left *Expr           `parser:"@@"`
	Tail *ComparisonTail `parser:"@@?"`
}

/*
ComparisonTail is the operator and right-hand side of a Comparison.
*/
type ComparisonTail struct {
	Op    string `parser:"@(Ne|Le|Ge|Eq|Lt|Gt)"`
	Right *Expr  `parser:"@@"`
}

/*
Expr is literal | parameter | name "." key | "ID" "(" name ")" | name.
The bare-name alternative must be tried after PropRef, since PropRef
also starts with an identifier: participle backtracks out of PropRef
when no "." follows and falls through to Name, so "x.key" still binds
PropRef while a lone "x" binds Name.
*/
type Expr struct {
	Pos lexer.Position

	IDName  string   `parser:"( \"ID\" LParen @Ident RParen"`
	PropRef *PropRef `parser:"| @@"`
	Param   string   `parser:"| @Param"`
	Literal *Literal `parser:"| @@"`
	Name    string   `parser:"| @Ident )"`
}

/*
PropRef is name "." key.
*/
type PropRef struct {
	Name string `parser:"@Ident Dot"`
	Key  string `parser:"@Ident"`
}

/*
Literal is an integer, real or single-quoted text literal.
*/
type Literal struct {
	Pos lexer.Position

	Real *float64     `parser:"( @Real"`
	Int  *int64       `parser:"| @Int"`
	Text *TextLiteral `parser:"| @String )"`
}

/*
TextLiteral is a single-quoted text literal with its quotes stripped
and its backslash escapes resolved, implementing participle's Capture
interface so unescaping happens during parse rather than downstream.
*/
type TextLiteral string

/*
Capture implements participle/v2's Capture interface.
*/
func (t *TextLiteral) Capture(values []string) error {
	raw := values[0]
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}

	var out []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			out = append(out, raw[i])
			continue
		}
		out = append(out, raw[i])
	}

	*t = TextLiteral(out)
	return nil
}
