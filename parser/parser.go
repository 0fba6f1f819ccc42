/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package parser

import (
	"errors"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/krotik/cqlite/util"
)

var queryParser = participle.MustBuild[Query](
	participle.Lexer(queryLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

/*
Parse lexes and parses query text into a Query AST, returning a
util.Error of kind ParseError on the first syntactic violation.
*/
func Parse(text string) (*Query, error) {
	q, err := queryParser.ParseString("", text)
	if err != nil {
		offset := 0
		var perr participle.Error
		if errors.As(err, &perr) {
			offset = perr.Position().Offset
		}
		return nil, util.NewParseError(offset, err.Error())
	}

	if err := validateDirections(q); err != nil {
		return nil, err
	}

	return q, nil
}

/*
validateDirections rejects edge patterns whose open/close token pair
does not correspond to one of the three valid directions, e.g. an
EdgeOpenLeft ("<-[") paired with an EdgeCloseRight ("]->").
*/
func validateDirections(q *Query) error {
	for _, clause := range q.Clauses {
		if err := validatePatternDirections(clause.Pattern); err != nil {
			return err
		}
	}
	return nil
}

func validatePatternDirections(p *Pattern) error {
	for _, step := range p.Steps {
		_, err := step.Edge.direction()
		if err != nil {
			return err
		}
	}
	return nil
}

/*
direction resolves Open/Close into a model.Direction-shaped value; the
conversion itself lives in the planner, which already imports model -
here we only validate the combination is one of the three the grammar
allows.
*/
func (e *EdgePattern) direction() (string, error) {
	switch {
	case e.Open == "-[" && e.Close == "]->":
		return "right", nil
	case e.Open == "<-[" && e.Close == "]-":
		return "left", nil
	case e.Open == "-[" && e.Close == "]-":
		return "either", nil
	}
	return "", util.NewParseError(e.Pos.Offset, "malformed edge direction: "+e.Open+"..."+e.Close)
}

/*
Direction exposes the validated direction string ("right", "left" or
"either") for an EdgePattern; callers outside this package (the
planner) use this rather than inspecting Open/Close directly.
*/
func (e *EdgePattern) Direction() string {
	dir, _ := e.direction()
	return dir
}
