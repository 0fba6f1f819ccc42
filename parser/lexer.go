/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package parser

import "github.com/alecthomas/participle/v2/lexer"

/*
queryLexer is the lexical grammar of the pattern language: identifiers,
labels, single-quoted text literals with backslash escapes, integer and
real numerals, parameters ($name), and the punctuation used by node and
edge patterns. Multi-character edge tokens are listed before the
single-character tokens they prefix so the simple lexer's first-match
rule picks the longer token.
*/
var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Real", Pattern: `[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Param", Pattern: `\$[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "String", Pattern: `'(\\.|[^'\\])*'`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "EdgeOpenLeft", Pattern: `<-\[`},
	{Name: "EdgeOpenRight", Pattern: `-\[`},
	{Name: "EdgeCloseRight", Pattern: `\]->`},
	{Name: "EdgeCloseEither", Pattern: `\]-`},
	{Name: "Ne", Pattern: `<>`},
	{Name: "Le", Pattern: `<=`},
	{Name: "Ge", Pattern: `>=`},
	{Name: "Eq", Pattern: `=`},
	{Name: "Lt", Pattern: `<`},
	{Name: "Gt", Pattern: `>`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dot", Pattern: `\.`},
})
