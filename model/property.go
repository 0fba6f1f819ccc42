/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package model contains the data types shared by the store, the vault and
the query engine: Property, Node and Edge.

Keeping these in a leaf package (no imports from the rest of the tree)
lets the store, the vault, the parser and the virtual machine all refer
to the same value types without import cycles - the same role the
teacher's graph/data package plays for eliasdb's Node/Edge interfaces.
*/
package model

import (
	"bytes"
	"fmt"
	"math"
)

/*
Kind identifies the tag of a Property.
*/
type Kind byte

/*
Property kinds. Integer and Real are distinct kinds that are allowed to
compare across each other by promotion (see Compare); all other kind
pairs never compare equal or ordered.
*/
const (
	KindNull Kind = iota
	KindInt
	KindReal
	KindBool
	KindText
	KindBlob
)

/*
String returns a human readable name for a Kind.
*/
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	}
	return "unknown"
}

/*
Property is a tagged value: the sole value type on the expression stack.
A zero Property is KindNull.
*/
type Property struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
	blob []byte
}

/*
Null is the singular null Property.
*/
var Null = Property{kind: KindNull}

/*
Int creates an integer Property.
*/
func Int(v int64) Property { return Property{kind: KindInt, i: v} }

/*
Real creates a real (floating point) Property.
*/
func Real(v float64) Property { return Property{kind: KindReal, f: v} }

/*
Bool creates a boolean Property.
*/
func Bool(v bool) Property { return Property{kind: KindBool, b: v} }

/*
Text creates a text Property.
*/
func Text(v string) Property { return Property{kind: KindText, s: v} }

/*
Blob creates a blob Property. The given slice is not copied; callers
should not mutate it after handing it to Blob.
*/
func Blob(v []byte) Property { return Property{kind: KindBlob, blob: v} }

/*
Kind returns the tag of this Property.
*/
func (p Property) Kind() Kind { return p.kind }

/*
IsNull returns whether this Property is null.
*/
func (p Property) IsNull() bool { return p.kind == KindNull }

/*
AsInt returns the integer value of this Property. Only meaningful if
Kind() == KindInt.
*/
func (p Property) AsInt() int64 { return p.i }

/*
AsReal returns the real value of this Property. Only meaningful if
Kind() == KindReal.
*/
func (p Property) AsReal() float64 { return p.f }

/*
AsBool returns the boolean value of this Property. Only meaningful if
Kind() == KindBool.
*/
func (p Property) AsBool() bool { return p.b }

/*
AsText returns the text value of this Property. Only meaningful if
Kind() == KindText.
*/
func (p Property) AsText() string { return p.s }

/*
AsBlob returns the blob value of this Property. Only meaningful if
Kind() == KindBlob.
*/
func (p Property) AsBlob() []byte { return p.blob }

/*
String returns a human readable representation of this Property.
*/
func (p Property) String() string {
	switch p.kind {
	case KindNull:
		return "null"
	case KindInt:
		return fmt.Sprintf("%d", p.i)
	case KindReal:
		return fmt.Sprintf("%g", p.f)
	case KindBool:
		return fmt.Sprintf("%t", p.b)
	case KindText:
		return p.s
	case KindBlob:
		return fmt.Sprintf("<blob %d bytes>", len(p.blob))
	}
	return "<invalid property>"
}

/*
Equal reports structural equality between two Properties. Unlike
Compare, Equal never promotes int to real: equality is tag-exact.
*/
func (p Property) Equal(o Property) bool {
	if p.kind != o.kind {
		return false
	}
	switch p.kind {
	case KindNull:
		return true
	case KindInt:
		return p.i == o.i
	case KindReal:
		return p.f == o.f
	case KindBool:
		return p.b == o.b
	case KindText:
		return p.s == o.s
	case KindBlob:
		return bytes.Equal(p.blob, o.blob)
	}
	return false
}

/*
Truthy reports whether this Property is "true" in a filter's condition
position. Null is never truthy: three-valued logic collapses "unknown"
to false in condition position.
*/
func (p Property) Truthy() bool {
	switch p.kind {
	case KindNull:
		return false
	case KindBool:
		return p.b
	case KindInt:
		return p.i != 0
	case KindReal:
		return p.f != 0
	case KindText:
		return p.s != ""
	case KindBlob:
		return len(p.blob) > 0
	}
	return false
}

/*
Ordering is the result of comparing two Properties.
*/
type Ordering int

const (
	Less Ordering = iota - 1
	Equal
	Greater
	// Unordered is returned when the two Properties cannot be compared
	// (different, non-promotable kinds, or either is null).
	Unordered
)

/*
Compare orders two Properties: integer and real compare
after promoting integer to real when kinds differ; text compares
lexicographically by code point; boolean compares false<true; blobs
compare lexicographically; any comparison involving null, or between
unrelated kinds, is Unordered.
*/
func Compare(a, b Property) Ordering {
	if a.kind == KindNull || b.kind == KindNull {
		return Unordered
	}

	if a.kind == KindInt && b.kind == KindInt {
		return compareInt(a.i, b.i)
	}

	if (a.kind == KindInt || a.kind == KindReal) && (b.kind == KindInt || b.kind == KindReal) {
		return compareReal(asReal(a), asReal(b))
	}

	if a.kind != b.kind {
		return Unordered
	}

	switch a.kind {
	case KindBool:
		if a.b == b.b {
			return Equal
		}
		if !a.b && b.b {
			return Less
		}
		return Greater
	case KindText:
		return compareBytes([]byte(a.s), []byte(b.s))
	case KindBlob:
		return compareBytes(a.blob, b.blob)
	}

	return Unordered
}

func asReal(p Property) float64 {
	if p.kind == KindInt {
		return float64(p.i)
	}
	return p.f
}

func compareInt(a, b int64) Ordering {
	if a < b {
		return Less
	}
	if a > b {
		return Greater
	}
	return Equal
}

func compareReal(a, b float64) Ordering {
	if math.IsNaN(a) || math.IsNaN(b) {
		return Unordered
	}
	if a < b {
		return Less
	}
	if a > b {
		return Greater
	}
	return Equal
}

func compareBytes(a, b []byte) Ordering {
	switch bytes.Compare(a, b) {
	case -1:
		return Less
	case 1:
		return Greater
	}
	return Equal
}
