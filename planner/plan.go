/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package planner lowers a parsed query into a QueryPlan: a sequence of
match steps that conceptually enumerate every combination of candidate
nodes and edges (think nested loops, pruned by interleaved filters),
followed by update steps and a vector of access descriptors describing
what RETURN produces. The shape mirrors the teacher's own
AST-to-runtime lowering in eql/interpreter, adapted from eliasdb's
search-condition tree to the pattern-matching plan this query language
calls for.
*/
package planner

import "github.com/krotik/cqlite/model"

/*
QueryPlan is the output of planning one query: match steps to be run
depth-first with backtracking, update steps to run once a full binding
is found, and a return vector.
*/
type QueryPlan struct {
	Steps     []MatchStep
	Updates   []UpdateStep
	Returns   []AccessDescriptor
	NodeSlots int
	EdgeSlots int
}

/*
MatchStep is one instruction in the match phase of a plan.
*/
type MatchStep interface {
	isMatchStep()
}

/*
LoadAnyNode enumerates every node in the store, binding each in turn to
Slot.
*/
type LoadAnyNode struct {
	Slot int
}

/*
LoadOriginNode binds Slot to the node at the origin of the edge already
bound in EdgeSlot.
*/
type LoadOriginNode struct {
	Slot     int
	EdgeSlot int
}

/*
LoadTargetNode binds Slot to the node at the target of the edge already
bound in EdgeSlot.
*/
type LoadTargetNode struct {
	Slot     int
	EdgeSlot int
}

/*
LoadOtherNode binds Slot to the endpoint of the edge in EdgeSlot that is
not the node already bound in FromSlot.
*/
type LoadOtherNode struct {
	Slot     int
	FromSlot int
	EdgeSlot int
}

/*
LoadOriginEdge enumerates edges whose origin is the node bound in
NodeSlot, binding each in turn to Slot.
*/
type LoadOriginEdge struct {
	Slot     int
	NodeSlot int
}

/*
LoadTargetEdge enumerates edges whose target is the node bound in
NodeSlot, binding each in turn to Slot.
*/
type LoadTargetEdge struct {
	Slot     int
	NodeSlot int
}

/*
LoadEitherEdge enumerates edges incident to the node bound in NodeSlot
in either direction, binding each in turn to Slot.
*/
type LoadEitherEdge struct {
	Slot     int
	NodeSlot int
}

/*
FilterStep evaluates a Filter; false triggers backtracking to the
nearest preceding load.
*/
type FilterStep struct {
	Filter Filter
}

func (LoadAnyNode) isMatchStep()    {}
func (LoadOriginNode) isMatchStep() {}
func (LoadTargetNode) isMatchStep() {}
func (LoadOtherNode) isMatchStep()  {}
func (LoadOriginEdge) isMatchStep() {}
func (LoadTargetEdge) isMatchStep() {}
func (LoadEitherEdge) isMatchStep() {}
func (FilterStep) isMatchStep()     {}

/*
Filter is a boolean combinator or leaf predicate over the bound state.
*/
type Filter interface {
	isFilter()
}

/*
And is the conjunction of two filters.
*/
type And struct{ Left, Right Filter }

/*
Or is the disjunction of two filters.
*/
type Or struct{ Left, Right Filter }

/*
Not negates a filter.
*/
type Not struct{ Inner Filter }

/*
IsOrigin tests whether the node bound in NodeSlot is the origin of the
edge bound in EdgeSlot.
*/
type IsOrigin struct{ NodeSlot, EdgeSlot int }

/*
IsTarget tests whether the node bound in NodeSlot is the target of the
edge bound in EdgeSlot.
*/
type IsTarget struct{ NodeSlot, EdgeSlot int }

/*
NodeHasLabel tests the label of the node bound in NodeSlot.
*/
type NodeHasLabel struct {
	NodeSlot int
	Label    string
}

/*
EdgeHasLabel tests the label of the edge bound in EdgeSlot.
*/
type EdgeHasLabel struct {
	EdgeSlot int
	Label    string
}

/*
NodeHasId tests the identity of the node bound in NodeSlot against a
loaded value.
*/
type NodeHasId struct {
	NodeSlot int
	ID       LoadProperty
}

/*
EdgeHasId tests the identity of the edge bound in EdgeSlot against a
loaded value.
*/
type EdgeHasId struct {
	EdgeSlot int
	ID       LoadProperty
}

/*
IsTruthy tests a loaded value's Property.Truthy result; used for a bare
comparison in a WHERE clause with no operator.
*/
type IsTruthy struct{ Value LoadProperty }

/*
Eq/Lt/Gt compare two loaded values via model.Compare.
*/
type Eq struct{ Left, Right LoadProperty }
type Lt struct{ Left, Right LoadProperty }
type Gt struct{ Left, Right LoadProperty }

func (And) isFilter()          {}
func (Or) isFilter()           {}
func (Not) isFilter()          {}
func (IsOrigin) isFilter()     {}
func (IsTarget) isFilter()     {}
func (NodeHasLabel) isFilter() {}
func (EdgeHasLabel) isFilter() {}
func (NodeHasId) isFilter()    {}
func (EdgeHasId) isFilter()    {}
func (IsTruthy) isFilter()     {}
func (Eq) isFilter()           {}
func (Lt) isFilter()           {}
func (Gt) isFilter()           {}

/*
LoadProperty produces a value from the VM's bound state at evaluation
time.
*/
type LoadProperty interface {
	isLoadProperty()
}

/*
Constant is a literal value fixed at plan time.
*/
type Constant struct{ Value model.Property }

/*
PropertyOfNode reads Key off the node bound in NodeSlot.
*/
type PropertyOfNode struct {
	NodeSlot int
	Key      string
}

/*
PropertyOfEdge reads Key off the edge bound in EdgeSlot.
*/
type PropertyOfEdge struct {
	EdgeSlot int
	Key      string
}

/*
Parameter reads a value out of the statement's parameter mapping by
name at execution time.
*/
type Parameter struct{ Name string }

/*
IDOf reads the identity of the node or edge bound in Slot, wrapped as
an integer Property. Grounded on expr's "ID" "(" name ")" production,
which the Rust original let Filter's NodeHasId/EdgeHasId leaves stand
in for but which also appears free-standing in WHERE/RETURN.
*/
type IDOf struct {
	Slot   int
	IsEdge bool
}

func (Constant) isLoadProperty()       {}
func (PropertyOfNode) isLoadProperty() {}
func (PropertyOfEdge) isLoadProperty() {}
func (Parameter) isLoadProperty()      {}
func (IDOf) isLoadProperty()           {}

/*
UpdateStep is one instruction in the update phase of a plan, run once
per full binding found by the match phase.
*/
type UpdateStep interface {
	isUpdateStep()
}

/*
SetNodeProperty assigns Value to Key on the node bound in NodeSlot.
*/
type SetNodeProperty struct {
	NodeSlot int
	Key      string
	Value    LoadProperty
}

/*
SetEdgeProperty assigns Value to Key on the edge bound in EdgeSlot.
*/
type SetEdgeProperty struct {
	EdgeSlot int
	Key      string
	Value    LoadProperty
}

/*
CreateNode stages a new node in Slot with the given label and initial
properties, evaluated once per binding.
*/
type CreateNode struct {
	Slot  int
	Label string
	Props map[string]LoadProperty
}

/*
CreateEdge stages a new edge in Slot between two already-bound (or
just-created) node slots.
*/
type CreateEdge struct {
	Slot       int
	Label      string
	OriginSlot int
	TargetSlot int
}

/*
DeleteNode stages removal of the node bound in NodeSlot; the store
Txn rejects the removal when it is staged if the node still has
incident edges.
*/
type DeleteNode struct{ NodeSlot int }

/*
DeleteEdge stages removal of the edge bound in EdgeSlot.
*/
type DeleteEdge struct{ EdgeSlot int }

func (SetNodeProperty) isUpdateStep() {}
func (SetEdgeProperty) isUpdateStep() {}
func (CreateNode) isUpdateStep()      {}
func (CreateEdge) isUpdateStep()      {}
func (DeleteNode) isUpdateStep()      {}
func (DeleteEdge) isUpdateStep()      {}

/*
AccessDescriptor selects how one RETURN item is produced from the VM's
bound state once a full binding (and any updates) has been completed.
*/
type AccessDescriptor interface {
	isAccessDescriptor()
}

/*
AccessNode returns the node bound in Slot.
*/
type AccessNode struct{ Slot int }

/*
AccessEdge returns the edge bound in Slot.
*/
type AccessEdge struct{ Slot int }

/*
AccessNodeProperty returns Key off the node bound in Slot.
*/
type AccessNodeProperty struct {
	Slot int
	Key  string
}

/*
AccessEdgeProperty returns Key off the edge bound in Slot.
*/
type AccessEdgeProperty struct {
	Slot int
	Key  string
}

/*
AccessConstant returns a fixed value.
*/
type AccessConstant struct{ Value model.Property }

/*
AccessParameter returns a value out of the statement's parameter
mapping by name.
*/
type AccessParameter struct{ Name string }

/*
AccessID returns the identity of the node or edge bound in Slot.
*/
type AccessID struct {
	Slot   int
	IsEdge bool
}

func (AccessNode) isAccessDescriptor()         {}
func (AccessEdge) isAccessDescriptor()         {}
func (AccessNodeProperty) isAccessDescriptor() {}
func (AccessEdgeProperty) isAccessDescriptor() {}
func (AccessConstant) isAccessDescriptor()     {}
func (AccessParameter) isAccessDescriptor()    {}
func (AccessID) isAccessDescriptor()           {}
