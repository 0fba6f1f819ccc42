/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krotik/cqlite/parser"
)

func mustParse(t *testing.T, text string) *parser.Query {
	q, err := parser.Parse(text)
	require.NoError(t, err)
	return q
}

func TestPlanSimpleMatchReturn(t *testing.T) {
	q := mustParse(t, "MATCH (x:PERSON) RETURN x")
	plan, err := Plan(q)
	require.NoError(t, err)

	assert.Equal(t, 1, plan.NodeSlots)
	assert.Equal(t, 0, plan.EdgeSlots)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, LoadAnyNode{Slot: 0}, plan.Steps[0])
	assert.Equal(t, FilterStep{NodeHasLabel{NodeSlot: 0, Label: "PERSON"}}, plan.Steps[1])
	require.Len(t, plan.Returns, 1)
	assert.Equal(t, AccessNode{Slot: 0}, plan.Returns[0])
}

func TestPlanDirectedEdgeChain(t *testing.T) {
	q := mustParse(t, "MATCH (x)-[e:KNOWS]->(y) RETURN x,e,y")
	plan, err := Plan(q)
	require.NoError(t, err)

	assert.Equal(t, 2, plan.NodeSlots)
	assert.Equal(t, 1, plan.EdgeSlots)

	require.Len(t, plan.Steps, 4)
	assert.Equal(t, LoadAnyNode{Slot: 0}, plan.Steps[0])
	assert.Equal(t, LoadOriginEdge{Slot: 0, NodeSlot: 0}, plan.Steps[1])
	assert.Equal(t, FilterStep{EdgeHasLabel{EdgeSlot: 0, Label: "KNOWS"}}, plan.Steps[2])
	assert.Equal(t, LoadTargetNode{Slot: 1, EdgeSlot: 0}, plan.Steps[3])

	require.Len(t, plan.Returns, 3)
	assert.Equal(t, AccessNode{Slot: 0}, plan.Returns[0])
	assert.Equal(t, AccessEdge{Slot: 0}, plan.Returns[1])
	assert.Equal(t, AccessNode{Slot: 1}, plan.Returns[2])
}

func TestPlanLeftEdgeSwapsOriginTarget(t *testing.T) {
	q := mustParse(t, "MATCH (x)<-[e]-(y) RETURN x")
	plan, err := Plan(q)
	require.NoError(t, err)

	assert.Equal(t, LoadTargetEdge{Slot: 0, NodeSlot: 0}, plan.Steps[1])
	assert.Equal(t, LoadOriginNode{Slot: 1, EdgeSlot: 0}, plan.Steps[2])
}

func TestPlanEitherEdge(t *testing.T) {
	q := mustParse(t, "MATCH (x)-[e]-(y) RETURN x")
	plan, err := Plan(q)
	require.NoError(t, err)

	// A fresh "either" edge off a fresh node is canonicalized to the
	// origin side, the same as "right", so every edge is bound exactly
	// once regardless of which of its two endpoints x happens to be.
	assert.Equal(t, LoadOriginEdge{Slot: 0, NodeSlot: 0}, plan.Steps[1])
	assert.Equal(t, LoadTargetNode{Slot: 1, EdgeSlot: 0}, plan.Steps[2])
}

func TestPlanInlinePropertyBecomesEqFilter(t *testing.T) {
	q := mustParse(t, "MATCH (x:PERSON{age:21}) RETURN x")
	plan, err := Plan(q)
	require.NoError(t, err)

	found := false
	for _, s := range plan.Steps {
		if fs, ok := s.(FilterStep); ok {
			if eq, ok := fs.Filter.(Eq); ok {
				assert.Equal(t, PropertyOfNode{NodeSlot: 0, Key: "age"}, eq.Left)
				found = true
			}
		}
	}
	assert.True(t, found, "expected an Eq filter for the inline property")
}

func TestPlanWhereClauseAppendsTrailingFilter(t *testing.T) {
	q := mustParse(t, "MATCH (x) WHERE x.age > 20 RETURN x")
	plan, err := Plan(q)
	require.NoError(t, err)

	last := plan.Steps[len(plan.Steps)-1]
	fs, ok := last.(FilterStep)
	require.True(t, ok)
	gt, ok := fs.Filter.(Gt)
	require.True(t, ok)
	assert.Equal(t, PropertyOfNode{NodeSlot: 0, Key: "age"}, gt.Left)
}

func TestPlanWhereIDEquality(t *testing.T) {
	q := mustParse(t, "MATCH (x) WHERE ID(x) = 7 RETURN x")
	plan, err := Plan(q)
	require.NoError(t, err)

	last := plan.Steps[len(plan.Steps)-1].(FilterStep)
	idFilter, ok := last.Filter.(NodeHasId)
	require.True(t, ok)
	assert.Equal(t, 0, idFilter.NodeSlot)
	assert.Equal(t, Constant{Value: literalToProperty(&parser.Literal{Int: int64Ptr(7)})}, idFilter.ID)
}

func TestPlanWhereAndOrNot(t *testing.T) {
	q := mustParse(t, "MATCH (x) WHERE x.a > 1 AND NOT x.b < 2 OR x.c = 3 RETURN x")
	plan, err := Plan(q)
	require.NoError(t, err)

	last := plan.Steps[len(plan.Steps)-1].(FilterStep)
	or, ok := last.Filter.(Or)
	require.True(t, ok)

	and, ok := or.Left.(And)
	require.True(t, ok)
	_, ok = and.Left.(Gt)
	assert.True(t, ok)
	notf, ok := and.Right.(Not)
	require.True(t, ok)
	_, ok = notf.Inner.(Lt)
	assert.True(t, ok)

	_, ok = or.Right.(Eq)
	assert.True(t, ok)
}

func TestPlanSetClause(t *testing.T) {
	q := mustParse(t, "MATCH (x:PERSON) SET x.age = 42")
	plan, err := Plan(q)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 1)
	set, ok := plan.Updates[0].(SetNodeProperty)
	require.True(t, ok)
	assert.Equal(t, 0, set.NodeSlot)
	assert.Equal(t, "age", set.Key)
}

func TestPlanDeleteClause(t *testing.T) {
	q := mustParse(t, "MATCH (x)-[e]->(y) DELETE e,x")
	plan, err := Plan(q)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 2)
	edgeDel, ok := plan.Updates[0].(DeleteEdge)
	require.True(t, ok)
	assert.Equal(t, 0, edgeDel.EdgeSlot)
	nodeDel, ok := plan.Updates[1].(DeleteNode)
	require.True(t, ok)
	assert.Equal(t, 0, nodeDel.NodeSlot)
}

func TestPlanCreateNodeAndEdge(t *testing.T) {
	q := mustParse(t, "CREATE (a:PERSON{name:'Alice'})-[k:KNOWS]->(b:PERSON{name:'Bob'})")
	plan, err := Plan(q)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 3)
	createA, ok := plan.Updates[0].(CreateNode)
	require.True(t, ok)
	assert.Equal(t, "PERSON", createA.Label)
	assert.Contains(t, createA.Props, "name")

	createB, ok := plan.Updates[1].(CreateNode)
	require.True(t, ok)

	createEdge, ok := plan.Updates[2].(CreateEdge)
	require.True(t, ok)
	assert.Equal(t, "KNOWS", createEdge.Label)
	assert.Equal(t, createA.Slot, createEdge.OriginSlot)
	assert.Equal(t, createB.Slot, createEdge.TargetSlot)
}

func TestPlanCreateReferencingMatchedNode(t *testing.T) {
	q := mustParse(t, "MATCH (a:PERSON) CREATE (a)-[k:KNOWS]->(b:PERSON)")
	plan, err := Plan(q)
	require.NoError(t, err)

	require.Len(t, plan.Updates, 2)
	createB, ok := plan.Updates[0].(CreateNode)
	require.True(t, ok)

	createEdge, ok := plan.Updates[1].(CreateEdge)
	require.True(t, ok)
	assert.Equal(t, 0, createEdge.OriginSlot)
	assert.Equal(t, createB.Slot, createEdge.TargetSlot)
}

func TestPlanCreateEitherDirectionRejected(t *testing.T) {
	q := mustParse(t, "CREATE (a)-[k]-(b)")
	_, err := Plan(q)
	assert.Error(t, err)
}

func TestPlanUnboundNameInWhereFails(t *testing.T) {
	q := mustParse(t, "MATCH (x) WHERE y.age > 1 RETURN x")
	_, err := Plan(q)
	assert.Error(t, err)
}

func TestPlanConflictingLabelFails(t *testing.T) {
	q := mustParse(t, "MATCH (x:PERSON) MATCH (x:COMPANY) RETURN x")
	_, err := Plan(q)
	assert.Error(t, err)
}

func int64Ptr(v int64) *int64 { return &v }
