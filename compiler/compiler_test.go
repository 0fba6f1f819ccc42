/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krotik/cqlite/parser"
	"github.com/krotik/cqlite/planner"
)

func mustPlan(t *testing.T, text string) *planner.QueryPlan {
	q, err := parser.Parse(text)
	require.NoError(t, err)
	plan, err := planner.Plan(q)
	require.NoError(t, err)
	return plan
}

func TestCompileSingleLoadHaltsOnExhaustion(t *testing.T) {
	plan := mustPlan(t, "MATCH (x) RETURN x")
	prog, err := Compile(plan)
	require.NoError(t, err)

	require.Len(t, prog.Instrs, 4) // open, advance, yield, halt
	assert.Equal(t, OpOpen, prog.Instrs[0].Op)
	assert.Equal(t, OpAdvance, prog.Instrs[1].Op)

	haltIdx := len(prog.Instrs) - 1
	assert.Equal(t, OpHalt, prog.Instrs[haltIdx].Op)
	assert.Equal(t, haltIdx, prog.Instrs[1].Target, "outermost iterator backtracks to halt on exhaustion")

	assert.Equal(t, OpYield, prog.Instrs[2].Op)
	assert.Equal(t, 1, prog.Instrs[2].Target, "yield resumes at the innermost advance site")
}

func TestCompileNestedLoadsChainBacktrack(t *testing.T) {
	plan := mustPlan(t, "MATCH (x)-[e]->(y) RETURN x,e,y")
	prog, err := Compile(plan)
	require.NoError(t, err)

	var advances []int
	for i, instr := range prog.Instrs {
		if instr.Op == OpAdvance {
			advances = append(advances, i)
		}
	}
	require.Len(t, advances, 3)

	haltIdx := len(prog.Instrs) - 1
	assert.Equal(t, haltIdx, prog.Instrs[advances[0]].Target)
	assert.Equal(t, advances[0], prog.Instrs[advances[1]].Target)
	assert.Equal(t, advances[1], prog.Instrs[advances[2]].Target)
}

func TestCompileFilterBacktracksToInnermostAdvance(t *testing.T) {
	plan := mustPlan(t, "MATCH (x) WHERE x.age > 1 RETURN x")
	prog, err := Compile(plan)
	require.NoError(t, err)

	var filterIdx, advanceIdx int
	for i, instr := range prog.Instrs {
		switch instr.Op {
		case OpFilter:
			filterIdx = i
		case OpAdvance:
			advanceIdx = i
		}
	}
	assert.Equal(t, advanceIdx, prog.Instrs[filterIdx].Target)
}

func TestCompileCreateOnlyHasNoIterator(t *testing.T) {
	plan := mustPlan(t, "CREATE (a:PERSON)")
	prog, err := Compile(plan)
	require.NoError(t, err)

	for _, instr := range prog.Instrs {
		assert.NotEqual(t, OpOpen, instr.Op)
		assert.NotEqual(t, OpAdvance, instr.Op)
	}

	haltIdx := len(prog.Instrs) - 1
	var yieldIdx int
	for i, instr := range prog.Instrs {
		if instr.Op == OpYield {
			yieldIdx = i
		}
	}
	assert.Equal(t, haltIdx, prog.Instrs[yieldIdx].Target, "a plan with no iterator resumes straight into halt")
}

func TestCompileCarriesReturnVector(t *testing.T) {
	plan := mustPlan(t, "MATCH (x) RETURN x, x.name")
	prog, err := Compile(plan)
	require.NoError(t, err)
	require.Len(t, prog.Returns, 2)
	assert.Equal(t, planner.AccessNode{Slot: 0}, prog.Returns[0])
}
