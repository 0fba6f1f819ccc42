/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package compiler lowers a planner.QueryPlan into a flat Program: a
loop nest of match steps linearized with jumps, the way the teacher's
own AST-to-runtime lowering favors a flat instruction slice over a
recursive tree walk at execution time (see eql/interpreter's Runtime
tree, which this package replaces with data instead of recursion for
the hot backtracking path).
*/
package compiler

import (
	"devt.de/krotik/common/errorutil"

	"github.com/krotik/cqlite/planner"
)

/*
Opcode discriminates the kind of one Instr.
*/
type Opcode byte

const (
	// OpOpen opens an iterator for a match step (Step holds which kind)
	// and always falls through to the OpAdvance immediately following it.
	OpOpen Opcode = iota

	// OpAdvance pulls the next candidate from the innermost open
	// iterator. On success it falls through; on exhaustion it closes
	// the iterator and jumps to Target (the enclosing iterator's own
	// OpAdvance, or the program's OpHalt if there is no enclosing
	// iterator).
	OpAdvance

	// OpFilter evaluates Filter. True falls through; false jumps to
	// Target without touching any iterator, exactly like a failed
	// OpAdvance at the same nesting depth.
	OpFilter

	// OpStage applies one update step (SET, CREATE or DELETE) against
	// the running transaction.
	OpStage

	// OpYield returns Yield to the caller. Target is where execution
	// resumes on the next run() call: the innermost iterator's
	// OpAdvance, or OpHalt if the plan had no match steps at all.
	OpYield

	// OpHalt ends the program; every subsequent run() call returns Halt
	// immediately.
	OpHalt
)

/*
Instr is one instruction of a compiled Program. Only the fields
relevant to Op are populated; this mirrors the teacher's preference for
a flat operand struct (opcode + operands) over an interface hierarchy,
carried over from planner/plan.rs's own MatchStep/Filter shape.
*/
type Instr struct {
	Op     Opcode
	Step   planner.MatchStep  // OpOpen
	Filter planner.Filter     // OpFilter
	Update planner.UpdateStep // OpStage
	Target int                // OpAdvance, OpFilter, OpYield
}

/*
Program is a compiled query: instructions plus the access vector RETURN
produces, copied verbatim from the plan since it needs no further
lowering.
*/
type Program struct {
	Instrs    []Instr
	Returns   []planner.AccessDescriptor
	NodeSlots int
	EdgeSlots int
}

/*
Compile lowers plan into a Program. Every CompileError this function
can return indicates an internal invariant violation in the planner's
output, not a problem with user-supplied query text.
*/
func Compile(plan *planner.QueryPlan) (*Program, error) {
	c := &compilerState{}

	for _, step := range plan.Steps {
		if err := c.compileStep(step); err != nil {
			return nil, err
		}
	}

	for _, update := range plan.Updates {
		c.emit(Instr{Op: OpStage, Update: update})
	}

	yieldTarget := c.backtrackTarget()
	yieldIdx := c.emit(Instr{Op: OpYield, Target: yieldTarget})
	if yieldTarget == pendingHaltMarker {
		c.markPendingHalt(yieldIdx)
	}

	haltIdx := c.emit(Instr{Op: OpHalt})
	errorutil.AssertTrue(haltIdx == len(c.instrs)-1,
		"OpHalt must be the last instruction emitted by Compile")

	for _, idx := range c.pendingHalt {
		c.instrs[idx].Target = haltIdx
	}

	return &Program{
		Instrs:    c.instrs,
		Returns:   plan.Returns,
		NodeSlots: plan.NodeSlots,
		EdgeSlots: plan.EdgeSlots,
	}, nil
}

/*
pendingHaltMarker is the sentinel Target value used until the final
OpHalt instruction's index is known.
*/
const pendingHaltMarker = -1

type compilerState struct {
	instrs      []Instr
	openSites   []int // indices of currently nested OpAdvance instructions, outer to inner
	pendingHalt []int // indices of instructions whose Target needs patching to OpHalt's index
}

func (c *compilerState) emit(i Instr) int {
	c.instrs = append(c.instrs, i)
	return len(c.instrs) - 1
}

/*
backtrackTarget returns the Target an OpAdvance failure or OpFilter
false should use: the innermost currently-open iterator's OpAdvance
index, or pendingHaltMarker if none is open.
*/
func (c *compilerState) backtrackTarget() int {
	if len(c.openSites) == 0 {
		return pendingHaltMarker
	}
	return c.openSites[len(c.openSites)-1]
}

func (c *compilerState) markPendingHalt(idx int) {
	c.pendingHalt = append(c.pendingHalt, idx)
}

func (c *compilerState) compileStep(step planner.MatchStep) error {
	if fs, ok := step.(planner.FilterStep); ok {
		target := c.backtrackTarget()
		idx := c.emit(Instr{Op: OpFilter, Filter: fs.Filter, Target: target})
		if target == pendingHaltMarker {
			c.markPendingHalt(idx)
		}
		return nil
	}

	c.emit(Instr{Op: OpOpen, Step: step})
	target := c.backtrackTarget()
	advIdx := c.emit(Instr{Op: OpAdvance, Target: target})
	if target == pendingHaltMarker {
		c.markPendingHalt(advIdx)
	}
	c.openSites = append(c.openSites, advIdx)
	return nil
}
