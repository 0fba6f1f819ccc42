/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package vm executes a compiled Program against a store transaction.
Execution is a single flat dispatch loop over the program's
instructions rather than a recursive tree walk, the same "flat
instruction, explicit program counter" idiom the compiler package uses
to turn the planner's tree-shaped filters into a linear backtracking
search.
*/
package vm

import (
	"github.com/krotik/cqlite/compiler"
	"github.com/krotik/cqlite/model"
	"github.com/krotik/cqlite/store"
	"github.com/krotik/cqlite/util"
)

/*
Status is the outcome of one run() call.
*/
type Status int

const (
	// Yield means a full binding was found; bound state is available
	// through Access until the next call to Step.
	Yield Status = iota

	// Halt means every candidate has been exhausted; no further
	// bindings remain.
	Halt
)

/*
VirtualMachine holds the running state of one query execution: a
program counter, the stack of currently open iterators, the bound
node/edge vectors indexed by slot, and the parameter mapping. Writes
are not buffered separately - CREATE/SET/DELETE are applied directly
through Txn, which already holds mutations in its own staged overlay
until Commit, so there is nothing left for the VM to buffer.
*/
type VirtualMachine struct {
	program *compiler.Program
	txn     *store.Txn
	params  map[string]model.Property

	pc       int
	halted   bool
	iterators []iterState

	nodes []*model.Node
	edges []*model.Edge
}

/*
New creates a VirtualMachine ready to execute program against txn with
the given parameter bindings.
*/
func New(program *compiler.Program, txn *store.Txn, params map[string]model.Property) *VirtualMachine {
	if params == nil {
		params = map[string]model.Property{}
	}
	return &VirtualMachine{
		program: program,
		txn:     txn,
		params:  params,
		nodes:   make([]*model.Node, program.NodeSlots),
		edges:   make([]*model.Edge, program.EdgeSlots),
	}
}

/*
Run advances the program until it yields a binding or halts.
*/
func (m *VirtualMachine) Run() (Status, error) {
	if m.halted {
		return Halt, nil
	}

	for {
		instr := m.program.Instrs[m.pc]

		switch instr.Op {
		case compiler.OpOpen:
			it, err := openIterator(instr.Step, m)
			if err != nil {
				return Halt, err
			}
			m.iterators = append(m.iterators, it)
			m.pc++

		case compiler.OpAdvance:
			top := m.iterators[len(m.iterators)-1]
			ok, err := top.Advance(m)
			if err != nil {
				return Halt, err
			}
			if ok {
				m.pc++
			} else {
				top.Close()
				m.iterators = m.iterators[:len(m.iterators)-1]
				m.pc = instr.Target
			}

		case compiler.OpFilter:
			ok, err := evalFilter(instr.Filter, m)
			if err != nil {
				return Halt, err
			}
			if ok {
				m.pc++
			} else {
				m.pc = instr.Target
			}

		case compiler.OpStage:
			if err := applyUpdate(instr.Update, m); err != nil {
				return Halt, err
			}
			m.pc++

		case compiler.OpYield:
			m.pc = instr.Target
			return Yield, nil

		case compiler.OpHalt:
			m.halted = true
			return Halt, nil

		default:
			return Halt, util.NewInternalError("unknown opcode in compiled program")
		}
	}
}

/*
Node returns the node currently bound in slot, or nil if none is bound.
*/
func (m *VirtualMachine) Node(slot int) *model.Node { return m.nodes[slot] }

/*
Edge returns the edge currently bound in slot, or nil if none is bound.
*/
func (m *VirtualMachine) Edge(slot int) *model.Edge { return m.edges[slot] }

/*
Returns exposes the program's access vector, the shape RETURN produces.
*/
func (m *VirtualMachine) Returns() []interface{} {
	out := make([]interface{}, len(m.program.Returns))
	for i := range m.program.Returns {
		out[i] = m.program.Returns[i]
	}
	return out
}

/*
NumReturns is the number of items RETURN produces.
*/
func (m *VirtualMachine) NumReturns() int { return len(m.program.Returns) }

/*
Access evaluates the i-th access descriptor against the VM's current
bound state, returning either a *model.Node, a *model.Edge or a
model.Property.
*/
func (m *VirtualMachine) Access(i int) (interface{}, error) {
	if i < 0 || i >= len(m.program.Returns) {
		return nil, util.NewRuntimeError("return index out of range")
	}
	return resolveAccess(m.program.Returns[i], m)
}
