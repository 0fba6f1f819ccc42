/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cqlite

import (
	"github.com/krotik/cqlite/compiler"
	"github.com/krotik/cqlite/model"
	"github.com/krotik/cqlite/parser"
	"github.com/krotik/cqlite/planner"
	"github.com/krotik/cqlite/vm"
)

/*
Statement is a parsed, planned and compiled query. It holds no
reference to any transaction, so the same Statement may be shared
across goroutines, each driving its own Query or Execute call against
its own Txn - statement compilation never touches the store.
*/
type Statement struct {
	program *compiler.Program
}

func prepare(queryText string) (*Statement, error) {
	q, err := parser.Parse(queryText)
	if err != nil {
		return nil, err
	}
	plan, err := planner.Plan(q)
	if err != nil {
		return nil, err
	}
	program, err := compiler.Compile(plan)
	if err != nil {
		return nil, err
	}
	return &Statement{program: program}, nil
}

/*
Query binds this statement to txn and parameters, returning a cursor
that yields one Match per full binding found. txn may be read or
write; a write-only statement (SET/CREATE/DELETE) fails at the first
Step with RuntimeError if txn is read-only.
*/
func (s *Statement) Query(txn *Txn, parameters map[string]model.Property) *Query {
	return &Query{m: vm.New(s.program, txn.inner, parameters)}
}

/*
Execute drives this statement to completion against a write
transaction, applying every staged update and discarding any returned
bindings. It does not commit txn - the caller commits or rolls back.
*/
func (s *Statement) Execute(txn *Txn, parameters map[string]model.Property) error {
	m := vm.New(s.program, txn.inner, parameters)
	for {
		status, err := m.Run()
		if err != nil {
			return err
		}
		if status == vm.Halt {
			return nil
		}
	}
}

/*
Query is a cursor over one statement's bindings.
*/
type Query struct {
	m *vm.VirtualMachine
}

/*
Step advances to the next binding, returning (nil, false) once
exhausted.
*/
func (q *Query) Step() (*Match, bool, error) {
	status, err := q.m.Run()
	if err != nil {
		return nil, false, err
	}
	if status == vm.Halt {
		return nil, false, nil
	}
	return &Match{m: q.m}, true, nil
}
