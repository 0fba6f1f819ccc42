/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krotik/cqlite/compiler"
	"github.com/krotik/cqlite/kv"
	"github.com/krotik/cqlite/model"
	"github.com/krotik/cqlite/parser"
	"github.com/krotik/cqlite/planner"
	"github.com/krotik/cqlite/store"
	"github.com/krotik/cqlite/vault"
)

func newTestStore(t *testing.T) *store.Store {
	s, err := store.Open(kv.NewMemory(), vault.NopVault{})
	require.NoError(t, err)
	return s
}

func mustCompile(t *testing.T, text string) *compiler.Program {
	q, err := parser.Parse(text)
	require.NoError(t, err)
	plan, err := planner.Plan(q)
	require.NoError(t, err)
	prog, err := compiler.Compile(plan)
	require.NoError(t, err)
	return prog
}

func TestCreateNodeThenMatchFindsIt(t *testing.T) {
	s := newTestStore(t)

	createTxn, err := s.MutTxn()
	require.NoError(t, err)
	prog := mustCompile(t, "CREATE (a:PERSON{name:'Alice'})")
	m := New(prog, createTxn, nil)
	status, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, Yield, status)
	require.NoError(t, createTxn.Commit())

	readTxn := s.Txn()
	prog2 := mustCompile(t, "MATCH (x:PERSON) RETURN x, x.name")
	m2 := New(prog2, readTxn, nil)
	status2, err := m2.Run()
	require.NoError(t, err)
	require.Equal(t, Yield, status2)

	nodeVal, err := m2.Access(0)
	require.NoError(t, err)
	n, ok := nodeVal.(*model.Node)
	require.True(t, ok)
	assert.Equal(t, "PERSON", n.Label)

	nameVal, err := m2.Access(1)
	require.NoError(t, err)
	prop, ok := nameVal.(model.Property)
	require.True(t, ok)
	assert.Equal(t, "Alice", prop.AsText())

	status3, err := m2.Run()
	require.NoError(t, err)
	assert.Equal(t, Halt, status3)
}

func TestMatchEdgeChainYieldsEveryCombination(t *testing.T) {
	s := newTestStore(t)

	setupTxn, err := s.MutTxn()
	require.NoError(t, err)
	a, err := setupTxn.CreateNode("PERSON", map[string]model.Property{"name": model.Text("Alice")})
	require.NoError(t, err)
	b, err := setupTxn.CreateNode("PERSON", map[string]model.Property{"name": model.Text("Bob")})
	require.NoError(t, err)
	_, err = setupTxn.CreateEdge("KNOWS", a.ID, b.ID, nil)
	require.NoError(t, err)
	require.NoError(t, setupTxn.Commit())

	readTxn := s.Txn()
	prog := mustCompile(t, "MATCH (x)-[e:KNOWS]->(y) RETURN x.name, y.name")
	m := New(prog, readTxn, nil)

	status, err := m.Run()
	require.NoError(t, err)
	require.Equal(t, Yield, status)

	xv, _ := m.Access(0)
	yv, _ := m.Access(1)
	assert.Equal(t, "Alice", xv.(model.Property).AsText())
	assert.Equal(t, "Bob", yv.(model.Property).AsText())

	status2, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, Halt, status2)
}

func TestUndirectedMatchYieldsEachEdgeOnceOriginFirst(t *testing.T) {
	s := newTestStore(t)

	setupTxn, err := s.MutTxn()
	require.NoError(t, err)
	a, err := setupTxn.CreateNode("PERSON", map[string]model.Property{"name": model.Text("Alice")})
	require.NoError(t, err)
	b, err := setupTxn.CreateNode("PERSON", map[string]model.Property{"name": model.Text("Bob")})
	require.NoError(t, err)
	_, err = setupTxn.CreateEdge("KNOWS", a.ID, b.ID, nil)
	require.NoError(t, err)
	_, err = setupTxn.CreateEdge("KNOWS", b.ID, a.ID, nil)
	require.NoError(t, err)
	require.NoError(t, setupTxn.Commit())

	readTxn := s.Txn()
	prog := mustCompile(t, "MATCH (x)-[e]-(y) RETURN x.name, y.name")
	m := New(prog, readTxn, nil)

	var xs, ys []string
	for {
		status, err := m.Run()
		require.NoError(t, err)
		if status == Halt {
			break
		}
		xv, _ := m.Access(0)
		yv, _ := m.Access(1)
		xs = append(xs, xv.(model.Property).AsText())
		ys = append(ys, yv.(model.Property).AsText())
	}

	// Two directed edges between the same pair of nodes must yield
	// exactly two bindings, not four: each edge bound once, with x at
	// its origin.
	require.Len(t, xs, 2)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, xs)
	assert.ElementsMatch(t, []string{"Bob", "Alice"}, ys)
	for i := range xs {
		assert.NotEqual(t, xs[i], ys[i])
	}
}

func TestWhereFilterPrunesCandidates(t *testing.T) {
	s := newTestStore(t)

	setupTxn, err := s.MutTxn()
	require.NoError(t, err)
	_, err = setupTxn.CreateNode("PERSON", map[string]model.Property{"age": model.Int(10)})
	require.NoError(t, err)
	_, err = setupTxn.CreateNode("PERSON", map[string]model.Property{"age": model.Int(30)})
	require.NoError(t, err)
	require.NoError(t, setupTxn.Commit())

	readTxn := s.Txn()
	prog := mustCompile(t, "MATCH (x) WHERE x.age > 20 RETURN x.age")
	m := New(prog, readTxn, nil)

	status, err := m.Run()
	require.NoError(t, err)
	require.Equal(t, Yield, status)
	v, _ := m.Access(0)
	assert.Equal(t, int64(30), v.(model.Property).AsInt())

	status2, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, Halt, status2)
}

func TestSetClauseUpdatesBoundNode(t *testing.T) {
	s := newTestStore(t)

	setupTxn, err := s.MutTxn()
	require.NoError(t, err)
	n, err := setupTxn.CreateNode("PERSON", map[string]model.Property{"age": model.Int(10)})
	require.NoError(t, err)
	require.NoError(t, setupTxn.Commit())

	writeTxn, err := s.MutTxn()
	require.NoError(t, err)
	prog := mustCompile(t, "MATCH (x:PERSON) SET x.age = 99")
	m := New(prog, writeTxn, nil)
	status, err := m.Run()
	require.NoError(t, err)
	require.Equal(t, Yield, status)
	require.NoError(t, writeTxn.Commit())

	readTxn := s.Txn()
	got, err := readTxn.LoadNode(n.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Property("age").AsInt())
}

func TestDeleteClauseRemovesNode(t *testing.T) {
	s := newTestStore(t)

	setupTxn, err := s.MutTxn()
	require.NoError(t, err)
	n, err := setupTxn.CreateNode("PERSON", nil)
	require.NoError(t, err)
	require.NoError(t, setupTxn.Commit())

	writeTxn, err := s.MutTxn()
	require.NoError(t, err)
	prog := mustCompile(t, "MATCH (x:PERSON) DELETE x")
	m := New(prog, writeTxn, nil)
	status, err := m.Run()
	require.NoError(t, err)
	require.Equal(t, Yield, status)
	require.NoError(t, writeTxn.Commit())

	readTxn := s.Txn()
	got, err := readTxn.LoadNode(n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWriteInReadTransactionFails(t *testing.T) {
	s := newTestStore(t)
	readTxn := s.Txn()
	prog := mustCompile(t, "CREATE (a:PERSON)")
	m := New(prog, readTxn, nil)
	_, err := m.Run()
	assert.Error(t, err)
}

func TestParameterReference(t *testing.T) {
	s := newTestStore(t)

	setupTxn, err := s.MutTxn()
	require.NoError(t, err)
	_, err = setupTxn.CreateNode("PERSON", map[string]model.Property{"age": model.Int(42)})
	require.NoError(t, err)
	require.NoError(t, setupTxn.Commit())

	readTxn := s.Txn()
	prog := mustCompile(t, "MATCH (x) WHERE x.age = $want RETURN x.age")
	m := New(prog, readTxn, map[string]model.Property{"want": model.Int(42)})

	status, err := m.Run()
	require.NoError(t, err)
	require.Equal(t, Yield, status)
	v, _ := m.Access(0)
	assert.Equal(t, int64(42), v.(model.Property).AsInt())
}
