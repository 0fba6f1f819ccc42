/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krotik/cqlite/kv"
	"github.com/krotik/cqlite/model"
	"github.com/krotik/cqlite/vault"
)

func newTestStore(t *testing.T) *Store {
	s, err := Open(kv.NewMemory(), vault.NopVault{})
	require.NoError(t, err)
	return s
}

func TestIDMonotonicity(t *testing.T) {
	s := newTestStore(t)

	txn, err := s.MutTxn()
	require.NoError(t, err)

	var ids []uint64
	for i := 0; i < 5; i++ {
		n, err := txn.CreateNode("PERSON", nil)
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	require.NoError(t, txn.Commit())

	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)

	txn, err := s.MutTxn()
	require.NoError(t, err)

	n, err := txn.CreateNode("PERSON", map[string]model.Property{"name": model.Text("Alice")})
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	read := s.Txn()
	got, err := read.LoadNode(n.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, n.ID, got.ID)
	assert.True(t, got.Property("name").Equal(model.Text("Alice")))
}

func TestAdjacencyAgreement(t *testing.T) {
	s := newTestStore(t)

	txn, err := s.MutTxn()
	require.NoError(t, err)

	a, _ := txn.CreateNode("PERSON", nil)
	b, _ := txn.CreateNode("PERSON", nil)
	e, err := txn.CreateEdge("KNOWS", a.ID, b.ID, nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	read := s.Txn()

	out, err := read.IncidentEdges(a.ID, Outgoing)
	require.NoError(t, err)
	require.True(t, out.Next())
	assert.Equal(t, e.ID, out.Edge().ID)
	assert.False(t, out.Next())

	in, err := read.IncidentEdges(b.ID, Incoming)
	require.NoError(t, err)
	require.True(t, in.Next())
	assert.Equal(t, e.ID, in.Edge().ID)
}

func TestWriteConflict(t *testing.T) {
	s := newTestStore(t)

	_, err := s.MutTxn()
	require.NoError(t, err)

	_, err = s.MutTxn()
	assert.Error(t, err)
}

func TestDeleteNodeWithEdgesFails(t *testing.T) {
	s := newTestStore(t)

	txn, err := s.MutTxn()
	require.NoError(t, err)

	a, _ := txn.CreateNode("PERSON", nil)
	b, _ := txn.CreateNode("PERSON", nil)
	_, err = txn.CreateEdge("KNOWS", a.ID, b.ID, nil)
	require.NoError(t, err)

	err = txn.DeleteNode(a.ID)
	assert.Error(t, err)
}

func TestDeleteNodeAfterEdgeRemoved(t *testing.T) {
	s := newTestStore(t)

	txn, err := s.MutTxn()
	require.NoError(t, err)

	a, _ := txn.CreateNode("PERSON", nil)
	b, _ := txn.CreateNode("PERSON", nil)
	e, err := txn.CreateEdge("KNOWS", a.ID, b.ID, nil)
	require.NoError(t, err)

	require.NoError(t, txn.DeleteEdge(e.ID))
	require.NoError(t, txn.DeleteNode(a.ID))
	require.NoError(t, txn.Commit())

	read := s.Txn()
	got, err := read.LoadNode(a.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestStore(t)

	before := s.Txn()

	txn, err := s.MutTxn()
	require.NoError(t, err)
	n, err := txn.CreateNode("PERSON", nil)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	got, err := before.LoadNode(n.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "a read txn opened before commit must not observe the write")

	after := s.Txn()
	got, err = after.LoadNode(n.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "a read txn opened after commit must observe the write")
}

func TestRollbackDiscardsStagedWrites(t *testing.T) {
	s := newTestStore(t)

	txn, err := s.MutTxn()
	require.NoError(t, err)
	n, err := txn.CreateNode("PERSON", nil)
	require.NoError(t, err)
	txn.Rollback()

	read := s.Txn()
	got, err := read.LoadNode(n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.MutTxn()
	assert.NoError(t, err, "rollback must release write exclusivity")
}

func TestNodesIteratorSeesCommittedAndStaged(t *testing.T) {
	s := newTestStore(t)

	txn, err := s.MutTxn()
	require.NoError(t, err)
	a, _ := txn.CreateNode("PERSON", nil)
	require.NoError(t, txn.Commit())

	txn2, err := s.MutTxn()
	require.NoError(t, err)
	b, err := txn2.CreateNode("PERSON", nil)
	require.NoError(t, err)

	var seen []uint64
	it := txn2.Nodes()
	for it.Next() {
		seen = append(seen, it.Node().ID)
	}
	require.NoError(t, it.Err())
	assert.ElementsMatch(t, []uint64{a.ID, b.ID}, seen)
}
