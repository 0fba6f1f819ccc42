/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateThenMatchRoundTrip(t *testing.T) {
	g, err := OpenAnon()
	require.NoError(t, err)
	defer g.Close()

	create, err := g.Prepare("CREATE (a:PERSON{name:'Alice'})")
	require.NoError(t, err)

	wtxn, err := g.MutTxn()
	require.NoError(t, err)
	require.NoError(t, create.Execute(wtxn, nil))
	require.NoError(t, wtxn.Commit())

	match, err := g.Prepare("MATCH (x:PERSON) RETURN x, x.name")
	require.NoError(t, err)

	rtxn := g.Txn()
	q := match.Query(rtxn, nil)

	m, ok, err := q.Step()
	require.NoError(t, err)
	require.True(t, ok)

	n, err := m.Node(0)
	require.NoError(t, err)
	assert.Equal(t, "PERSON", n.Label)

	name, err := m.Text(1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	_, ok, err = q.Step()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDirectedMatchYieldsBothEdges(t *testing.T) {
	g, err := OpenAnon()
	require.NoError(t, err)
	defer g.Close()

	setup, err := g.Prepare("CREATE (a:PERSON_A)-[:KNOWS]->(b:PERSON_B)")
	require.NoError(t, err)
	wtxn, err := g.MutTxn()
	require.NoError(t, err)
	require.NoError(t, setup.Execute(wtxn, nil))
	require.NoError(t, wtxn.Commit())

	setup2, err := g.Prepare("MATCH (a:PERSON_A) MATCH (b:PERSON_B) CREATE (b)-[:KNOWS]->(a)")
	require.NoError(t, err)
	wtxn2, err := g.MutTxn()
	require.NoError(t, err)
	require.NoError(t, setup2.Execute(wtxn2, nil))
	require.NoError(t, wtxn2.Commit())

	q, err := g.Prepare("MATCH (x)-[e]->(y) RETURN x,y,e")
	require.NoError(t, err)

	rtxn := g.Txn()
	query := q.Query(rtxn, nil)

	count := 0
	for {
		_, ok, err := query.Step()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	assert.Equal(t, 2, count)
}

func TestSetThenReadBackByID(t *testing.T) {
	g, err := OpenAnon()
	require.NoError(t, err)
	defer g.Close()

	create, err := g.Prepare("CREATE (a:PERSON)")
	require.NoError(t, err)
	wtxn, err := g.MutTxn()
	require.NoError(t, err)
	require.NoError(t, create.Execute(wtxn, nil))
	require.NoError(t, wtxn.Commit())

	set, err := g.Prepare("MATCH (x:PERSON) SET x.answer = 42")
	require.NoError(t, err)
	wtxn2, err := g.MutTxn()
	require.NoError(t, err)
	require.NoError(t, set.Execute(wtxn2, nil))
	require.NoError(t, wtxn2.Commit())

	read, err := g.Prepare("MATCH (x) WHERE ID(x) = 0 RETURN x")
	require.NoError(t, err)
	rtxn := g.Txn()
	q := read.Query(rtxn, nil)
	m, ok, err := q.Step()
	require.NoError(t, err)
	require.True(t, ok)

	n, err := m.Node(0)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n.Property("answer").AsInt())
}

func TestWriteInReadTxnIsRuntimeError(t *testing.T) {
	g, err := OpenAnon()
	require.NoError(t, err)
	defer g.Close()

	create, err := g.Prepare("CREATE (a:PERSON)")
	require.NoError(t, err)

	rtxn := g.Txn()
	err = create.Execute(rtxn, nil)
	require.Error(t, err)

	cqErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, RuntimeErrorKind, cqErr.Kind)
}

func TestVaultedGraphProducesSignature(t *testing.T) {
	g, err := OpenAnon(WithVault())
	require.NoError(t, err)
	defer g.Close()

	create, err := g.Prepare("CREATE (a:PERSON)")
	require.NoError(t, err)
	wtxn, err := g.MutTxn()
	require.NoError(t, err)
	require.NoError(t, create.Execute(wtxn, nil))
	require.NoError(t, wtxn.Commit())

	sig, ok := g.Signature()
	require.True(t, ok)
	assert.NotEmpty(t, sig)
}
