/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krotik/cqlite/kv"
	"github.com/krotik/cqlite/model"
)

func newTestNode() *model.Node {
	n := model.NewNode(1, "Person")
	n.SetProperty("name", model.Text("Alice"))
	n.SetProperty("age", model.Int(30))
	return n
}

func newTestEdge() *model.Edge {
	e := model.NewEdge(2, "knows", 1, 3)
	e.SetProperty("since", model.Int(2020))
	return e
}

func TestNopVaultRoundTrip(t *testing.T) {
	v := NopVault{}

	n := newTestNode()
	payload, err := v.AuthNode(n)
	require.NoError(t, err)

	got, err := v.UnauthNode(payload)
	require.NoError(t, err)
	assert.True(t, got.Property("name").Equal(n.Property("name")))

	_, ok := v.Signature()
	assert.False(t, ok)
}

func TestDefaultVaultAuthenticatesNodesAndEdges(t *testing.T) {
	v, err := NewDefaultVault(kv.NewMemory(), nil)
	require.NoError(t, err)

	n := newTestNode()
	nodePayload, err := v.AuthNode(n)
	require.NoError(t, err)

	gotNode, err := v.UnauthNode(nodePayload)
	require.NoError(t, err)
	assert.Equal(t, n.ID, gotNode.ID)
	assert.True(t, gotNode.Property("age").Equal(model.Int(30)))

	e := newTestEdge()
	edgePayload, err := v.AuthEdge(e)
	require.NoError(t, err)

	gotEdge, err := v.UnauthEdge(edgePayload)
	require.NoError(t, err)
	assert.Equal(t, e.Origin, gotEdge.Origin)
	assert.Equal(t, e.Target, gotEdge.Target)

	sig, ok := v.Signature()
	assert.True(t, ok)
	assert.Len(t, sig, 32)
}

func TestDefaultVaultRejectsTamperedPayload(t *testing.T) {
	v, err := NewDefaultVault(kv.NewMemory(), nil)
	require.NoError(t, err)

	payload, err := v.AuthNode(newTestNode())
	require.NoError(t, err)

	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = v.UnauthNode(tampered)
	assert.ErrorIs(t, err, ErrTampered)
}

func TestDefaultVaultSignatureChangesPerRecord(t *testing.T) {
	v, err := NewDefaultVault(kv.NewMemory(), nil)
	require.NoError(t, err)

	_, ok := v.Signature()
	assert.False(t, ok, "a vault with no authenticated records has no signature")

	_, err = v.AuthNode(newTestNode())
	require.NoError(t, err)
	sig1, ok := v.Signature()
	require.True(t, ok)

	second := model.NewNode(2, "Person")
	second.SetProperty("name", model.Text("Bob"))
	_, err = v.AuthNode(second)
	require.NoError(t, err)
	sig2, ok := v.Signature()
	require.True(t, ok)

	assert.NotEqual(t, sig1, sig2)
}
