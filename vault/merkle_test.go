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
)

func TestSparseMerkleTreeEmptyRoot(t *testing.T) {
	engine := kv.NewMemory()
	tree, err := newSparseMerkleTree(engine, DefaultHasher)
	require.NoError(t, err)

	root, ok := tree.Root()
	assert.False(t, ok)
	assert.Equal(t, tree.empty[0], root)
}

func TestSparseMerkleTreeInsertChangesRoot(t *testing.T) {
	engine := kv.NewMemory()
	tree, err := newSparseMerkleTree(engine, DefaultHasher)
	require.NoError(t, err)

	before, _ := tree.Root()

	h := DefaultHasher([]byte("hello"))
	after, err := tree.Insert(h, h)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)

	root, ok := tree.Root()
	assert.True(t, ok)
	assert.Equal(t, after, root)
}

func TestSparseMerkleTreeContains(t *testing.T) {
	engine := kv.NewMemory()
	tree, err := newSparseMerkleTree(engine, DefaultHasher)
	require.NoError(t, err)

	present := DefaultHasher([]byte("present"))
	absent := DefaultHasher([]byte("absent"))

	_, err = tree.Insert(present, present)
	require.NoError(t, err)

	ok, err := tree.Contains(present, present)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tree.Contains(absent, absent)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSparseMerkleTreeDeterministic(t *testing.T) {
	keys := [][]byte{[]byte("a"), []byte("b"), []byte("c"), []byte("d")}

	build := func() [32]byte {
		engine := kv.NewMemory()
		tree, err := newSparseMerkleTree(engine, DefaultHasher)
		require.NoError(t, err)
		for _, k := range keys {
			h := DefaultHasher(k)
			if _, err := tree.Insert(h, h); err != nil {
				t.Fatal(err)
			}
		}
		root, _ := tree.Root()
		return root
	}

	r1 := build()
	r2 := build()
	assert.Equal(t, r1, r2)
}

func TestSparseMerkleTreePersistsAcrossReopen(t *testing.T) {
	engine := kv.NewMemory()

	tree, err := newSparseMerkleTree(engine, DefaultHasher)
	require.NoError(t, err)

	h := DefaultHasher([]byte("persisted"))
	want, err := tree.Insert(h, h)
	require.NoError(t, err)

	reopened, err := newSparseMerkleTree(engine, DefaultHasher)
	require.NoError(t, err)

	got, ok := reopened.Root()
	assert.True(t, ok)
	assert.Equal(t, want, got)

	present, err := reopened.Contains(h, h)
	require.NoError(t, err)
	assert.True(t, present)
}

func TestBitAtAndWithBit(t *testing.T) {
	var key [32]byte
	key[0] = 0x80 // top bit set

	assert.Equal(t, byte(1), bitAt(key, 0))
	assert.Equal(t, byte(0), bitAt(key, 1))

	flipped := withBit(key, 1, 1)
	assert.Equal(t, byte(1), bitAt(flipped, 1))
	assert.Equal(t, byte(1), bitAt(flipped, 0), "withBit must not disturb other bits")
}

func TestTruncateZeroesTrailingBits(t *testing.T) {
	var key [32]byte
	for i := range key {
		key[i] = 0xFF
	}

	truncated := truncate(key, 4)
	assert.Equal(t, byte(0xF0), truncated[0])
	for i := 1; i < 32; i++ {
		assert.Equal(t, byte(0), truncated[i])
	}
}
