/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vault

import (
	"crypto/sha256"

	"github.com/krotik/cqlite/kv"
)

/*
Hasher computes a cryptographic digest of a byte slice. It defaults to
crypto/sha256.Sum256 - the idiomatic stdlib choice for content hashing
when no ecosystem library in the retrieval pack specializes in Merkle
proofs (conceptually grounded on the binary-keyed trie construction in
ethereum/go-ethereum's eth/protocols/snap gentrie, reimplemented here in
the teacher's plainer, non-concurrent style since only a minimal
attested-signature primitive is needed here, not a full state trie).
*/
type Hasher func([]byte) [32]byte

/*
DefaultHasher is crypto/sha256.Sum256.
*/
func DefaultHasher(b []byte) [32]byte {
	return sha256.Sum256(b)
}

const treeDepth = 256

/*
sparseMerkleTree is a 256-level sparse Merkle tree over a Hasher's output
space, keyed by record hash. Internal nodes are addressed by (depth,
path-prefix) so that two keys sharing a path prefix resolve to the same
stored node; only the path from an inserted leaf up to the root ever
touches storage, the rest of the (conceptually enormous) tree is implied
by a precomputed "empty subtree" hash per level.
*/
type sparseMerkleTree struct {
	engine kv.Engine
	hasher Hasher
	empty  [treeDepth + 1][32]byte // empty[d]: hash of an empty subtree rooted at depth d
	root   [32]byte
	count  uint64 // number of leaves ever inserted; 0 means "no signature yet"
}

var rootStorageKey = []byte("merkle:root")
var countStorageKey = []byte("merkle:count")

func newSparseMerkleTree(engine kv.Engine, hasher Hasher) (*sparseMerkleTree, error) {
	t := &sparseMerkleTree{engine: engine, hasher: hasher}

	t.empty[treeDepth] = [32]byte{} // zero leaf
	for d := treeDepth - 1; d >= 0; d-- {
		t.empty[d] = t.hasher(concat(t.empty[d+1], t.empty[d+1]))
	}
	t.root = t.empty[0]

	if v, err := engine.Get(rootStorageKey); err == nil {
		copy(t.root[:], v)
	} else if err != kv.ErrNotFound {
		return nil, err
	}

	if v, err := engine.Get(countStorageKey); err == nil {
		t.count = decodeCount(v)
	} else if err != kv.ErrNotFound {
		return nil, err
	}

	return t, nil
}

func concat(a, b [32]byte) []byte {
	out := make([]byte, 64)
	copy(out[:32], a[:])
	copy(out[32:], b[:])
	return out
}

func decodeCount(v []byte) uint64 {
	var n uint64
	for _, b := range v {
		n = n<<8 | uint64(b)
	}
	return n
}

func encodeCount(n uint64) []byte {
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	return buf
}

func bitAt(key [32]byte, depth int) byte {
	byteIdx := depth / 8
	bitIdx := 7 - uint(depth%8)
	return (key[byteIdx] >> bitIdx) & 1
}

func withBit(key [32]byte, depth int, bit byte) [32]byte {
	out := key
	byteIdx := depth / 8
	bitIdx := 7 - uint(depth%8)
	if bit != 0 {
		out[byteIdx] |= 1 << bitIdx
	} else {
		out[byteIdx] &^= 1 << bitIdx
	}
	return out
}

// truncate zeroes every bit at position >= depth, collapsing all keys
// that share the first `depth` bits onto the same node address.
func truncate(key [32]byte, depth int) [32]byte {
	out := key
	fullBytes := depth / 8
	remBits := depth % 8
	if remBits != 0 {
		mask := byte(0xFF << uint(8-remBits))
		out[fullBytes] &= mask
		fullBytes++
	}
	for i := fullBytes; i < 32; i++ {
		out[i] = 0
	}
	return out
}

func nodeStorageKey(depth int, prefix [32]byte) []byte {
	key := make([]byte, 2+32)
	key[0] = byte(depth >> 8)
	key[1] = byte(depth)
	copy(key[2:], prefix[:])
	return key
}

func (t *sparseMerkleTree) getNode(depth int, prefix [32]byte) ([32]byte, error) {
	v, err := t.engine.Get(nodeStorageKey(depth, prefix))
	if err == kv.ErrNotFound {
		return t.empty[depth], nil
	}
	if err != nil {
		return [32]byte{}, err
	}
	var h [32]byte
	copy(h[:], v)
	return h, nil
}

func (t *sparseMerkleTree) setNode(depth int, prefix [32]byte, h [32]byte) error {
	return t.engine.Set(nodeStorageKey(depth, prefix), h[:])
}

/*
Insert adds the (key, value) pair as a leaf - the reference vault
always inserts (hash, hash), i.e. key == value - and recomputes the
root. It returns the new root.
*/
func (t *sparseMerkleTree) Insert(key, value [32]byte) ([32]byte, error) {
	siblings := make([][32]byte, treeDepth)

	for d := 0; d < treeDepth; d++ {
		bit := bitAt(key, d)
		siblingPrefix := truncate(withBit(key, d, 1-bit), d+1)
		s, err := t.getNode(d+1, siblingPrefix)
		if err != nil {
			return [32]byte{}, err
		}
		siblings[d] = s
	}

	cur := value
	if err := t.setNode(treeDepth, key, cur); err != nil {
		return [32]byte{}, err
	}

	for d := treeDepth - 1; d >= 0; d-- {
		bit := bitAt(key, d)

		var left, right [32]byte
		if bit == 0 {
			left, right = cur, siblings[d]
		} else {
			left, right = siblings[d], cur
		}

		cur = t.hasher(concat(left, right))

		prefix := truncate(key, d)
		if err := t.setNode(d, prefix, cur); err != nil {
			return [32]byte{}, err
		}
	}

	t.root = cur
	t.count++

	if err := t.engine.Set(rootStorageKey, t.root[:]); err != nil {
		return [32]byte{}, err
	}
	if err := t.engine.Set(countStorageKey, encodeCount(t.count)); err != nil {
		return [32]byte{}, err
	}

	return t.root, nil
}

/*
Contains reports whether key was ever inserted with the given value as
its leaf (used by UnauthNode/UnauthEdge to detect tampering: a payload
whose hash is absent from the tree was not produced by this vault).
*/
func (t *sparseMerkleTree) Contains(key, value [32]byte) (bool, error) {
	v, err := t.getNode(treeDepth, key)
	if err != nil {
		return false, err
	}
	return v == value, nil
}

/*
Root returns the current root hash and whether any leaf has ever been
inserted.
*/
func (t *sparseMerkleTree) Root() ([32]byte, bool) {
	return t.root, t.count > 0
}
