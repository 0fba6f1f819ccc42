/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vault

import (
	"errors"

	"github.com/krotik/cqlite/kv"
	"github.com/krotik/cqlite/model"
)

/*
ErrTampered is returned by UnauthNode/UnauthEdge when a payload's hash
is no longer a member of the authentication tree.
*/
var ErrTampered = errors.New("vault: record hash not found in authentication tree")

/*
DefaultVault is the reference Vault: it persists records in their
ordinary canonical encoding (model.EncodeNode/model.EncodeEdge) and
separately maintains a sparse Merkle tree, keyed by record hash, in a
second kv.Engine - typically one rooted at a "<path>.merkle" sibling
directory next to the database's own engine, so authentication state
survives process restarts independently of the graph data itself.
*/
type DefaultVault struct {
	tree   *sparseMerkleTree
	hasher Hasher
}

/*
NewDefaultVault creates a DefaultVault whose authentication tree is
persisted in engine. hasher defaults to DefaultHasher when nil.
*/
func NewDefaultVault(engine kv.Engine, hasher Hasher) (*DefaultVault, error) {
	if hasher == nil {
		hasher = DefaultHasher
	}

	tree, err := newSparseMerkleTree(engine, hasher)
	if err != nil {
		return nil, err
	}

	return &DefaultVault{tree: tree, hasher: hasher}, nil
}

func (v *DefaultVault) auth(payload []byte) ([]byte, error) {
	h := v.hasher(payload)
	if _, err := v.tree.Insert(h, h); err != nil {
		return nil, err
	}
	return payload, nil
}

func (v *DefaultVault) unauth(payload []byte) error {
	h := v.hasher(payload)
	ok, err := v.tree.Contains(h, h)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTampered
	}
	return nil
}

/*
AuthNode implements Vault.
*/
func (v *DefaultVault) AuthNode(n *model.Node) ([]byte, error) {
	return v.auth(model.EncodeNode(n))
}

/*
UnauthNode implements Vault.
*/
func (v *DefaultVault) UnauthNode(payload []byte) (*model.Node, error) {
	if err := v.unauth(payload); err != nil {
		return nil, err
	}
	return model.DecodeNode(payload)
}

/*
AuthEdge implements Vault.
*/
func (v *DefaultVault) AuthEdge(e *model.Edge) ([]byte, error) {
	return v.auth(model.EncodeEdge(e))
}

/*
UnauthEdge implements Vault.
*/
func (v *DefaultVault) UnauthEdge(payload []byte) (*model.Edge, error) {
	if err := v.unauth(payload); err != nil {
		return nil, err
	}
	return model.DecodeEdge(payload)
}

/*
Signature implements Vault.
*/
func (v *DefaultVault) Signature() ([]byte, bool) {
	root, ok := v.tree.Root()
	if !ok {
		return nil, false
	}
	out := make([]byte, 32)
	copy(out, root[:])
	return out, true
}
