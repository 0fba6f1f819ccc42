/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package vault implements optional tamper-evident storage for the graph
store: every committed node and edge is hashed into a sparse Merkle
tree, so a single root hash attests to the full contents of the
database at any point in time.

A store with no vault installed persists records as model.EncodeNode /
model.EncodeEdge bytes directly. A store with a vault installed instead
persists whatever AuthNode/AuthEdge return, and recovers the original
record through UnauthNode/UnauthEdge, which also reject a payload whose
hash is no longer present in the tree.
*/
package vault

import "github.com/krotik/cqlite/model"

/*
Vault authenticates node and edge records on the way into and out of
storage.
*/
type Vault interface {
	/*
		AuthNode returns the bytes that should be persisted for n and
		records n's hash in the authentication tree.
	*/
	AuthNode(n *model.Node) ([]byte, error)

	/*
		UnauthNode recovers the Node previously passed to AuthNode from
		its persisted bytes, failing if the payload was tampered with.
	*/
	UnauthNode(payload []byte) (*model.Node, error)

	/*
		AuthEdge returns the bytes that should be persisted for e and
		records e's hash in the authentication tree.
	*/
	AuthEdge(e *model.Edge) ([]byte, error)

	/*
		UnauthEdge recovers the Edge previously passed to AuthEdge from
		its persisted bytes, failing if the payload was tampered with.
	*/
	UnauthEdge(payload []byte) (*model.Edge, error)

	/*
		Signature returns the current root hash of the authentication
		tree and whether any record has ever been authenticated. A
		database with no committed records has no signature.
	*/
	Signature() ([]byte, bool)
}
