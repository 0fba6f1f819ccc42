/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vault

import "github.com/krotik/cqlite/model"

/*
NopVault is the default, unauthenticated Vault: it round-trips records
through their ordinary canonical encoding and never builds an
authentication tree. Graph.Open installs this unless WithVault is
given.
*/
type NopVault struct{}

/*
AuthNode implements Vault.
*/
func (NopVault) AuthNode(n *model.Node) ([]byte, error) {
	return model.EncodeNode(n), nil
}

/*
UnauthNode implements Vault.
*/
func (NopVault) UnauthNode(payload []byte) (*model.Node, error) {
	return model.DecodeNode(payload)
}

/*
AuthEdge implements Vault.
*/
func (NopVault) AuthEdge(e *model.Edge) ([]byte, error) {
	return model.EncodeEdge(e), nil
}

/*
UnauthEdge implements Vault.
*/
func (NopVault) UnauthEdge(payload []byte) (*model.Edge, error) {
	return model.DecodeEdge(payload)
}

/*
Signature implements Vault. A NopVault never has a signature.
*/
func (NopVault) Signature() ([]byte, bool) {
	return nil, false
}
