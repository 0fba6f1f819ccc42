/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package cqlite

import "github.com/krotik/cqlite/store"

/*
Txn wraps a store transaction. Nothing happens when one is dropped: a
write Txn holds the store's single writer slot until Commit or Rollback
is called on it.
*/
type Txn struct {
	inner *store.Txn
}

/*
Commit flushes a write transaction; a no-op for a read transaction.
*/
func (t *Txn) Commit() error {
	return t.inner.Commit()
}

/*
Rollback discards a write transaction's staged mutations. Always safe
to call, including after Commit.
*/
func (t *Txn) Rollback() {
	t.inner.Rollback()
}
