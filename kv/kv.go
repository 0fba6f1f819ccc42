/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package kv is the raw byte persistence engine consumed by the store.

The underlying key-value storage engine is treated as an external
collaborator, specified only by the interface the core consumes. Engine
is that interface. Two implementations are provided: Memory (an
in-process map, used by anonymous databases and tests) and Badger (a
github.com/dgraph-io/badger/v4 instance, used by file-backed databases -
the concrete choice for the pack's only embedded-KV-backed graph store,
orneryd/nornicdb's pkg/storage).
*/
package kv

import "errors"

/*
ErrNotFound is returned by Get when no value is stored under the given
key.
*/
var ErrNotFound = errors.New("kv: key not found")

/*
errSnapshotReadOnly is returned by a Snapshotter's mutating methods.
A snapshot only ever backs a read transaction, which never writes.
*/
var errSnapshotReadOnly = errors.New("kv: snapshot is read-only")

/*
Engine is a minimal ordered byte-string store. All methods are safe for
concurrent use by multiple goroutines; Engine itself does not provide
transaction isolation beyond what the caller arranges via Batch or its
own locking - the store layer above is responsible for snapshot
isolation.
*/
type Engine interface {
	/*
		Get returns the value stored under key, or ErrNotFound.
	*/
	Get(key []byte) ([]byte, error)

	/*
		Set upserts a value under key.
	*/
	Set(key, value []byte) error

	/*
		Delete removes key, if present. Deleting a missing key is not an
		error.
	*/
	Delete(key []byte) error

	/*
		NewIterator returns an Iterator over all keys sharing the given
		prefix, in ascending byte order.
	*/
	NewIterator(prefix []byte) Iterator

	/*
		Batch atomically applies a set of writes.
	*/
	Batch(ops []Op) error

	/*
		Close releases any resource held by the engine.
	*/
	Close() error
}

/*
Snapshotter is implemented by an Engine that can hand out a
point-in-time view of its own committed state: Get and NewIterator on
the returned Engine keep reporting that instant's content no matter
what writes later land on the original. The store layer uses this to
give a read transaction snapshot isolation - pinning one Snapshot() at
Txn open instead of reading the live engine on every call.
*/
type Snapshotter interface {
	Snapshot() Engine
}

/*
OpKind discriminates an Op.
*/
type OpKind byte

const (
	OpSet OpKind = iota
	OpDelete
)

/*
Op is a single write within a Batch.
*/
type Op struct {
	Kind  OpKind
	Key   []byte
	Value []byte
}

/*
Iterator enumerates key/value pairs sharing a prefix. It is the
restartable-lazy-sequence shape the teacher's hash.HTreeIterator exposes
(HasNext/Next/LastError), adapted to iterate engine key ranges instead of
an on-disk hash tree.
*/
type Iterator interface {
	/*
		Next advances the iterator. It returns false once exhausted or on
		error; call Err to distinguish the two.
	*/
	Next() bool

	/*
		Key returns the current key. Only valid after Next returns true.
	*/
	Key() []byte

	/*
		Value returns the current value. Only valid after Next returns true.
	*/
	Value() []byte

	/*
		Err returns the first error encountered, if any.
	*/
	Err() error

	/*
		Close releases resources held by the iterator.
	*/
	Close() error
}
