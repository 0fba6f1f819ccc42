/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package kv

import (
	"github.com/dgraph-io/badger/v4"
)

/*
Badger is an Engine backed by a github.com/dgraph-io/badger/v4 instance.
It is the engine behind file-backed databases opened with Graph.Open,
grounded on orneryd/nornicdb's pkg/storage/badger_serialization.go - the
only repo in the retrieval pack that wires an embedded KV engine
directly into a graph store.
*/
type Badger struct {
	db *badger.DB
}

/*
OpenBadger opens (creating if necessary) a badger database rooted at
dir.
*/
func OpenBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Badger{db: db}, nil
}

/*
Get implements Engine.
*/
func (b *Badger) Get(key []byte) ([]byte, error) {
	var out []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})

	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	return out, err
}

/*
Set implements Engine.
*/
func (b *Badger) Set(key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

/*
Delete implements Engine.
*/
func (b *Badger) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

/*
Batch implements Engine, applying every op inside one badger
transaction so the set of writes is atomic: a flush at the store layer
either applies in full or not at all.
*/
func (b *Badger) Batch(ops []Op) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, op := range ops {
			switch op.Kind {
			case OpSet:
				if err := txn.Set(op.Key, op.Value); err != nil {
					return err
				}
			case OpDelete:
				if err := txn.Delete(op.Key); err != nil && err != badger.ErrKeyNotFound {
					return err
				}
			}
		}
		return nil
	})
}

/*
Close implements Engine.
*/
func (b *Badger) Close() error {
	return b.db.Close()
}

/*
NewIterator implements Engine. The returned Iterator owns a long-lived
read transaction which is discarded on Close.
*/
func (b *Badger) NewIterator(prefix []byte) Iterator {
	txn := b.db.NewTransaction(false)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	it.Seek(prefix)

	return &badgerIterator{txn: txn, it: it, prefix: prefix, started: false}
}

/*
Snapshot implements Snapshotter. The returned Engine pins one
read-only badger transaction for its whole lifetime, the same
mechanism NewIterator already uses for a single iterator - here held
open across however many Get/NewIterator calls the caller makes, so
they all see the database exactly as it stood at this call. Callers
must Close it once done to release the pinned transaction.
*/
func (b *Badger) Snapshot() Engine {
	return &badgerSnapshot{txn: b.db.NewTransaction(false)}
}

/*
badgerSnapshot is a read-only view over one held badger.Txn. Set,
Delete and Batch always fail: a snapshot only ever backs a read
transaction, which never calls them.
*/
type badgerSnapshot struct {
	txn *badger.Txn
}

func (s *badgerSnapshot) Get(key []byte) ([]byte, error) {
	item, err := s.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (s *badgerSnapshot) Set(key, value []byte) error {
	return errSnapshotReadOnly
}

func (s *badgerSnapshot) Delete(key []byte) error {
	return errSnapshotReadOnly
}

func (s *badgerSnapshot) Batch(ops []Op) error {
	return errSnapshotReadOnly
}

func (s *badgerSnapshot) NewIterator(prefix []byte) Iterator {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := s.txn.NewIterator(opts)
	it.Seek(prefix)

	return &badgerSnapshotIterator{it: it, prefix: prefix}
}

/*
Close discards the pinned transaction. It does not close the
underlying database.
*/
func (s *badgerSnapshot) Close() error {
	s.txn.Discard()
	return nil
}

/*
badgerSnapshotIterator is badgerIterator without txn ownership: the
transaction is shared with the snapshot's other calls and outlives any
one iterator.
*/
type badgerSnapshotIterator struct {
	it      *badger.Iterator
	prefix  []byte
	started bool
	key     []byte
	val     []byte
	err     error
}

func (bi *badgerSnapshotIterator) Next() bool {
	if bi.started {
		bi.it.Next()
	}
	bi.started = true

	if !bi.it.ValidForPrefix(bi.prefix) {
		return false
	}

	item := bi.it.Item()
	bi.key = item.KeyCopy(nil)

	val, err := item.ValueCopy(nil)
	if err != nil {
		bi.err = err
		return false
	}
	bi.val = val
	return true
}

func (bi *badgerSnapshotIterator) Key() []byte   { return bi.key }
func (bi *badgerSnapshotIterator) Value() []byte { return bi.val }
func (bi *badgerSnapshotIterator) Err() error    { return bi.err }
func (bi *badgerSnapshotIterator) Close() error {
	bi.it.Close()
	return nil
}

type badgerIterator struct {
	txn     *badger.Txn
	it      *badger.Iterator
	prefix  []byte
	started bool
	key     []byte
	val     []byte
	err     error
}

func (bi *badgerIterator) Next() bool {
	if bi.started {
		bi.it.Next()
	}
	bi.started = true

	if !bi.it.ValidForPrefix(bi.prefix) {
		return false
	}

	item := bi.it.Item()
	bi.key = item.KeyCopy(nil)

	val, err := item.ValueCopy(nil)
	if err != nil {
		bi.err = err
		return false
	}
	bi.val = val
	return true
}

func (bi *badgerIterator) Key() []byte   { return bi.key }
func (bi *badgerIterator) Value() []byte { return bi.val }
func (bi *badgerIterator) Err() error    { return bi.err }

func (bi *badgerIterator) Close() error {
	bi.it.Close()
	bi.txn.Discard()
	return nil
}
