/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package store implements the transactional graph store: keyed
persistence of nodes, edges and adjacency, backed by a kv.Engine and an
optional vault.Vault, with many-readers-one-writer transaction
semantics.

A read Txn pins a kv.Snapshotter snapshot of the engine the instant it
opens, so it is unaffected both by an in-flight write Txn's staged
overlay (which lives only in that Txn until Commit) and by any write
Txn that commits after the read Txn opened - every Get/scan a read Txn
makes answers as of that one instant.
*/
package store

import (
	"sync"

	"github.com/krotik/cqlite/kv"
	"github.com/krotik/cqlite/model"
	"github.com/krotik/cqlite/util"
	"github.com/krotik/cqlite/vault"
)

/*
AdjDirection selects which adjacency namespace incident_edges consults.
*/
type AdjDirection byte

const (
	Outgoing AdjDirection = iota
	Incoming
	Either
)

/*
Store is the transactional graph store. A single Store owns one engine
and, optionally, one vault.
*/
type Store struct {
	mu sync.Mutex

	engine kv.Engine
	vault  vault.Vault

	nextID    uint64
	writeLive bool
}

/*
Open creates a Store over engine, authenticating records through v (use
vault.NopVault{} for no authentication). It verifies or writes the
leading magic/version record and recovers the id sequence counter.
*/
func Open(engine kv.Engine, v vault.Vault) (*Store, error) {
	if v == nil {
		v = vault.NopVault{}
	}

	s := &Store{engine: engine, vault: v}

	existing, err := engine.Get(metaMagicKey)
	if err == kv.ErrNotFound {
		buf := append(append([]byte(nil), magic...), version)
		if err := engine.Set(metaMagicKey, buf); err != nil {
			return nil, util.NewStoreError("failed to write magic record", err)
		}
	} else if err != nil {
		return nil, util.NewStoreError("failed to read magic record", err)
	} else {
		if len(existing) != len(magic)+1 || string(existing[:len(magic)]) != string(magic) {
			return nil, util.NewStoreError("corrupt database: bad magic record", nil)
		}
		if existing[len(magic)] != version {
			return nil, util.NewStoreError("unsupported database version; migration is not supported", nil)
		}
	}

	seq, err := engine.Get(metaSeqKey)
	if err == kv.ErrNotFound {
		s.nextID = 0
	} else if err != nil {
		return nil, util.NewStoreError("failed to read id sequence", err)
	} else {
		s.nextID = decodeSeq(seq)
	}

	return s, nil
}

func decodeSeq(buf []byte) uint64 {
	var v uint64
	for _, b := range buf {
		v = v<<8 | uint64(b)
	}
	return v
}

func encodeSeq(v uint64) []byte {
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf
}

func (s *Store) allocID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id
}

/*
Txn opens a read transaction. Any number of read transactions may be
open concurrently, including while a write transaction is live. If the
underlying engine implements kv.Snapshotter, the transaction pins a
snapshot at open time; otherwise (an Engine with no such capability)
it falls back to reading the live engine, same as before.
*/
func (s *Store) Txn() *Txn {
	engine := s.engine
	if sn, ok := s.engine.(kv.Snapshotter); ok {
		engine = sn.Snapshot()
	}
	return &Txn{store: s, readonly: true, engine: engine}
}

/*
MutTxn opens a write transaction. Only one write transaction may be
live at a time; a second call before the first commits or rolls back
fails with a StoreError.
*/
func (s *Store) MutTxn() (*Txn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeLive {
		return nil, util.NewStoreError("write transaction already in progress", nil)
	}
	s.writeLive = true

	return &Txn{
		store:           s,
		readonly:        false,
		engine:          s.engine,
		stagedNodes:     make(map[uint64]*model.Node),
		stagedEdges:     make(map[uint64]*model.Edge),
		deletedNodes:    make(map[uint64]bool),
		deletedEdges:    make(map[uint64]bool),
		stagedOriginAdj: make(map[uint64][]uint64),
		stagedTargetAdj: make(map[uint64][]uint64),
	}, nil
}

func (s *Store) releaseWriter() {
	s.mu.Lock()
	s.writeLive = false
	s.mu.Unlock()
}

/*
Close releases the underlying engine. A vault's own backing engine is
not closed here.
*/
func (s *Store) Close() error {
	return s.engine.Close()
}
