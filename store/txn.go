/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package store

import (
	"github.com/krotik/cqlite/kv"
	"github.com/krotik/cqlite/model"
	"github.com/krotik/cqlite/util"
)

/*
Txn is both the read and the write transaction type: readonly tracks
its own mode, following the teacher's preference for one handle type
that knows what it is over two parallel types. A read Txn consults the
engine directly; a write Txn accumulates its mutations in an in-memory
overlay until Commit flushes them atomically.
*/
type Txn struct {
	store    *Store
	readonly bool
	done     bool

	// engine is what committedNode/committedEdge/committedAdj and the
	// Nodes()/Edges() scans read through: the store's live engine for a
	// write Txn, or a pinned point-in-time snapshot for a read Txn. See
	// Store.Txn.
	engine kv.Engine

	stagedNodes     map[uint64]*model.Node
	stagedEdges     map[uint64]*model.Edge
	deletedNodes    map[uint64]bool
	deletedEdges    map[uint64]bool
	stagedOriginAdj map[uint64][]uint64
	stagedTargetAdj map[uint64][]uint64

	stagedNodeOrder []uint64
	stagedEdgeOrder []uint64
}

func (t *Txn) requireWritable() error {
	if t.readonly {
		return util.NewRuntimeError("write attempted in a read transaction")
	}
	if t.done {
		return util.NewStoreError("transaction already committed or rolled back", nil)
	}
	return nil
}

func (t *Txn) committedNode(id uint64) (*model.Node, error) {
	payload, err := t.engine.Get(nodeKey(id))
	if err == kv.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, util.NewStoreError("failed to read node record", err)
	}
	n, err := t.store.vault.UnauthNode(payload)
	if err != nil {
		return nil, util.NewVaultError("failed to authenticate node record", err)
	}
	return n, nil
}

func (t *Txn) committedEdge(id uint64) (*model.Edge, error) {
	payload, err := t.engine.Get(edgeKey(id))
	if err == kv.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, util.NewStoreError("failed to read edge record", err)
	}
	e, err := t.store.vault.UnauthEdge(payload)
	if err != nil {
		return nil, util.NewVaultError("failed to authenticate edge record", err)
	}
	return e, nil
}

func (t *Txn) committedAdj(key []byte) ([]uint64, error) {
	v, err := t.engine.Get(key)
	if err == kv.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, util.NewStoreError("failed to read adjacency record", err)
	}
	return decodeIDSet(v), nil
}

func (t *Txn) originAdjOf(id uint64) ([]uint64, error) {
	if !t.readonly {
		if v, ok := t.stagedOriginAdj[id]; ok {
			return v, nil
		}
	}
	return t.committedAdj(originAdjKey(id))
}

func (t *Txn) targetAdjOf(id uint64) ([]uint64, error) {
	if !t.readonly {
		if v, ok := t.stagedTargetAdj[id]; ok {
			return v, nil
		}
	}
	return t.committedAdj(targetAdjKey(id))
}

/*
LoadNode returns the node stored under id, or nil if no such node
exists (deleted or never created).
*/
func (t *Txn) LoadNode(id uint64) (*model.Node, error) {
	if !t.readonly {
		if t.deletedNodes[id] {
			return nil, nil
		}
		if n, ok := t.stagedNodes[id]; ok {
			return n.Clone(), nil
		}
	}
	return t.committedNode(id)
}

/*
LoadEdge returns the edge stored under id, or nil if no such edge
exists.
*/
func (t *Txn) LoadEdge(id uint64) (*model.Edge, error) {
	if !t.readonly {
		if t.deletedEdges[id] {
			return nil, nil
		}
		if e, ok := t.stagedEdges[id]; ok {
			return e.Clone(), nil
		}
	}
	return t.committedEdge(id)
}

/*
CreateNode allocates a fresh id and stages a new node record.
*/
func (t *Txn) CreateNode(label string, props map[string]model.Property) (*model.Node, error) {
	if err := t.requireWritable(); err != nil {
		return nil, err
	}

	id := t.store.allocID()
	n := model.NewNode(id, label)
	for k, v := range props {
		n.SetProperty(k, v)
	}

	t.stagedNodes[id] = n
	t.stagedNodeOrder = append(t.stagedNodeOrder, id)

	return n.Clone(), nil
}

/*
CreateEdge validates that origin and target exist (staged or
committed), allocates a fresh id, stages the edge record and updates
both adjacency overlays.
*/
func (t *Txn) CreateEdge(label string, origin, target uint64, props map[string]model.Property) (*model.Edge, error) {
	if err := t.requireWritable(); err != nil {
		return nil, err
	}

	originNode, err := t.LoadNode(origin)
	if err != nil {
		return nil, err
	}
	if originNode == nil {
		return nil, util.NewStoreError("edge origin node does not exist", nil)
	}

	targetNode, err := t.LoadNode(target)
	if err != nil {
		return nil, err
	}
	if targetNode == nil {
		return nil, util.NewStoreError("edge target node does not exist", nil)
	}

	id := t.store.allocID()
	e := model.NewEdge(id, label, origin, target)
	for k, v := range props {
		e.SetProperty(k, v)
	}

	t.stagedEdges[id] = e
	t.stagedEdgeOrder = append(t.stagedEdgeOrder, id)

	originAdj, err := t.originAdjOf(origin)
	if err != nil {
		return nil, err
	}
	t.stagedOriginAdj[origin] = appendID(originAdj, id)

	targetAdj, err := t.targetAdjOf(target)
	if err != nil {
		return nil, err
	}
	t.stagedTargetAdj[target] = appendID(targetAdj, id)

	return e.Clone(), nil
}

/*
UpdateNode upserts a single property on an existing node.
*/
func (t *Txn) UpdateNode(id uint64, key string, value model.Property) error {
	if err := t.requireWritable(); err != nil {
		return err
	}

	n, err := t.LoadNode(id)
	if err != nil {
		return err
	}
	if n == nil {
		return util.NewStoreError("update of nonexistent node", nil)
	}

	n.SetProperty(key, value)
	t.stagedNodes[id] = n
	return nil
}

/*
UpdateEdge upserts a single property on an existing edge.
*/
func (t *Txn) UpdateEdge(id uint64, key string, value model.Property) error {
	if err := t.requireWritable(); err != nil {
		return err
	}

	e, err := t.LoadEdge(id)
	if err != nil {
		return err
	}
	if e == nil {
		return util.NewStoreError("update of nonexistent edge", nil)
	}

	e.SetProperty(key, value)
	t.stagedEdges[id] = e
	return nil
}

/*
DeleteEdge removes an edge record and its two adjacency entries.
*/
func (t *Txn) DeleteEdge(id uint64) error {
	if err := t.requireWritable(); err != nil {
		return err
	}

	e, err := t.LoadEdge(id)
	if err != nil {
		return err
	}
	if e == nil {
		return util.NewStoreError("delete of nonexistent edge", nil)
	}

	originAdj, err := t.originAdjOf(e.Origin)
	if err != nil {
		return err
	}
	t.stagedOriginAdj[e.Origin] = removeID(append([]uint64(nil), originAdj...), id)

	targetAdj, err := t.targetAdjOf(e.Target)
	if err != nil {
		return err
	}
	t.stagedTargetAdj[e.Target] = removeID(append([]uint64(nil), targetAdj...), id)

	t.deletedEdges[id] = true
	delete(t.stagedEdges, id)

	return nil
}

/*
DeleteNode removes a node record. It fails with a StoreError if any
edge still references the node as origin or target.
*/
func (t *Txn) DeleteNode(id uint64) error {
	if err := t.requireWritable(); err != nil {
		return err
	}

	n, err := t.LoadNode(id)
	if err != nil {
		return err
	}
	if n == nil {
		return util.NewStoreError("delete of nonexistent node", nil)
	}

	originAdj, err := t.originAdjOf(id)
	if err != nil {
		return err
	}
	targetAdj, err := t.targetAdjOf(id)
	if err != nil {
		return err
	}
	if len(originAdj) > 0 || len(targetAdj) > 0 {
		return util.NewStoreError("cannot delete node with incident edges", nil)
	}

	t.deletedNodes[id] = true
	delete(t.stagedNodes, id)

	return nil
}

/*
Commit flushes every staged mutation to the engine atomically, persists
the id sequence counter, and releases write exclusivity. Commit on a
read transaction is a no-op.
*/
func (t *Txn) Commit() error {
	if t.readonly {
		t.done = true
		t.releaseSnapshot()
		return nil
	}
	if t.done {
		return util.NewStoreError("transaction already committed or rolled back", nil)
	}

	var ops []kv.Op

	for _, id := range t.stagedNodeOrder {
		if t.deletedNodes[id] {
			continue
		}
		n := t.stagedNodes[id]
		payload, err := t.store.vault.AuthNode(n)
		if err != nil {
			return util.NewVaultError("failed to authenticate node record", err)
		}
		ops = append(ops, kv.Op{Kind: kv.OpSet, Key: nodeKey(id), Value: payload})
	}
	for id, n := range t.stagedNodes {
		if containsID(t.stagedNodeOrder, id) || t.deletedNodes[id] {
			continue
		}
		payload, err := t.store.vault.AuthNode(n)
		if err != nil {
			return util.NewVaultError("failed to authenticate node record", err)
		}
		ops = append(ops, kv.Op{Kind: kv.OpSet, Key: nodeKey(id), Value: payload})
	}
	for id := range t.deletedNodes {
		ops = append(ops, kv.Op{Kind: kv.OpDelete, Key: nodeKey(id)})
	}

	for _, id := range t.stagedEdgeOrder {
		if t.deletedEdges[id] {
			continue
		}
		e := t.stagedEdges[id]
		payload, err := t.store.vault.AuthEdge(e)
		if err != nil {
			return util.NewVaultError("failed to authenticate edge record", err)
		}
		ops = append(ops, kv.Op{Kind: kv.OpSet, Key: edgeKey(id), Value: payload})
	}
	for id, e := range t.stagedEdges {
		if containsID(t.stagedEdgeOrder, id) || t.deletedEdges[id] {
			continue
		}
		payload, err := t.store.vault.AuthEdge(e)
		if err != nil {
			return util.NewVaultError("failed to authenticate edge record", err)
		}
		ops = append(ops, kv.Op{Kind: kv.OpSet, Key: edgeKey(id), Value: payload})
	}
	for id := range t.deletedEdges {
		ops = append(ops, kv.Op{Kind: kv.OpDelete, Key: edgeKey(id)})
	}

	for id, adj := range t.stagedOriginAdj {
		if len(adj) == 0 {
			ops = append(ops, kv.Op{Kind: kv.OpDelete, Key: originAdjKey(id)})
		} else {
			ops = append(ops, kv.Op{Kind: kv.OpSet, Key: originAdjKey(id), Value: encodeIDSet(adj)})
		}
	}
	for id, adj := range t.stagedTargetAdj {
		if len(adj) == 0 {
			ops = append(ops, kv.Op{Kind: kv.OpDelete, Key: targetAdjKey(id)})
		} else {
			ops = append(ops, kv.Op{Kind: kv.OpSet, Key: targetAdjKey(id), Value: encodeIDSet(adj)})
		}
	}

	ops = append(ops, kv.Op{Kind: kv.OpSet, Key: metaSeqKey, Value: encodeSeq(t.store.nextID)})

	if err := t.store.engine.Batch(ops); err != nil {
		return util.NewStoreError("flush failed", err)
	}

	t.done = true
	t.store.releaseWriter()

	return nil
}

/*
Rollback discards every staged mutation without touching the engine.
It is always safe to call, including after Commit (a no-op then).
*/
func (t *Txn) Rollback() {
	if t.done || t.readonly {
		wasDone := t.done
		t.done = true
		if !wasDone {
			t.releaseSnapshot()
		}
		return
	}
	t.done = true
	t.store.releaseWriter()
}

/*
releaseSnapshot discards a read Txn's pinned engine snapshot, if the
underlying engine pins one via a real resource (a held badger.Txn,
say). A fallback live-engine read (no Snapshotter support) or a write
Txn's own engine (the store's, shared and outliving this Txn) must
never be closed here.
*/
func (t *Txn) releaseSnapshot() {
	if !t.readonly || t.engine == nil || t.engine == t.store.engine {
		return
	}
	t.engine.Close()
}
