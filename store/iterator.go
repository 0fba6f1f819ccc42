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
NodeIter is a restartable lazy sequence of nodes, the shape the virtual
machine's LoadAnyNode step consumes. It enumerates committed records
first (honoring staged overrides and deletions), then any brand new
nodes staged by the owning write Txn - new ids are never already
present in the engine, so the two phases never overlap.
*/
type NodeIter struct {
	txn        *Txn
	engineIter kv.Iterator
	phase      int
	stagedIdx  int
	cur        *model.Node
	err        error
}

/*
Nodes returns a NodeIter over every node visible to this transaction.
*/
func (t *Txn) Nodes() *NodeIter {
	return &NodeIter{txn: t}
}

func (it *NodeIter) Next() bool {
	for {
		if it.phase == 0 {
			if it.engineIter == nil {
				it.engineIter = it.txn.engine.NewIterator([]byte{nsNode})
			}
			if it.engineIter.Next() {
				id := idFromKey(it.engineIter.Key())
				if !it.txn.readonly && it.txn.deletedNodes[id] {
					continue
				}
				if !it.txn.readonly {
					if n, ok := it.txn.stagedNodes[id]; ok {
						it.cur = n.Clone()
						return true
					}
				}
				n, err := it.txn.store.vault.UnauthNode(it.engineIter.Value())
				if err != nil {
					it.err = util.NewVaultError("failed to authenticate node record", err)
					return false
				}
				it.cur = n
				return true
			}
			if err := it.engineIter.Err(); err != nil {
				it.err = util.NewStoreError("node scan failed", err)
				it.engineIter.Close()
				return false
			}
			it.engineIter.Close()
			it.phase = 1
			continue
		}

		if it.txn.readonly {
			return false
		}
		for it.stagedIdx < len(it.txn.stagedNodeOrder) {
			id := it.txn.stagedNodeOrder[it.stagedIdx]
			it.stagedIdx++
			if it.txn.deletedNodes[id] {
				continue
			}
			it.cur = it.txn.stagedNodes[id].Clone()
			return true
		}
		return false
	}
}

func (it *NodeIter) Node() *model.Node { return it.cur }
func (it *NodeIter) Err() error        { return it.err }
func (it *NodeIter) Close() error {
	if it.engineIter != nil {
		return it.engineIter.Close()
	}
	return nil
}

/*
EdgeIter is the edge analogue of NodeIter.
*/
type EdgeIter struct {
	txn        *Txn
	engineIter kv.Iterator
	phase      int
	stagedIdx  int
	cur        *model.Edge
	err        error
}

/*
Edges returns an EdgeIter over every edge visible to this transaction.
*/
func (t *Txn) Edges() *EdgeIter {
	return &EdgeIter{txn: t}
}

func (it *EdgeIter) Next() bool {
	for {
		if it.phase == 0 {
			if it.engineIter == nil {
				it.engineIter = it.txn.engine.NewIterator([]byte{nsEdge})
			}
			if it.engineIter.Next() {
				id := idFromKey(it.engineIter.Key())
				if !it.txn.readonly && it.txn.deletedEdges[id] {
					continue
				}
				if !it.txn.readonly {
					if e, ok := it.txn.stagedEdges[id]; ok {
						it.cur = e.Clone()
						return true
					}
				}
				e, err := it.txn.store.vault.UnauthEdge(it.engineIter.Value())
				if err != nil {
					it.err = util.NewVaultError("failed to authenticate edge record", err)
					return false
				}
				it.cur = e
				return true
			}
			if err := it.engineIter.Err(); err != nil {
				it.err = util.NewStoreError("edge scan failed", err)
				it.engineIter.Close()
				return false
			}
			it.engineIter.Close()
			it.phase = 1
			continue
		}

		if it.txn.readonly {
			return false
		}
		for it.stagedIdx < len(it.txn.stagedEdgeOrder) {
			id := it.txn.stagedEdgeOrder[it.stagedIdx]
			it.stagedIdx++
			if it.txn.deletedEdges[id] {
				continue
			}
			it.cur = it.txn.stagedEdges[id].Clone()
			return true
		}
		return false
	}
}

func (it *EdgeIter) Edge() *model.Edge { return it.cur }
func (it *EdgeIter) Err() error        { return it.err }
func (it *EdgeIter) Close() error {
	if it.engineIter != nil {
		return it.engineIter.Close()
	}
	return nil
}

/*
IncidentIter enumerates the edges incident to a node in a given
AdjDirection, in the order they were attached.
*/
type IncidentIter struct {
	ids []uint64
	idx int
	txn *Txn
	cur *model.Edge
	err error
}

/*
IncidentEdges returns an IncidentIter over the edges incident to nodeID
in the given direction.
*/
func (t *Txn) IncidentEdges(nodeID uint64, dir AdjDirection) (*IncidentIter, error) {
	var ids []uint64

	switch dir {
	case Outgoing:
		o, err := t.originAdjOf(nodeID)
		if err != nil {
			return nil, err
		}
		ids = o
	case Incoming:
		tg, err := t.targetAdjOf(nodeID)
		if err != nil {
			return nil, err
		}
		ids = tg
	case Either:
		o, err := t.originAdjOf(nodeID)
		if err != nil {
			return nil, err
		}
		tg, err := t.targetAdjOf(nodeID)
		if err != nil {
			return nil, err
		}
		ids = append(append([]uint64(nil), o...), tg...)
	}

	return &IncidentIter{ids: ids, txn: t}, nil
}

func (it *IncidentIter) Next() bool {
	for it.idx < len(it.ids) {
		id := it.ids[it.idx]
		it.idx++

		e, err := it.txn.LoadEdge(id)
		if err != nil {
			it.err = err
			return false
		}
		if e == nil {
			continue
		}
		it.cur = e
		return true
	}
	return false
}

func (it *IncidentIter) Edge() *model.Edge { return it.cur }
func (it *IncidentIter) Err() error        { return it.err }
func (it *IncidentIter) Close() error      { return nil }
