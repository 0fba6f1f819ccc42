/*
 * CQLite
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package kv

import (
	"bytes"
	"sort"
	"sync"
)

/*
Memory is an in-process Engine backed by a sorted slice of keys and a
map of values, guarded by a RWMutex. It is the engine behind
Graph.OpenAnon and is grounded on the teacher's
storage.NewMemoryStorageManager (an in-memory storage manager used for
tests and error simulation).
*/
type Memory struct {
	mutex sync.RWMutex
	data  map[string][]byte
	keys  []string // kept sorted; writes mark it dirty, NewIterator rebuilds it
	dirty bool
}

/*
NewMemory creates an empty in-memory Engine.
*/
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) reindex() {
	if !m.dirty {
		return
	}
	m.keys = m.keys[:0]
	for k := range m.data {
		m.keys = append(m.keys, k)
	}
	sort.Strings(m.keys)
	m.dirty = false
}

/*
Get implements Engine.
*/
func (m *Memory) Get(key []byte) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

/*
Set implements Engine.
*/
func (m *Memory) Set(key, value []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	if _, exists := m.data[string(key)]; !exists {
		m.dirty = true
	}
	m.data[string(key)] = v
	return nil
}

/*
Delete implements Engine.
*/
func (m *Memory) Delete(key []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.data[string(key)]; ok {
		delete(m.data, string(key))
		m.dirty = true
	}
	return nil
}

/*
Batch implements Engine.
*/
func (m *Memory) Batch(ops []Op) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, op := range ops {
		switch op.Kind {
		case OpSet:
			v := make([]byte, len(op.Value))
			copy(v, op.Value)
			if _, exists := m.data[string(op.Key)]; !exists {
				m.dirty = true
			}
			m.data[string(op.Key)] = v
		case OpDelete:
			if _, ok := m.data[string(op.Key)]; ok {
				delete(m.data, string(op.Key))
				m.dirty = true
			}
		}
	}
	return nil
}

/*
Close implements Engine. Memory holds no external resources.
*/
func (m *Memory) Close() error {
	return nil
}

/*
Snapshot implements Snapshotter. Set and Batch never mutate a value
slice already in the map - they always install a freshly copied one -
so a shallow copy of the map header is already a valid, cheap
point-in-time view: later writes to m assign new entries into m's own
map, never reaching through into this copy.
*/
func (m *Memory) Snapshot() Engine {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	data := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		data[k] = v
	}
	return &Memory{data: data, dirty: true}
}

/*
NewIterator implements Engine. The returned Iterator is a snapshot of
this instant: values are copied out up front, so a concurrent Set or
Delete on m after this call never changes what the iterator yields.
*/
func (m *Memory) NewIterator(prefix []byte) Iterator {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.reindex()

	start := sort.SearchStrings(m.keys, string(prefix))
	var keys []string
	var vals [][]byte
	for i := start; i < len(m.keys); i++ {
		if !bytes.HasPrefix([]byte(m.keys[i]), prefix) {
			break
		}
		keys = append(keys, m.keys[i])
		vals = append(vals, m.data[m.keys[i]])
	}

	return &memIterator{keys: keys, vals: vals, idx: -1}
}

type memIterator struct {
	keys []string
	vals [][]byte
	idx  int
	key  []byte
	val  []byte
	err  error
}

func (it *memIterator) Next() bool {
	it.idx++
	if it.idx >= len(it.keys) {
		return false
	}

	it.key = []byte(it.keys[it.idx])
	it.val = it.vals[it.idx]
	return true
}

func (it *memIterator) Key() []byte   { return it.key }
func (it *memIterator) Value() []byte { return it.val }
func (it *memIterator) Err() error    { return it.err }
func (it *memIterator) Close() error  { return nil }
