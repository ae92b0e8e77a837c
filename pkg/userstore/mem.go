/*
Copyright 2026 The Mimetypes Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package userstore

import (
	"sort"
	"sync"
)

// NewMemory returns a Store backed only by process memory. Useful for
// tests and for callers who don't want the user-modified-types blob to
// outlive the process.
func NewMemory() Store {
	return &memStore{index: make(map[string]int)}
}

// memStore is a naive in-memory sorted key-value store: a slice kept in
// key order plus an index for O(1) lookup, guarded by a single mutex
// (the teacher's own memory backend takes the analogous approach on top
// of a vendored leveldb memdb; this port uses plain Go containers since
// nothing in this tree can exercise that vendored dependency).
type memStore struct {
	mu    sync.Mutex
	keys  []string
	vals  []string
	index map[string]int // key -> position in keys/vals
}

func (m *memStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[key]
	if !ok {
		return "", ErrNotFound
	}
	return m.vals[i], nil
}

func (m *memStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(key, value)
	return nil
}

func (m *memStore) setLocked(key, value string) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return
	}
	pos := sort.SearchStrings(m.keys, key)
	m.keys = append(m.keys, "")
	copy(m.keys[pos+1:], m.keys[pos:])
	m.keys[pos] = key
	m.vals = append(m.vals, "")
	copy(m.vals[pos+1:], m.vals[pos:])
	m.vals[pos] = value
	for k, i := range m.index {
		if i >= pos {
			m.index[k] = i + 1
		}
	}
	m.index[key] = pos
}

func (m *memStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(key)
	return nil
}

func (m *memStore) deleteLocked(key string) {
	pos, ok := m.index[key]
	if !ok {
		return
	}
	m.keys = append(m.keys[:pos], m.keys[pos+1:]...)
	m.vals = append(m.vals[:pos], m.vals[pos+1:]...)
	delete(m.index, key)
	for k, i := range m.index {
		if i > pos {
			m.index[k] = i - 1
		}
	}
}

func (m *memStore) Find(start, end string) Iterator {
	m.mu.Lock()
	defer m.mu.Unlock()
	from := sort.SearchStrings(m.keys, start)
	to := len(m.keys)
	if end != "" {
		to = sort.SearchStrings(m.keys, end)
	}
	it := &memIterator{pos: -1}
	if from < to {
		it.keys = append([]string(nil), m.keys[from:to]...)
		it.vals = append([]string(nil), m.vals[from:to]...)
	}
	it.to = len(it.keys)
	return it
}

type memIterator struct {
	keys, vals []string
	pos, to    int
}

func (it *memIterator) Next() bool {
	it.pos++
	return it.pos < it.to && it.pos >= 0
}

func (it *memIterator) Key() string   { return it.keys[it.pos] }
func (it *memIterator) Value() string { return it.vals[it.pos] }
func (it *memIterator) Close() error  { return nil }

func (m *memStore) BeginBatch() BatchMutation { return newBatch() }

func (m *memStore) CommitBatch(bm BatchMutation) error {
	b, ok := bm.(*batch)
	if !ok {
		return errNotOurBatch
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range b.ops {
		if op.delete {
			m.deleteLocked(op.key)
		} else {
			m.setLocked(op.key, op.value)
		}
	}
	return nil
}

func (m *memStore) Close() error { return nil }

func init() {
	Register("memory", func(Config) (Store, error) {
		return NewMemory(), nil
	})
}
