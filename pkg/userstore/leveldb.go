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
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// NewLevelDB opens (creating if absent) a LevelDB-backed Store at file.
func NewLevelDB(file string) (Store, error) {
	opts := &opt.Options{Filter: filter.NewBloomFilter(10)}
	db, err := leveldb.OpenFile(file, opts)
	if err != nil {
		return nil, err
	}
	return &levelStore{db: db}, nil
}

type levelStore struct {
	db *leveldb.DB
}

func (s *levelStore) Get(key string) (string, error) {
	v, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *levelStore) Set(key, value string) error {
	return s.db.Put([]byte(key), []byte(value), nil)
}

func (s *levelStore) Delete(key string) error {
	return s.db.Delete([]byte(key), nil)
}

func (s *levelStore) Find(start, end string) Iterator {
	var startB, endB []byte
	if start != "" {
		startB = []byte(start)
	}
	if end != "" {
		endB = []byte(end)
	}
	return &levelIterator{it: s.db.NewIterator(&util.Range{Start: startB, Limit: endB}, nil)}
}

type levelIterator struct {
	it iterator.Iterator
}

func (it *levelIterator) Next() bool    { return it.it.Next() }
func (it *levelIterator) Key() string   { return string(it.it.Key()) }
func (it *levelIterator) Value() string { return string(it.it.Value()) }
func (it *levelIterator) Close() error  { it.it.Release(); return nil }

type levelBatch struct {
	b *leveldb.Batch
}

func (b *levelBatch) Set(key, value string) { b.b.Put([]byte(key), []byte(value)) }
func (b *levelBatch) Delete(key string)     { b.b.Delete([]byte(key)) }

func (s *levelStore) BeginBatch() BatchMutation {
	return &levelBatch{b: new(leveldb.Batch)}
}

func (s *levelStore) CommitBatch(bm BatchMutation) error {
	b, ok := bm.(*levelBatch)
	if !ok {
		return errors.New("userstore: invalid batch type for leveldb backend")
	}
	return s.db.Write(b.b, nil)
}

func (s *levelStore) Close() error { return s.db.Close() }

func init() {
	Register("leveldb", func(cfg Config) (Store, error) {
		if cfg.File == "" {
			return nil, errors.New("userstore: leveldb backend requires File")
		}
		return NewLevelDB(cfg.File)
	})
}
