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

// sqlstore implements userstore.Store on top of an *sql.DB, the way the
// teacher's pkg/sorted/sqlkv does for its own KeyValue interface. In
// place of the teacher's internal go4.org/syncutil.Gate, concurrent
// connections are bounded with golang.org/x/sync/semaphore, since that
// package is already a genuine dependency of this tree.
package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/semaphore"
)

// sqlStore implements Store using an *sql.DB holding a single "rows"
// table with string columns k, v.
type sqlStore struct {
	db          *sql.DB
	tablePrefix string
	gate        *semaphore.Weighted // nil means unbounded
	ctx         context.Context
	replacer    *strings.Replacer
	// placeholder optionally rewrites "?" placeholders for dialects that
	// don't support them (e.g. postgres' "$1", "$2", …).
	placeholder func(string) string
}

func newSQLStore(db *sql.DB, tablePrefix string, maxConns int64) *sqlStore {
	s := &sqlStore{
		db:          db,
		tablePrefix: tablePrefix,
		ctx:         context.Background(),
		replacer:    strings.NewReplacer("/*TPRE*/", tablePrefix),
	}
	if maxConns > 0 {
		s.gate = semaphore.NewWeighted(maxConns)
	}
	return s
}

func (s *sqlStore) acquire() func() {
	if s.gate == nil {
		return func() {}
	}
	if err := s.gate.Acquire(s.ctx, 1); err != nil {
		return func() {}
	}
	return func() { s.gate.Release(1) }
}

func (s *sqlStore) sql(stmt string) string {
	stmt = s.replacer.Replace(stmt)
	if s.placeholder != nil {
		stmt = s.placeholder(stmt)
	}
	return stmt
}

func (s *sqlStore) Get(key string) (string, error) {
	release := s.acquire()
	defer release()
	var value string
	err := s.db.QueryRow(s.sql("SELECT v FROM /*TPRE*/rows WHERE k = ?"), key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

func (s *sqlStore) Set(key, value string) error {
	release := s.acquire()
	defer release()
	_, err := s.db.Exec(s.sql("REPLACE INTO /*TPRE*/rows (k, v) VALUES (?, ?)"), key, value)
	return err
}

func (s *sqlStore) Delete(key string) error {
	release := s.acquire()
	defer release()
	_, err := s.db.Exec(s.sql("DELETE FROM /*TPRE*/rows WHERE k = ?"), key)
	return err
}

func (s *sqlStore) Find(start, end string) Iterator {
	release := s.acquire()
	var rows *sql.Rows
	var err error
	if end == "" {
		rows, err = s.db.Query(s.sql("SELECT k, v FROM /*TPRE*/rows WHERE k >= ? ORDER BY k"), start)
	} else {
		rows, err = s.db.Query(s.sql("SELECT k, v FROM /*TPRE*/rows WHERE k >= ? AND k < ? ORDER BY k"), start, end)
	}
	if err != nil {
		release()
		return &sqlIterator{err: err}
	}
	return &sqlIterator{rows: rows, release: release}
}

type sqlIterator struct {
	rows     *sql.Rows
	release  func()
	key, val string
	err      error
}

func (it *sqlIterator) Next() bool {
	if it.err != nil || it.rows == nil {
		return false
	}
	if !it.rows.Next() {
		return false
	}
	it.err = it.rows.Scan(&it.key, &it.val)
	return it.err == nil
}

func (it *sqlIterator) Key() string   { return it.key }
func (it *sqlIterator) Value() string { return it.val }

func (it *sqlIterator) Close() error {
	if it.rows != nil {
		it.rows.Close()
	}
	if it.release != nil {
		it.release()
	}
	return it.err
}

type sqlBatch struct {
	tx  *sql.Tx
	err error
	s   *sqlStore
}

func (b *sqlBatch) Set(key, value string) {
	if b.err != nil {
		return
	}
	_, b.err = b.tx.Exec(b.s.sql("REPLACE INTO /*TPRE*/rows (k, v) VALUES (?, ?)"), key, value)
}

func (b *sqlBatch) Delete(key string) {
	if b.err != nil {
		return
	}
	_, b.err = b.tx.Exec(b.s.sql("DELETE FROM /*TPRE*/rows WHERE k = ?"), key)
}

func (s *sqlStore) BeginBatch() BatchMutation {
	release := s.acquire()
	tx, err := s.db.BeginTx(s.ctx, nil)
	release()
	return &sqlBatch{tx: tx, err: err, s: s}
}

func (s *sqlStore) CommitBatch(bm BatchMutation) error {
	b, ok := bm.(*sqlBatch)
	if !ok {
		return errors.New("userstore: invalid batch type for sql backend")
	}
	if b.err != nil {
		if b.tx != nil {
			b.tx.Rollback()
		}
		return b.err
	}
	return b.tx.Commit()
}

func (s *sqlStore) Close() error { return s.db.Close() }

// createRowsTable runs a dialect-specific DDL statement to ensure the
// backing table exists; it's a no-op if it already does.
func createRowsTable(db *sql.DB, ddl, tablePrefix string) error {
	stmt := strings.ReplaceAll(ddl, "/*TPRE*/", tablePrefix)
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("userstore: creating rows table: %w", err)
	}
	return nil
}
