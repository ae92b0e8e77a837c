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
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
)

const postgresCreateRows = `CREATE TABLE IF NOT EXISTS /*TPRE*/rows (
 k VARCHAR(255) NOT NULL PRIMARY KEY,
 v TEXT
)`

// NewPostgres opens a PostgreSQL-backed Store using dsn (a
// github.com/lib/pq connection string). Postgres placeholders use $1,
// $2, … rather than ?, so this backend rewrites queries accordingly.
func NewPostgres(dsn, tablePrefix string, maxConns int64) (Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(int(maxConns))
	}
	if err := createRowsTable(db, postgresCreateRows, tablePrefix); err != nil {
		db.Close()
		return nil, err
	}
	s := newSQLStore(db, tablePrefix, maxConns)
	s.replacer = strings.NewReplacer("/*TPRE*/", tablePrefix)
	s.placeholder = postgresPlaceholders
	return s, nil
}

// postgresPlaceholders rewrites sequential "?" placeholders into "$1",
// "$2", … for github.com/lib/pq, which doesn't support "?" syntax.
func postgresPlaceholders(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func init() {
	Register("postgres", func(cfg Config) (Store, error) {
		if cfg.DSN == "" {
			return nil, errors.New("userstore: postgres backend requires DSN")
		}
		return NewPostgres(cfg.DSN, cfg.TablePrefix, cfg.MaxConnections)
	})
}
