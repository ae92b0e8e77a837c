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

	_ "modernc.org/sqlite"
)

const sqliteCreateRows = `CREATE TABLE IF NOT EXISTS /*TPRE*/rows (
 k VARCHAR(255) NOT NULL PRIMARY KEY,
 v TEXT)`

// NewSQLite opens (creating if absent) a SQLite-backed Store at file.
// SQLite's driver serializes writes itself, but a small connection cap
// keeps "database is locked" errors rare under concurrent callers.
func NewSQLite(file, tablePrefix string, maxConns int64) (Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(int(maxConns))
	}
	if err := createRowsTable(db, sqliteCreateRows, tablePrefix); err != nil {
		db.Close()
		return nil, err
	}
	if maxConns <= 0 {
		maxConns = 1 // SQLite tolerates one writer well; default to it.
	}
	return newSQLStore(db, tablePrefix, maxConns), nil
}

func init() {
	Register("sqlite", func(cfg Config) (Store, error) {
		if cfg.File == "" {
			return nil, errors.New("userstore: sqlite backend requires File")
		}
		return NewSQLite(cfg.File, cfg.TablePrefix, cfg.MaxConnections)
	})
}
