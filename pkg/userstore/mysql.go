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

	_ "github.com/go-sql-driver/mysql"
)

const mysqlCreateRows = `CREATE TABLE IF NOT EXISTS /*TPRE*/rows (
 k VARBINARY(255) NOT NULL PRIMARY KEY,
 v MEDIUMBLOB
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// NewMySQL opens a MySQL-backed Store using dsn (a
// github.com/go-sql-driver/mysql data source name).
func NewMySQL(dsn, tablePrefix string, maxConns int64) (Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(int(maxConns))
	}
	if err := createRowsTable(db, mysqlCreateRows, tablePrefix); err != nil {
		db.Close()
		return nil, err
	}
	return newSQLStore(db, tablePrefix, maxConns), nil
}

func init() {
	Register("mysql", func(cfg Config) (Store, error) {
		if cfg.DSN == "" {
			return nil, errors.New("userstore: mysql backend requires DSN")
		}
		return NewMySQL(cfg.DSN, cfg.TablePrefix, cfg.MaxConnections)
	})
}
