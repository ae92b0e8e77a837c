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

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/seanpm2001/playground-mimetypes/pkg/userstore"
)

// Config is mimeinfo's on-disk configuration: where to find
// shared-mime-info package files, which locale to prefer when no
// --locale flag is given, and which userstore backend holds the
// user-modified-types overrides layered on top of the base database.
type Config struct {
	SearchPaths   []string          `yaml:"searchPaths"`
	DefaultLocale string            `yaml:"defaultLocale"`
	Cache         userstoreSettings `yaml:"cache"`
}

type userstoreSettings struct {
	Backend        string `yaml:"backend"`
	File           string `yaml:"file"`
	DSN            string `yaml:"dsn"`
	TablePrefix    string `yaml:"tablePrefix"`
	MaxConnections int64  `yaml:"maxConnections"`
}

// defaultConfig is used whenever no --config file is given or the
// given path doesn't exist: it defers entirely to the XDG search
// paths and keeps user overrides in memory only.
func defaultConfig() Config {
	return Config{
		Cache: userstoreSettings{Backend: "memory"},
	}
}

func loadConfig(path string) (Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

func (c Config) openUserstore() (userstore.Store, error) {
	backend := c.Cache.Backend
	if backend == "" {
		backend = "memory"
	}
	return userstore.Open(userstore.Config{
		Type:           backend,
		File:           c.Cache.File,
		DSN:            c.Cache.DSN,
		TablePrefix:    c.Cache.TablePrefix,
		MaxConnections: c.Cache.MaxConnections,
	})
}
