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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMimeTypeXML = `<?xml version="1.0" encoding="UTF-8"?>
<mime-info xmlns="http://www.freedesktop.org/standards/shared-mime-info">
  <mime-type type="text/x-mimeinfo-sample">
    <comment>sample type</comment>
    <glob pattern="*.sample" weight="70"/>
    <magic priority="60">
      <match type="string" value="SAMP" offset="0"/>
    </magic>
  </mime-type>
</mime-info>
`

func TestLoadConfigDefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Empty(t, cfg.SearchPaths)
}

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Cache.Backend)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mimeinfo.yaml")
	yamlDoc := "searchPaths:\n  - /opt/data\ndefaultLocale: fr\ncache:\n  backend: memory\n"
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/data"}, cfg.SearchPaths)
	assert.Equal(t, "fr", cfg.DefaultLocale)
	assert.Equal(t, "memory", cfg.Cache.Backend)
}

func TestResolveLocalePrefersFlagOverConfig(t *testing.T) {
	orig := localeFlag
	defer func() { localeFlag = orig }()

	localeFlag = ""
	assert.Equal(t, "de", resolveLocale(Config{DefaultLocale: "de"}))

	localeFlag = "ja"
	assert.Equal(t, "ja", resolveLocale(Config{DefaultLocale: "de"}))
}

func TestParseGlobArgsDefaultsWeight(t *testing.T) {
	patterns, err := parseGlobArgs([]string{"*.txt"})
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, 50, patterns[0].Weight())
}

func TestParseGlobArgsParsesExplicitWeight(t *testing.T) {
	patterns, err := parseGlobArgs([]string{"*.txt:80"})
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, 80, patterns[0].Weight())
	assert.True(t, patterns[0].MatchString("a.txt"))
}

func TestParseGlobArgsRejectsBadWeight(t *testing.T) {
	_, err := parseGlobArgs([]string{"*.txt:not-a-number"})
	assert.Error(t, err)
}

func TestPackageFilesUnderGlobsXML(t *testing.T) {
	dir := t.TempDir()
	pkgDir := filepath.Join(dir, "mime", "packages")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	xmlPath := filepath.Join(pkgDir, "sample.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(sampleMimeTypeXML), 0o644))

	got, err := packageFilesUnder(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{xmlPath}, got)
}

func TestSubclassesFileUnderReportsExistence(t *testing.T) {
	dir := t.TempDir()
	_, ok := subclassesFileUnder(dir)
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mime"), 0o755))
	subPath := filepath.Join(dir, "mime", "subclasses")
	require.NoError(t, os.WriteFile(subPath, []byte("a b\n"), 0o644))

	got, ok := subclassesFileUnder(dir)
	assert.True(t, ok)
	assert.Equal(t, subPath, got)
}

func TestReadPrefixReturnsFileBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("SAMP-body"), 0o644))

	data, err := readPrefix(path)
	require.NoError(t, err)
	assert.Equal(t, "SAMP-body", string(data))
}

func TestParseSingleMimeTypeParsesOneRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleMimeTypeXML), 0o644))

	mt, err := parseSingleMimeType(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "text/x-mimeinfo-sample", mt.Type)
	require.Len(t, mt.MagicRuleMatchers(), 1)
}

func TestParseSingleMimeTypeRejectsEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.xml")
	empty := `<?xml version="1.0"?><mime-info xmlns="http://www.freedesktop.org/standards/shared-mime-info"></mime-info>`
	require.NoError(t, os.WriteFile(path, []byte(empty), 0o644))

	_, err := parseSingleMimeType(context.Background(), path)
	assert.Error(t, err)
}
