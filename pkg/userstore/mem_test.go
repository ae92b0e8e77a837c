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

import "testing"

func TestMemoryGetSetDelete(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	if _, err := s.Get("a"); err != ErrNotFound {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := s.Set("a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := s.Get("a")
	if err != nil || v != "1" {
		t.Fatalf("Get(a) = (%q, %v), want (1, nil)", v, err)
	}
	if err := s.Set("a", "2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, _ = s.Get("a")
	if v != "2" {
		t.Fatalf("Get(a) after overwrite = %q, want 2", v)
	}
	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("a"); err != ErrNotFound {
		t.Fatalf("Get after Delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryFindOrdersByKey(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	for _, k := range []string{"c", "a", "b"} {
		s.Set(k, "v-"+k)
	}
	it := s.Find("", "")
	var got []string
	for it.Next() {
		got = append(got, it.Key())
	}
	it.Close()
	want := []string{"a", "b", "c"}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("Find order = %v, want %v", got, want)
		}
	}
}

func TestMemoryFindBoundedRange(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	for _, k := range []string{"a", "b", "c", "d"} {
		s.Set(k, k)
	}
	it := s.Find("b", "d")
	var got []string
	for it.Next() {
		got = append(got, it.Key())
	}
	it.Close()
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("Find(b, d) = %v, want [b c]", got)
	}
}

func TestMemoryBatchCommit(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	s.Set("keep", "1")
	s.Set("drop", "1")

	b := s.BeginBatch()
	b.Set("new", "2")
	b.Delete("drop")
	if err := s.CommitBatch(b); err != nil {
		t.Fatalf("CommitBatch: %v", err)
	}

	if v, err := s.Get("new"); err != nil || v != "2" {
		t.Errorf("Get(new) = (%q, %v)", v, err)
	}
	if _, err := s.Get("drop"); err != ErrNotFound {
		t.Errorf("Get(drop) err = %v, want ErrNotFound", err)
	}
	if v, err := s.Get("keep"); err != nil || v != "1" {
		t.Errorf("Get(keep) = (%q, %v)", v, err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(Config{Type: "nonexistent"}); err == nil {
		t.Error("expected an error for an unregistered backend type")
	}
}

func TestOpenMemoryBackend(t *testing.T) {
	s, err := Open(Config{Type: "memory"})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	defer s.Close()
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected Register to panic on a duplicate type name")
		}
	}()
	Register("memory", func(Config) (Store, error) { return nil, nil })
}
