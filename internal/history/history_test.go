// SPDX-License-Identifier: MPL-2.0

package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewEntry(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	e := NewEntry("m", "1.0.0", "mod.js", "abc", at)

	if e.ID == "" {
		t.Error("NewEntry() left ID empty")
	}
	if e.SHA256 != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("SHA256 = %s", e.SHA256)
	}
	if e.Bytes != 3 {
		t.Errorf("Bytes = %d, want 3", e.Bytes)
	}
	if e.InstalledAt.Location() != time.UTC || !e.InstalledAt.Equal(at) {
		t.Errorf("InstalledAt = %v, want %v in UTC", e.InstalledAt, at)
	}
	if other := NewEntry("m", "", "mod.js", "abc", at); other.ID == e.ID {
		t.Error("NewEntry() reused an ID")
	}
}

func TestStore_RecordAndList(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	entries := []Entry{
		NewEntry("first", "", "a.js", "a", base),
		NewEntry("second", "2.0", "https://example.test/b.js", "bb", base.Add(time.Minute)),
		NewEntry("third", "", "c.js", "ccc", base.Add(2*time.Minute)),
	}
	for _, e := range entries {
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s) error = %v", e.Module, err)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() len = %d, want 3", len(all))
	}
	if all[0].Module != "third" || all[2].Module != "first" {
		t.Errorf("List() order = %s, %s, %s", all[0].Module, all[1].Module, all[2].Module)
	}
	got, want := all[1], entries[1]
	if got.ID != want.ID || got.Version != want.Version || got.Source != want.Source ||
		got.SHA256 != want.SHA256 || got.Bytes != want.Bytes || !got.InstalledAt.Equal(want.InstalledAt) {
		t.Errorf("List()[1] = %+v, want %+v", got, want)
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 || limited[0].Module != "third" {
		t.Errorf("List(2) = %+v", limited)
	}
}

func TestStore_ListSubSecondOrder(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Recorded newest first so insertion order cannot mask a wrong sort.
	for _, e := range []Entry{
		NewEntry("later", "", "b.js", "b", base.Add(500*time.Millisecond)),
		NewEntry("whole", "", "a.js", "a", base),
		NewEntry("earlier", "", "c.js", "c", base.Add(-time.Nanosecond)),
	} {
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s) error = %v", e.Module, err)
		}
	}

	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"later", "whole", "earlier"}
	if len(got) != len(want) {
		t.Fatalf("List() len = %d, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Module != want[i] {
			t.Fatalf("List()[%d] = %s (%v), want order %v", i, e.Module, e.InstalledAt, want)
		}
	}
	if !got[0].InstalledAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Errorf("InstalledAt = %v, want sub-second precision kept", got[0].InstalledAt)
	}
}

func TestStore_EmptyVersionReadsBackAsNone(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Record(ctx, NewEntry("m", "", "m.js", "x", time.Now())); err != nil {
		t.Fatal(err)
	}

	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Version != "" {
		t.Errorf("List() = %+v, want one entry without a version", got)
	}
}

func TestStore_ListEmpty(t *testing.T) {
	t.Parallel()

	got, err := openTestStore(t).List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", got)
	}
}

func TestStore_Reopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, NewEntry("m", "", "m.js", "x", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Module != "m" {
		t.Errorf("List() after reopen = %+v", got)
	}
}

func TestStore_Closed(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := s.Record(context.Background(), Entry{}); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Record() after Close error = %v", err)
	}
	if _, err := s.List(context.Background(), 0); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("List() after Close error = %v", err)
	}
}
