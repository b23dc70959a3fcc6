package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DrDeath22/packdex/pkg/recipe"
)

func rec(t *testing.T, name, version string, requires ...string) *recipe.Record {
	t.Helper()
	r := &recipe.Record{Name: name, Version: version}
	for _, ref := range requires {
		r.Requirements = append(r.Requirements, recipe.MustParseRequirement(ref))
	}
	return r
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close(ctx)

	zlib := &recipe.Record{
		Name:        "zlib",
		Version:     "1.3.1",
		Description: "A massively spiffy yet delicately unobtrusive compression library",
		License:     "Zlib",
		URL:         "https://github.com/madler/zlib",
		Topics:      []string{"compression", "zlib"},
		Libs:        []string{"z"},
	}
	if err := m.Put(ctx, zlib); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := m.Get(ctx, "zlib", "1.3.1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != zlib {
		t.Error("Get should return the stored record unchanged")
	}
}

func TestPutDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if err := m.Put(ctx, rec(t, "zlib", "1.3.1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	err := m.Put(ctx, rec(t, "zlib", "1.3.1"))
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Errorf("duplicate Put: got %v, want ErrDuplicateRecord", err)
	}

	// Same name, different version is fine
	if err := m.Put(ctx, rec(t, "zlib", "1.3.0")); err != nil {
		t.Errorf("Put new version: %v", err)
	}
}

func TestPutInvalid(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Put(ctx, &recipe.Record{Name: "zlib"}); err == nil {
		t.Error("Put should reject a record without a version")
	}
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "zlib", "1.3.1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: got %v, want ErrNotFound", err)
	}

	_ = m.Put(ctx, rec(t, "zlib", "1.3.1"))
	if _, err := m.Get(ctx, "zlib", "9.9.9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get unknown version: got %v, want ErrNotFound", err)
	}
}

func TestListByNameOrdered(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	// Inserted out of order; 1.10.0 sorts after 1.9.0 semantically
	for _, v := range []string{"1.9.0", "1.2.13", "1.10.0", "1.3.1"} {
		if err := m.Put(ctx, rec(t, "zlib", v)); err != nil {
			t.Fatalf("Put %s: %v", v, err)
		}
	}

	records, err := m.ListByName(ctx, "zlib")
	if err != nil {
		t.Fatalf("ListByName: %v", err)
	}
	want := []string{"1.2.13", "1.3.1", "1.9.0", "1.10.0"}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i, w := range want {
		if records[i].Version != w {
			t.Errorf("records[%d] = %s, want %s", i, records[i].Version, w)
		}
	}

	// Unknown name yields an empty slice, not an error
	empty, err := m.ListByName(ctx, "unknown")
	if err != nil {
		t.Fatalf("ListByName(unknown): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListByName(unknown) = %v", empty)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_ = m.Put(ctx, rec(t, "zlib", "1.3.1"))
	if err := m.Remove(ctx, "zlib", "1.3.1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := m.Get(ctx, "zlib", "1.3.1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Remove: got %v, want ErrNotFound", err)
	}
	if err := m.Remove(ctx, "zlib", "1.3.1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove missing: got %v, want ErrNotFound", err)
	}

	names, _ := m.Names(ctx)
	if len(names) != 0 {
		t.Errorf("Names after final Remove = %v", names)
	}
}

func TestNamesAndLen(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_ = m.Put(ctx, rec(t, "zlib", "1.3.1"))
	_ = m.Put(ctx, rec(t, "boost", "1.84.0", "zlib/1.3.1"))
	_ = m.Put(ctx, rec(t, "openssl", "3.2.1", "zlib/1.3.1"))
	_ = m.Put(ctx, rec(t, "openssl", "3.0.0", "zlib/1.3.1"))

	names, err := m.Names(ctx)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	wantNames := []string{"boost", "openssl", "zlib"}
	if len(names) != len(wantNames) {
		t.Fatalf("Names = %v", names)
	}
	for i, w := range wantNames {
		if names[i] != w {
			t.Errorf("Names[%d] = %s, want %s", i, names[i], w)
		}
	}

	n, err := m.Len(ctx)
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 4 {
		t.Errorf("Len = %d, want 4", n)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int // sign only
	}{
		{"1.2.13", "1.3.1", -1},
		{"1.9.0", "1.10.0", -1},
		{"3.2.1", "3.2.1", 0},
		{"2.0.0", "1.84.0", 1},
		{"not-a-version", "1.0.0", -1}, // unparseable sorts first
		{"abc", "abd", -1},             // both unparseable: lexical
	}
	for _, tt := range tests {
		got := compareVersions(tt.a, tt.b)
		if sign(got) != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
