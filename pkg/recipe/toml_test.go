package recipe

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

const zlibRecipe = `
name = "zlib"
version = "1.3.1"
description = "A massively spiffy yet delicately unobtrusive compression library"
license = "Zlib"
url = "https://github.com/madler/zlib"
topics = ["compression", "zlib"]
libs = ["z"]
`

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("zlib.toml", zlibRecipe)
	write("boost.toml", boostRecipe)
	write("notes.txt", "not a recipe")

	records, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("loaded %d records, want 2", len(records))
	}
	// ReadDir yields filename order: boost before zlib
	if records[0].Name != "boost" || records[1].Name != "zlib" {
		t.Errorf("order = [%s, %s], want [boost, zlib]", records[0].Name, records[1].Name)
	}
}

func TestLoadDirInvalidRecipe(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.toml"), []byte(`version = "1.0.0"`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDir(dir); err == nil {
		t.Error("LoadDir should fail on an invalid recipe")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"recipes/zlib.toml":  &fstest.MapFile{Data: []byte(zlibRecipe)},
		"recipes/boost.toml": &fstest.MapFile{Data: []byte(boostRecipe)},
	}

	records, err := LoadFS(fsys, "recipes")
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("loaded %d records, want 2", len(records))
	}
}
