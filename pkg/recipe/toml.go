package recipe

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	pkgerrors "github.com/DrDeath22/packdex/pkg/errors"
)

// recipeFile mirrors the on-disk TOML layout. Requirements are declared as
// "name/constraint" refs and parsed into typed Requirements after decoding.
type recipeFile struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description"`
	License     string   `toml:"license"`
	URL         string   `toml:"url"`
	Topics      []string `toml:"topics"`
	Requires    []string `toml:"requires"`
	Libs        []string `toml:"libs"`
}

// Decode reads one TOML recipe from r and returns the validated Record.
func Decode(r io.Reader) (*Record, error) {
	var file recipeFile
	if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidRecipe, err, "decode recipe")
	}

	rec := &Record{
		Name:        file.Name,
		Version:     file.Version,
		Description: file.Description,
		License:     file.License,
		URL:         file.URL,
		Topics:      normalizeTopics(file.Topics),
		Libs:        slices.Clone(file.Libs),
	}
	for _, ref := range file.Requires {
		req, err := ParseRequirement(ref)
		if err != nil {
			return nil, err
		}
		rec.Requirements = append(rec.Requirements, req)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// LoadFile reads the TOML recipe at path and returns the validated Record.
// Errors are prefixed with the file path for context.
func LoadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// LoadDir loads every *.toml recipe in dir (non-recursive) and returns the
// records in filename order, so repeated loads are deterministic.
// It stops at the first invalid recipe.
func LoadDir(dir string) ([]*Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".toml") {
			continue
		}
		rec, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// LoadFS is like LoadDir but reads from an fs.FS, which makes recipe sets
// embeddable and testable without touching the filesystem.
func LoadFS(fsys fs.FS, dir string) ([]*Record, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var records []*Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		f, err := fsys.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		rec, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Encode writes the record as a TOML recipe to w, inverse of Decode.
func Encode(w io.Writer, rec *Record) error {
	refs := make([]string, len(rec.Requirements))
	for i, req := range rec.Requirements {
		refs[i] = req.String()
	}
	file := recipeFile{
		Name:        rec.Name,
		Version:     rec.Version,
		Description: rec.Description,
		License:     rec.License,
		URL:         rec.URL,
		Topics:      rec.Topics,
		Requires:    refs,
		Libs:        rec.Libs,
	}
	if err := toml.NewEncoder(w).Encode(file); err != nil {
		return fmt.Errorf("encode recipe %s: %w", rec.Ref(), err)
	}
	return nil
}
