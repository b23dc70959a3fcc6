package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/DrDeath22/packdex/pkg/recipe"
)

// Memory is an in-memory Store. Mutation normally happens during an
// initialization phase, but all operations take a read-write lock so
// concurrent readers stay safe if records are added later.
type Memory struct {
	mu      sync.RWMutex
	records map[string]map[string]*recipe.Record // name -> version -> record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]map[string]*recipe.Record)}
}

// Put stores a record. Fails with ErrDuplicateRecord if (name, version)
// is already present.
func (m *Memory) Put(ctx context.Context, rec *recipe.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	versions := m.records[rec.Name]
	if versions == nil {
		versions = make(map[string]*recipe.Record)
		m.records[rec.Name] = versions
	}
	if _, exists := versions[rec.Version]; exists {
		return fmt.Errorf("%s: %w", rec.Ref(), ErrDuplicateRecord)
	}
	versions[rec.Version] = rec
	return nil
}

// Get returns the record for (name, version), or ErrNotFound.
func (m *Memory) Get(ctx context.Context, name, version string) (*recipe.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[name][version]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", name, version, ErrNotFound)
	}
	return rec, nil
}

// ListByName returns all versions stored for name, ascending by version.
func (m *Memory) ListByName(ctx context.Context, name string) ([]*recipe.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := m.records[name]
	out := make([]*recipe.Record, 0, len(versions))
	for _, rec := range versions {
		out = append(out, rec)
	}
	sortByVersion(out)
	return out, nil
}

// Remove deletes the record for (name, version), or returns ErrNotFound.
func (m *Memory) Remove(ctx context.Context, name, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	versions := m.records[name]
	if _, ok := versions[version]; !ok {
		return fmt.Errorf("%s/%s: %w", name, version, ErrNotFound)
	}
	delete(versions, version)
	if len(versions) == 0 {
		delete(m.records, name)
	}
	return nil
}

// Names returns all distinct record names in lexical order.
func (m *Memory) Names(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.records))
	for name := range m.records {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Len returns the total number of stored records.
func (m *Memory) Len(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, versions := range m.records {
		total += len(versions)
	}
	return total, nil
}

// Close does nothing for the in-memory store.
func (m *Memory) Close(ctx context.Context) error { return nil }

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
