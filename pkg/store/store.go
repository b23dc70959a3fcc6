// Package store holds package-metadata records keyed by (name, version).
//
// A Store is populated during a load phase and then serves lookups for the
// resolver. Records are immutable once stored; they leave the store only
// through an explicit Remove. Two implementations are provided: an
// in-memory store for CLI runs and tests, and a MongoDB-backed store for
// the long-running server.
package store

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/DrDeath22/packdex/pkg/recipe"
)

// Sentinel errors for store operations.
var (
	// ErrDuplicateRecord is returned by Put when a record with the same
	// (name, version) already exists.
	ErrDuplicateRecord = errors.New("duplicate record")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Store is the record store contract shared by all backends.
//
// ListByName returns all stored versions of a name in ascending version
// order; the returned slice is a fresh copy, so callers can iterate it
// repeatedly or concurrently with other store calls.
type Store interface {
	// Put stores a record. Fails with ErrDuplicateRecord if a record with
	// the same (name, version) is already present.
	Put(ctx context.Context, rec *recipe.Record) error

	// Get returns the record for (name, version), or ErrNotFound.
	Get(ctx context.Context, name, version string) (*recipe.Record, error)

	// ListByName returns all versions stored for name, ordered ascending
	// by version. An unknown name yields an empty slice, not an error.
	ListByName(ctx context.Context, name string) ([]*recipe.Record, error)

	// Remove deletes the record for (name, version), or returns ErrNotFound.
	Remove(ctx context.Context, name, version string) error

	// Names returns all distinct record names in lexical order.
	Names(ctx context.Context) ([]string, error)

	// Len returns the total number of stored records.
	Len(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// compareVersions orders two version strings ascending. Versions that parse
// as semver are compared semantically; anything else falls back to lexical
// comparison and sorts before parseable versions.
func compareVersions(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// sortByVersion sorts records ascending by version, in place.
func sortByVersion(records []*recipe.Record) {
	slices.SortStableFunc(records, func(a, b *recipe.Record) int {
		return compareVersions(a.Version, b.Version)
	})
}
