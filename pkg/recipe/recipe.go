// Package recipe defines the package metadata record and loads it from
// declarative TOML recipe files.
//
// A recipe describes one (name, version) of a third-party library: its
// description, license, project URL, topics, the requirements it declares
// on other packages, and the link libraries it exposes. Records are
// immutable value objects once loaded; mutation happens only by removing
// and re-adding them in a store.
package recipe

import (
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"

	pkgerrors "github.com/DrDeath22/packdex/pkg/errors"
)

// Record holds the metadata declared by one recipe file.
// (Name, Version) uniquely identifies a record within a store.
type Record struct {
	Name         string        `json:"name" toml:"name"`
	Version      string        `json:"version" toml:"version"`
	Description  string        `json:"description,omitempty" toml:"description"`
	License      string        `json:"license,omitempty" toml:"license"`
	URL          string        `json:"url,omitempty" toml:"url"`
	Topics       []string      `json:"topics,omitempty" toml:"topics"`
	Requirements []Requirement `json:"requires,omitempty" toml:"-"`
	Libs         []string      `json:"libs,omitempty" toml:"libs"`
}

// Ref returns the record's "name/version" reference, used as its node ID
// in dependency graphs.
func (r *Record) Ref() string {
	return r.Name + "/" + r.Version
}

// String returns the record's ref.
func (r *Record) String() string { return r.Ref() }

// SemVer parses the record's version as a semantic version.
func (r *Record) SemVer() (*semver.Version, error) {
	v, err := semver.NewVersion(r.Version)
	if err != nil {
		return nil, fmt.Errorf("parse version %q: %w", r.Version, err)
	}
	return v, nil
}

// Validate checks that the record is well-formed: name and version are
// present, the version parses as a semantic version, and requirements do
// not reference the record's own name.
func (r *Record) Validate() error {
	if r.Name == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe, "record has no name")
	}
	if r.Version == "" {
		return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe, "record %s has no version", r.Name)
	}
	if _, err := r.SemVer(); err != nil {
		return pkgerrors.Wrap(pkgerrors.ErrCodeInvalidRecipe, err, "record %s", r.Name)
	}
	for _, req := range r.Requirements {
		if req.Name == r.Name {
			return pkgerrors.New(pkgerrors.ErrCodeInvalidRecipe, "record %s requires itself", r.Ref())
		}
	}
	return nil
}

// Metadata converts the record's descriptive fields to a map for graph
// node metadata. Empty fields are omitted.
func (r *Record) Metadata() map[string]any {
	m := map[string]any{"version": r.Version}
	if r.Description != "" {
		m["description"] = r.Description
	}
	if r.License != "" {
		m["license"] = r.License
	}
	if r.URL != "" {
		m["url"] = r.URL
	}
	if len(r.Topics) > 0 {
		m["topics"] = slices.Clone(r.Topics)
	}
	if len(r.Libs) > 0 {
		m["libs"] = slices.Clone(r.Libs)
	}
	return m
}

// normalizeTopics removes duplicates while preserving declaration order.
// Topics form a set; recipe files occasionally repeat entries.
func normalizeTopics(topics []string) []string {
	if len(topics) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(topics))
	out := make([]string, 0, len(topics))
	for _, topic := range topics {
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true
		out = append(out, topic)
	}
	return out
}
