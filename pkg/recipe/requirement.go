package recipe

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	pkgerrors "github.com/DrDeath22/packdex/pkg/errors"
)

// Requirement is a dependency declared by a record: a package name plus a
// version constraint. Constraints use semver constraint syntax ("1.3.1",
// ">=3.0", "^1.2", "~1.4"); a bare version is an exact match.
type Requirement struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint"`

	c *semver.Constraints
}

// ParseRequirement parses a "name/constraint" ref from a recipe's requires
// list. Both parts must be non-empty and the constraint must parse.
func ParseRequirement(ref string) (Requirement, error) {
	name, constraint, ok := strings.Cut(ref, "/")
	if !ok || name == "" || constraint == "" {
		return Requirement{}, pkgerrors.New(pkgerrors.ErrCodeInvalidRef,
			"requirement %q is not of the form name/constraint", ref)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return Requirement{}, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidRef, err,
			"requirement %q has an invalid constraint", ref)
	}
	return Requirement{Name: name, Constraint: constraint, c: c}, nil
}

// MustParseRequirement is like ParseRequirement but panics on error.
// Intended for tests and static tables.
func MustParseRequirement(ref string) Requirement {
	req, err := ParseRequirement(ref)
	if err != nil {
		panic(err)
	}
	return req
}

// String returns the requirement in "name/constraint" form.
func (q Requirement) String() string {
	return q.Name + "/" + q.Constraint
}

// Matches reports whether the given version satisfies the constraint.
// Requirements decoded from JSON or BSON carry only the constraint text;
// Matches parses it on demand in that case.
func (q Requirement) Matches(v *semver.Version) bool {
	if v == nil {
		return false
	}
	c := q.c
	if c == nil {
		var err error
		if c, err = semver.NewConstraint(q.Constraint); err != nil {
			return false
		}
	}
	return c.Check(v)
}

// MatchesVersion parses raw as a semantic version and reports whether it
// satisfies the constraint. Unparseable versions never match.
func (q Requirement) MatchesVersion(raw string) bool {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return false
	}
	return q.Matches(v)
}
