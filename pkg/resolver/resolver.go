// Package resolver walks requirement chains between stored package records
// and produces the transitive closure as a dependency graph.
//
// Resolution is sequential and deterministic: requirements are followed in
// their declared order, and every constraint selects the highest stored
// version that satisfies it. Cycles and unsatisfiable requirements surface
// as typed errors; nothing is silently recovered.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/DrDeath22/packdex/pkg/errors"
	"github.com/DrDeath22/packdex/pkg/graph"
	"github.com/DrDeath22/packdex/pkg/recipe"
	"github.com/DrDeath22/packdex/pkg/store"
)

// DefaultMaxDepth is the maximum requirement-chain depth before resolution
// aborts. Real dependency chains are far shallower; the limit is a guard
// against pathological inputs.
const DefaultMaxDepth = 50

// ErrDepthExceeded is returned when a requirement chain exceeds MaxDepth.
var ErrDepthExceeded = errors.New("max resolution depth exceeded")

// Options configures resolution behavior.
type Options struct {
	MaxDepth int                  // Maximum chain depth (default: 50)
	Logger   func(string, ...any) // Progress/debug callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// CycleError reports a requirement cycle. Chain lists the refs along the
// cycle, ending with the name that closed it.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("requirement cycle: %s", strings.Join(e.Chain, " -> "))
}

// UnsatisfiedError reports a requirement that no stored record satisfies.
type UnsatisfiedError struct {
	Requirer    string // ref of the record declaring the requirement
	Requirement recipe.Requirement
}

func (e *UnsatisfiedError) Error() string {
	return fmt.Sprintf("%s requires %s: no stored version satisfies the constraint",
		e.Requirer, e.Requirement)
}

// Resolver resolves requirement chains against a record store.
type Resolver struct {
	store store.Store
}

// New creates a Resolver bound to the given store.
func New(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve returns the transitive closure of the record's requirements as a
// dependency graph. The graph's root is the "name/version" node; edges run
// from each record to the records satisfying its requirements.
//
// Errors:
//   - store.ErrNotFound (code RECORD_NOT_FOUND) if the root record is absent
//   - CycleError (code CYCLIC_DEPENDENCY) if requirements form a cycle
//   - UnsatisfiedError (code UNSATISFIED_REQUIREMENT) if a requirement
//     matches no stored record
func (r *Resolver) Resolve(ctx context.Context, name, version string, opts Options) (*graph.Graph, error) {
	opts = opts.WithDefaults()

	root, err := r.store.Get(ctx, name, version)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.ErrCodeRecordNotFound, err, "resolve %s/%s", name, version)
		}
		return nil, fmt.Errorf("resolve %s/%s: %w", name, version, err)
	}

	w := &walker{
		ctx:    ctx,
		store:  r.store,
		opts:   opts,
		g:      graph.New(nil),
		onPath: make(map[string]bool),
	}
	if err := w.visit(root, 0); err != nil {
		return nil, err
	}

	w.g.SetRoot(root.Ref())
	return w.g, nil
}

// ResolveRef is a convenience wrapper that parses a "name/version" ref.
func (r *Resolver) ResolveRef(ctx context.Context, ref string, opts Options) (*graph.Graph, error) {
	name, version, ok := strings.Cut(ref, "/")
	if !ok || name == "" || version == "" {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidRef, "ref %q is not of the form name/version", ref)
	}
	return r.Resolve(ctx, name, version, opts)
}

// Latest returns the highest stored version of a name, or store.ErrNotFound
// if no versions are stored.
func (r *Resolver) Latest(ctx context.Context, name string) (*recipe.Record, error) {
	records, err := r.store.ListByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", name, store.ErrNotFound)
	}
	return records[len(records)-1], nil
}

// walker carries the state of one depth-first resolution pass.
type walker struct {
	ctx   context.Context
	store store.Store
	opts  Options

	g      *graph.Graph
	path   []string        // refs along the current DFS chain
	onPath map[string]bool // names along the current DFS chain
}

// visit adds rec to the graph and recurses into its requirements.
// A record already present in the graph is not walked again; its subtree
// was completed by an earlier path (diamond dependencies).
func (w *walker) visit(rec *recipe.Record, depth int) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}
	if depth > w.opts.MaxDepth {
		return fmt.Errorf("%s at depth %d: %w", rec.Ref(), depth, ErrDepthExceeded)
	}

	if err := w.g.AddNode(graph.Node{ID: rec.Ref(), Meta: rec.Metadata()}); err != nil {
		return fmt.Errorf("add node %s: %w", rec.Ref(), err)
	}

	w.path = append(w.path, rec.Ref())
	w.onPath[rec.Name] = true
	defer func() {
		w.path = w.path[:len(w.path)-1]
		delete(w.onPath, rec.Name)
	}()

	for _, req := range rec.Requirements {
		if w.onPath[req.Name] {
			chain := append(append([]string{}, w.path...), req.Name)
			return pkgerrors.Wrap(pkgerrors.ErrCodeCyclicDependency,
				&CycleError{Chain: chain}, "resolve %s", w.path[0])
		}

		dep, err := w.selectVersion(rec, req)
		if err != nil {
			return err
		}
		w.opts.Logger("selected %s for requirement %s", dep.Ref(), req)

		if _, seen := w.g.Node(dep.Ref()); seen {
			if !w.g.HasEdge(rec.Ref(), dep.Ref()) {
				if err := w.g.AddEdge(graph.Edge{From: rec.Ref(), To: dep.Ref()}); err != nil {
					return fmt.Errorf("add edge %s -> %s: %w", rec.Ref(), dep.Ref(), err)
				}
			}
			continue
		}

		if err := w.visit(dep, depth+1); err != nil {
			return err
		}
		if err := w.g.AddEdge(graph.Edge{From: rec.Ref(), To: dep.Ref()}); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", rec.Ref(), dep.Ref(), err)
		}
	}
	return nil
}

// selectVersion picks the highest stored version satisfying the requirement.
// ListByName returns versions ascending, so the scan runs back to front.
func (w *walker) selectVersion(requirer *recipe.Record, req recipe.Requirement) (*recipe.Record, error) {
	candidates, err := w.store.ListByName(w.ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", req.Name, err)
	}

	for i := len(candidates) - 1; i >= 0; i-- {
		if req.MatchesVersion(candidates[i].Version) {
			return candidates[i], nil
		}
	}
	return nil, pkgerrors.Wrap(pkgerrors.ErrCodeUnsatisfiedRequirement,
		&UnsatisfiedError{Requirer: requirer.Ref(), Requirement: req},
		"resolve %s", requirer.Ref())
}
