package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DrDeath22/packdex/pkg/cache"
	"github.com/DrDeath22/packdex/pkg/export"
	"github.com/DrDeath22/packdex/pkg/graph"
	"github.com/DrDeath22/packdex/pkg/resolver"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	maxDepth int    // maximum requirement-chain depth
	output   string // output file path (stdout if empty)
	format   string // json, dot, or svg
	refresh  bool   // bypass the resolution cache
	noCache  bool   // disable the resolution cache entirely
	recipes  string // recipe directory for the in-memory store
}

// resolveCommand creates the "resolve" command, which walks a record's
// requirement chain and writes the resulting dependency graph.
func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOpts{maxDepth: resolver.DefaultMaxDepth, format: "json", recipes: "."}

	cmd := &cobra.Command{
		Use:   "resolve <name>[/version]",
		Short: "Resolve a record's transitive dependency graph",
		Long: `Resolve the transitive requirement chain of a stored record into a
dependency graph. Without a version, the highest stored version is
resolved. Each requirement selects the highest stored version that
satisfies its constraint.

Examples:
  packdex resolve boost
  packdex resolve boost/1.84.0 -o deps.json
  packdex resolve openssl --format svg -o deps.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), &opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.maxDepth, "max-depth", opts.maxDepth, "maximum requirement depth")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, dot, or svg")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the resolution cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the resolution cache")
	cmd.Flags().StringVarP(&opts.recipes, "recipes", "r", opts.recipes, "directory of recipe files")

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, opts *resolveOpts, arg string) error {
	s, err := c.openStore(ctx, opts.recipes)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close(ctx) }()

	r := resolver.New(s)

	name, version := splitRef(arg)
	if version == "" {
		rec, err := r.Latest(ctx, name)
		if err != nil {
			return err
		}
		version = rec.Version
	}

	ropts := resolver.Options{
		MaxDepth: opts.maxDepth,
		Logger:   func(msg string, args ...any) { c.Logger.Debugf(msg, args...) },
	}.WithDefaults()

	results, err := newCache(opts.noCache)
	if err != nil {
		results = cache.NewNullCache()
	}
	defer func() { _ = results.Close() }()

	key := cache.ResolveKey(name, version, ropts.MaxDepth)

	var g *graph.Graph
	if !opts.refresh {
		if data, hit, err := results.Get(ctx, key); err == nil && hit {
			if cached, err := export.ReadJSON(bytes.NewReader(data)); err == nil {
				c.Logger.Debugf("Using cached resolution for %s/%s", name, version)
				g = cached
			}
		}
	}

	if g == nil {
		sp := newSpinnerWithContext(ctx, fmt.Sprintf("Resolving %s/%s", name, version))
		sp.Start()

		g, err = r.Resolve(ctx, name, version, ropts)
		if err != nil {
			sp.StopWithError(fmt.Sprintf("Failed to resolve %s/%s", name, version))
			return err
		}
		sp.StopWithSuccess(fmt.Sprintf("Resolved %d packages with %d requirements", g.NodeCount(), g.EdgeCount()))

		if data, err := export.MarshalJSON(g); err == nil {
			if err := results.Set(ctx, key, data, cache.DefaultTTL); err != nil {
				c.Logger.Warnf("Failed to cache resolution: %v", err)
			}
		}
	}

	return c.writeGraph(ctx, g, opts)
}

// writeGraph serializes the graph in the requested format to opts.output
// (or stdout for text formats when no output file is given).
func (c *CLI) writeGraph(ctx context.Context, g *graph.Graph, opts *resolveOpts) error {
	switch opts.format {
	case "json":
		if opts.output == "" {
			return export.WriteJSON(g, os.Stdout)
		}
		if err := export.ExportJSON(g, opts.output); err != nil {
			return err
		}
	case "dot":
		dot := export.ToDOT(g, export.DOTOptions{Detailed: true})
		if opts.output == "" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(opts.output, []byte(dot), 0o644); err != nil {
			return err
		}
	case "svg":
		if opts.output == "" {
			return fmt.Errorf("svg format requires --output")
		}
		svg, err := export.RenderSVG(ctx, export.ToDOT(g, export.DOTOptions{Detailed: true}))
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, svg, 0o644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s (available: json, dot, svg)", opts.format)
	}

	printFile(opts.output)
	return nil
}
