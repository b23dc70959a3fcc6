package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/DrDeath22/packdex/internal/api"
	"github.com/DrDeath22/packdex/pkg/cache"
)

// serveCommand creates the "serve" command, which runs the registry
// HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		recipesDir string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry HTTP API",
		Long: `Serve the record store and resolver over HTTP.

By default recipes are loaded from the recipe directory into an
in-memory store. Set PACKDEX_MONGO_URI to serve from a MongoDB store
and PACKDEX_REDIS_ADDR to cache resolution results in Redis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := c.openStore(ctx, recipesDir)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close(ctx) }()

			results, err := c.serverCache(ctx, noCache)
			if err != nil {
				return err
			}
			defer func() { _ = results.Close() }()

			srv := &http.Server{
				Addr: addr,
				Handler: api.NewServer(api.Config{
					Store:  s,
					Cache:  results,
					Logger: c.Logger,
				}).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			printInfo("Listening on %s", addr)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				printInfo("Server stopped")
				return nil
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVarP(&recipesDir, "recipes", "r", ".", "directory of recipe files")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the resolution cache")

	return cmd
}

// serverCache selects the resolution cache for the API server.
// PACKDEX_REDIS_ADDR selects a Redis backend; otherwise the file
// cache under the user cache directory is used.
func (c *CLI) serverCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		c.Logger.Debugf("Using Redis cache at %s", addr)
		return cache.NewRedisCache(ctx, addr, os.Getenv(envRedisPassword), 0)
	}
	return newCache(false)
}
