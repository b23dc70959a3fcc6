package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/DrDeath22/packdex/pkg/recipe"
	"github.com/DrDeath22/packdex/pkg/store"
)

// Environment variables selecting external backends.
const (
	envMongoURI      = "PACKDEX_MONGO_URI"
	envMongoDB       = "PACKDEX_MONGO_DB"
	envRedisAddr     = "PACKDEX_REDIS_ADDR"
	envRedisPassword = "PACKDEX_REDIS_PASSWORD"
)

// openStore opens the record store used by a command.
//
// When PACKDEX_MONGO_URI is set the store is backed by MongoDB and
// recipesDir is ignored. Otherwise recipes are loaded from recipesDir
// into an in-memory store; an empty recipesDir yields an empty store.
func (c *CLI) openStore(ctx context.Context, recipesDir string) (store.Store, error) {
	if uri := os.Getenv(envMongoURI); uri != "" {
		db := os.Getenv(envMongoDB)
		if db == "" {
			db = appName
		}
		c.Logger.Debugf("Connecting to MongoDB store (db=%s)", db)
		return store.NewMongo(ctx, uri, db)
	}

	s := store.NewMemory()
	if recipesDir == "" {
		return s, nil
	}
	records, err := recipe.LoadDir(recipesDir)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	for _, rec := range records {
		if err := s.Put(ctx, rec); err != nil {
			return nil, err
		}
	}
	c.Logger.Debugf("Loaded %d recipes from %s", len(records), recipesDir)
	return s, nil
}

// splitRef splits a "name" or "name/version" command argument.
// The version part is empty when the argument carries no slash.
func splitRef(arg string) (name, version string) {
	name, version, _ = strings.Cut(arg, "/")
	return name, version
}
