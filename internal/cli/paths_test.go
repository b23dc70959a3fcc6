package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	// Clear XDG_CACHE_HOME to test default behavior
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", customCache)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestSplitRef(t *testing.T) {
	tests := []struct {
		arg     string
		name    string
		version string
	}{
		{"zlib", "zlib", ""},
		{"zlib/1.3.1", "zlib", "1.3.1"},
		{"boost/>=1.80", "boost", ">=1.80"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			name, version := splitRef(tt.arg)
			if name != tt.name || version != tt.version {
				t.Errorf("splitRef(%q) = (%q, %q), want (%q, %q)", tt.arg, name, version, tt.name, tt.version)
			}
		})
	}
}

func TestOpenStoreLoadsRecipes(t *testing.T) {
	dir := t.TempDir()
	recipe := `name = "zlib"
version = "1.3.1"
license = "Zlib"
libs = ["z"]
`
	if err := os.WriteFile(filepath.Join(dir, "zlib.toml"), []byte(recipe), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(os.Stderr, LogInfo)
	s, err := c.openStore(t.Context(), dir)
	if err != nil {
		t.Fatalf("openStore() error: %v", err)
	}
	defer s.Close(t.Context())

	rec, err := s.Get(t.Context(), "zlib", "1.3.1")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !strings.Contains(rec.Ref(), "zlib/1.3.1") {
		t.Errorf("Ref() = %q, want zlib/1.3.1", rec.Ref())
	}
}
