package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/bfc/internal/compiler"
	"github.com/roach88/bfc/internal/ir"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestTranslation translates src and wraps it as a cache row.
func createTestTranslation(t *testing.T, src string, cells *int) Translation {
	t.Helper()
	code, stats, err := compiler.TranslateString(src, compiler.Options{InitialCells: cells})
	if err != nil {
		t.Fatalf("TranslateString() failed: %v", err)
	}
	return Translation{
		Key:          ir.MustTranslationKey([]byte(src), stats.Target, cells),
		SourceHash:   ir.SourceHash([]byte(src)),
		Target:       stats.Target,
		InitialCells: cells,
		Code:         []byte(code),
		Stats:        *stats,
	}
}
