package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/YiniRuohong/wordflow/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a fresh SQLite database in a t.TempDir, migrated and
// ready to use. Each test gets its own file so tests can run in parallel.
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "test.db")

	s, err := sqlite.Open(context.Background(), dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
