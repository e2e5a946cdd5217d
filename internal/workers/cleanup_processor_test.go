package workers_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/franchise-reconcile/internal/workers"
	"github.com/ammerola/franchise-reconcile/test/helpers"
)

func TestCleanupProcessor_Sweep(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	old := filepath.Join(dir, "old.xlsx")
	fresh := filepath.Join(dir, "fresh.pdf")
	nested := filepath.Join(dir, "nested", "old.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(nested), 0o755))
	for _, p := range []string{old, fresh, nested} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
	require.NoError(t, os.Chtimes(old, now.Add(-48*time.Hour), now.Add(-48*time.Hour)))
	require.NoError(t, os.Chtimes(nested, now.Add(-25*time.Hour), now.Add(-25*time.Hour)))

	p := workers.NewCleanupProcessor(dir, 24*time.Hour, helpers.TestLogger())
	deleted, err := p.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	assert.NoFileExists(t, old)
	assert.NoFileExists(t, nested)
	assert.FileExists(t, fresh)
}

func TestCleanupProcessor_MissingDir(t *testing.T) {
	p := workers.NewCleanupProcessor(filepath.Join(t.TempDir(), "absent"), time.Hour, helpers.TestLogger())
	deleted, err := p.Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)

	assert.NoError(t, p.CleanupTempFiles(context.Background(), workers.NewCleanupTask()))
}
