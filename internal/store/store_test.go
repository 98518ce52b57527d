package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "Artist1", escapeLike("Artist1"))
	assert.Equal(t, `100\% Bad\_Bunny`, escapeLike("100% Bad_Bunny"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}

// unsetDatabaseURL clears DATABASE_URL for the test and restores it after.
func unsetDatabaseURL(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
}

func writeEnv(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDatabaseURLFromEnvFiles(t *testing.T) {
	unsetDatabaseURL(t)
	dir := t.TempDir()

	local := writeEnv(t, dir, ".env.local", "DATABASE_URL=postgres://local/db\n")
	shared := writeEnv(t, dir, ".env", "DATABASE_URL=postgres://shared/db\n")

	url, err := DatabaseURL(local, shared)
	require.NoError(t, err)
	assert.Equal(t, "postgres://local/db", url)
}

func TestDatabaseURLSkipsMissingFiles(t *testing.T) {
	unsetDatabaseURL(t)
	dir := t.TempDir()

	shared := writeEnv(t, dir, ".env", "DATABASE_URL=postgres://shared/db\n")

	url, err := DatabaseURL(filepath.Join(dir, ".env.local"), shared)
	require.NoError(t, err)
	assert.Equal(t, "postgres://shared/db", url)
}

func TestDatabaseURLEnvironmentWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	dir := t.TempDir()

	url, err := DatabaseURL(writeEnv(t, dir, ".env", "DATABASE_URL=postgres://file/db\n"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", url)
}

func TestDatabaseURLMissing(t *testing.T) {
	unsetDatabaseURL(t)

	_, err := DatabaseURL(filepath.Join(t.TempDir(), ".env"))
	assert.ErrorIs(t, err, ErrNoDatabaseURL)
}
