package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestResolveWorkbookFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Estados_de_Cuenta.xlsx")
	touch(t, path)

	got, err := ResolveWorkbook(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestResolveWorkbookDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "~$b.xlsx"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "c.XLSX"))
	touch(t, filepath.Join(dir, "b.xlsx"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a.xlsx"), 0o755))

	got, err := ResolveWorkbook(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.xlsx"), got)

	all, err := DiscoverWorkbooks(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.xlsx"), filepath.Join(dir, "c.XLSX")}, all)
}

func TestResolveWorkbookErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ResolveWorkbook(dir)
	assert.ErrorIs(t, err, ErrNoWorkbook)

	_, err = ResolveWorkbook(filepath.Join(dir, "missing.xlsx"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateOutputFileName(t *testing.T) {
	name := GenerateOutputFileName("{workbook}_{date}_{uuid}", ".txt", map[string]string{"workbook": "Estados"})

	pattern := regexp.MustCompile(`^Estados_\d{8}_[0-9a-f-]{36}\.txt$`)
	assert.Regexp(t, pattern, name)

	assert.Equal(t, "fixed.json", GenerateOutputFileName("fixed.json", ".json", nil))
	assert.Equal(t, "fixed", GenerateOutputFileName("fixed", "", nil))
}

func TestWorkbookStem(t *testing.T) {
	assert.Equal(t, "Estados_de_Cuenta", WorkbookStem("/data/Estados_de_Cuenta.xlsx"))
}

func TestWriteReportFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "2024")

	path, err := WriteReportFile(dir, "report.txt", []byte("hola"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hola", string(data))
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(nil, dir)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = WriteErrorLog([]ErrorLogEntry{
		{Timestamp: time.Now(), Sheet: "Artist1", Stage: "import", Message: "connection reset"},
		{Timestamp: time.Now(), Sheet: "Artist2", Message: "sheet not found"},
	}, dir)
	require.NoError(t, err)
	assert.True(t, FileExists(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Total Errors: 2")
	assert.Contains(t, out, "  Sheet:     Artist1")
	assert.Contains(t, out, "  Stage:     import")
	assert.Contains(t, out, "  Message:   sheet not found")
}
