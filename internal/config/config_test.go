package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Estados_de_Cuenta.xlsx", cfg.Workbook)
	assert.Equal(t, []string{"Base de datos", "MODELO"}, cfg.SkipSheets)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, 5, cfg.Report.LastTransactions)
	assert.Equal(t, 100, cfg.Import.BatchSize)
	assert.NoError(t, validateMainConfig(cfg))

	opts := cfg.LedgerOptions()
	assert.Equal(t, 1, opts.LabelColumn)
	assert.Equal(t, 4, opts.ValueColumn)
	assert.Equal(t, []string{"Fecha", "Concepto"}, opts.HeaderMarkers)
}

func TestLoadMainConfig(t *testing.T) {
	path := writeConfig(t, `
workbook: data/
skip_sheets: []
max_concurrency: 1
layout:
  label_column: 0
  value_column: 2
  header_markers: ["Fecha"]
  labels:
    - key: nombre_legal
      contains: ["razon social"]
report:
  format: yaml
  last_transactions: 3
`)

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "data/", cfg.Workbook)
	assert.Empty(t, cfg.SkipSheets, "an explicit empty list disables skipping")
	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.Equal(t, 0, cfg.Layout.LabelColumn)
	assert.Equal(t, 2, cfg.Layout.ValueColumn)
	assert.Equal(t, []string{"Fecha"}, cfg.Layout.HeaderMarkers)
	assert.Equal(t, "Avance", cfg.Layout.AdvanceMarker)
	require.Len(t, cfg.Layout.Labels, 1)
	assert.Equal(t, []string{"razon social"}, cfg.Layout.Labels[0].Contains)
	assert.Equal(t, "yaml", cfg.Report.Format)
	assert.Equal(t, 3, cfg.Report.LastTransactions)
}

func TestLoadMainConfigInvalid(t *testing.T) {
	path := writeConfig(t, `
max_concurrency: -2
report:
  format: xml
`)

	_, err := LoadMainConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrency")
	assert.Contains(t, err.Error(), `unknown report format "xml"`)
}

func TestLoadMainConfigBadDelimiter(t *testing.T) {
	path := writeConfig(t, `
report:
  csv_delimiter: ";;"
`)

	_, err := LoadMainConfig(path)
	assert.ErrorContains(t, err, `report invalid csv delimiter ";;"`)
}

func TestLoadMainConfigBadYAML(t *testing.T) {
	_, err := LoadMainConfig(writeConfig(t, "workbook: [unterminated"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestResolve(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := Resolve(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Resolve(missing, true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
