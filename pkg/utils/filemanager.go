// =============================================================================
// Estados de Cuenta - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a run:
//   - Workbook discovery (a file path or a directory holding the workbook)
//   - Output file naming
//   - Report and error log files
//
// The workbook is never moved or modified. Report files are written to the
// configured output directory, which is created on demand.
//
// =============================================================================

package utils

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoWorkbook is returned when a directory holds no .xlsx workbook.
var ErrNoWorkbook = errors.New("no .xlsx workbook found")

// =============================================================================
// WORKBOOK DISCOVERY
// =============================================================================

// ResolveWorkbook returns the workbook to read.
//
// PARAMETERS:
//   - path: A workbook file, or a directory. For a directory the first
//     .xlsx file in name order is used; Excel lock files ("~$...") and
//     subdirectories are ignored.
//
// RETURNS:
//   - The workbook path.
//   - An error if the path does not exist or the directory has no workbook.
func ResolveWorkbook(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat workbook path: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}

	files, err := DiscoverWorkbooks(path)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoWorkbook, path)
	}
	return files[0], nil
}

// DiscoverWorkbooks lists the .xlsx files of a directory in name order.
func DiscoverWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	var result []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			result = append(result, filepath.Join(dir, name))
		}
	}

	slices.Sort(result)
	return result, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Current date (YYYYMMDD)
//     {time}      - Current time (HHMMSS)
//     {workbook}  - Workbook file name without extension, when given
//   - ext: The extension to ensure, with its dot (e.g. ".txt").
//   - params: Extra placeholder values.
//
// EXAMPLE:
//
//	format: "{workbook}_{date}_{uuid}"
//	params: {"workbook": "Estados_de_Cuenta"}
//	output: "Estados_de_Cuenta_20240115_a1b2c3d4-e5f6-7890-abcd-ef1234567890.txt"
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// WorkbookStem returns the file name of a workbook path without extension.
func WorkbookStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// REPORT FILES
// =============================================================================

// WriteReportFile writes data to dir/name, creating dir if needed.
//
// RETURNS:
//   - The path of the written file.
func WriteReportFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry is one failed artist of a run.
type ErrorLogEntry struct {
	Timestamp time.Time
	Sheet     string
	Stage     string
	Message   string
}

// WriteErrorLog writes error entries to a log file in outputDir.
//
// RETURNS:
//   - The path to the error log file, or "" when there are no entries.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	logPath := filepath.Join(outputDir, fmt.Sprintf("error_log_%s.txt", time.Now().Format("20060102_150405")))
	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Estados de Cuenta - Error Log\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  Timestamp: %s\n"+
			"  Sheet:     %s\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Sheet)
		if entry.Stage != "" {
			fmt.Fprintf(writer, "  Stage:     %s\n", entry.Stage)
		}
		fmt.Fprintf(writer, "  Message:   %s\n\n", entry.Message)
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}
	return logPath, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
