// =============================================================================
// Catalog Normalizer - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the normalizer:
//   - Output file naming
//   - Backups of host files before they are overwritten
//   - Atomic writes (temp file + rename)
//
// BACKUP STRATEGY:
//   - Before an in-place write the original file is copied to the backup dir
//   - The backup name carries a timestamp so repeated runs never collide
//   - Optionally, backups go into date-based subdirectories (YYYY/MM/DD)
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the normalizer.
type FileManager struct {
	// OutputDir is where alongside output files are written.
	// Empty means next to the input file.
	OutputDir string

	// BackupDir is the directory for backups of overwritten files.
	BackupDir string

	// UseTimestampSubdirs creates date-based subdirectories in the backup dir.
	// Example: backup/2024/01/15/casing.go.20240115_143022.bak
	UseTimestampSubdirs bool

	// now is replaceable in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, backupDir string) *FileManager {
	return &FileManager{
		OutputDir: outputDir,
		BackupDir: backupDir,
		now:       time.Now,
	}
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputPath returns where the normalized copy of inputPath is written.
//
// PARAMETERS:
//   - inputPath: The host file being normalized.
//   - format: The file name format (see GenerateOutputFileName).
//
// RETURNS:
//   - The output path, in OutputDir or next to the input file.
func (fm *FileManager) OutputPath(inputPath, format string) string {
	dir := fm.OutputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, GenerateOutputFileName(format, inputPath, fm.now()))
}

// GenerateOutputFileName generates an output file name from a format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {original}  - Input file name without extension
//     {ext}       - Input file extension, including the dot
//     {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Date (YYYYMMDD)
//     {uuid}      - A random UUID
//   - inputPath: The input file path.
//   - now: The time used for {timestamp} and {date}.
//
// EXAMPLE:
//
//	format: "{original}_normalized{ext}"
//	input:  "internal/db/dummy/casing.go"
//	output: "casing_normalized.go"
func GenerateOutputFileName(format, inputPath string, now time.Time) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)

	replacer := strings.NewReplacer(
		"{original}", strings.TrimSuffix(base, ext),
		"{ext}", ext,
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{uuid}", uuid.New().String(),
	)

	return replacer.Replace(format)
}

// =============================================================================
// BACKUPS
// =============================================================================

// BackupFile copies filePath into the backup directory.
//
// RETURNS:
//   - The path to the backup copy.
//   - An error if the copy fails.
func (fm *FileManager) BackupFile(filePath string) (string, error) {
	backupPath := fm.getBackupPath(filePath)

	if err := os.MkdirAll(filepath.Dir(backupPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := copyFile(filePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to copy file to backup: %w", err)
	}

	return backupPath, nil
}

// getBackupPath constructs the backup path for a file.
func (fm *FileManager) getBackupPath(filePath string) string {
	now := fm.now()
	fileName := fmt.Sprintf("%s.%s.bak", filepath.Base(filePath), now.Format("20060102_150405.000000000"))

	if fm.UseTimestampSubdirs {
		subDir := filepath.Join(
			fm.BackupDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
		return filepath.Join(subDir, fileName)
	}

	return filepath.Join(fm.BackupDir, fileName)
}

// =============================================================================
// WRITING
// =============================================================================

// WriteFileAtomic writes data to a temporary file in the destination
// directory and renames it over path, so readers never see a partial file.
// An existing file keeps its permissions.
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
