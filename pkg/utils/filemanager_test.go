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

var fixedTime = time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

func TestGenerateOutputFileName(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		want   string
	}{
		{name: "default", format: "{original}_normalized{ext}", input: "internal/db/dummy/casing.go", want: "casing_normalized.go"},
		{name: "timestamp", format: "{original}_{timestamp}{ext}", input: "casing.go", want: "casing_20240115_143022.go"},
		{name: "date no ext", format: "{date}-{original}", input: "data", want: "20240115-data"},
		{name: "literal", format: "out.json", input: "casing.go", want: "out.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateOutputFileName(tt.format, tt.input, fixedTime))
		})
	}
}

func TestGenerateOutputFileName_UUID(t *testing.T) {
	got := GenerateOutputFileName("{original}_{uuid}{ext}", "casing.go", fixedTime)
	assert.Regexp(t, regexp.MustCompile(`^casing_[0-9a-f-]{36}\.go$`), got)
}

func TestFileManager_OutputPath(t *testing.T) {
	fm := NewFileManager("", "backup")
	assert.Equal(t, filepath.Join("internal", "db", "casing_normalized.go"),
		fm.OutputPath(filepath.Join("internal", "db", "casing.go"), "{original}_normalized{ext}"))

	fm = NewFileManager("out", "backup")
	assert.Equal(t, filepath.Join("out", "casing_normalized.go"),
		fm.OutputPath(filepath.Join("internal", "db", "casing.go"), "{original}_normalized{ext}"))
}

func TestFileManager_BackupFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "casing.go")
	require.NoError(t, os.WriteFile(src, []byte("original"), 0o644))

	fm := NewFileManager("", filepath.Join(dir, "backup"))
	fm.now = func() time.Time { return fixedTime }

	backup, err := fm.BackupFile(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup", "casing.go.20240115_143022.000000000.bak"), backup)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	// The source is left in place.
	assert.True(t, FileExists(src))
}

func TestFileManager_BackupFile_TimestampSubdirs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "casing.go")
	require.NoError(t, os.WriteFile(src, []byte("original"), 0o644))

	fm := NewFileManager("", filepath.Join(dir, "backup"))
	fm.UseTimestampSubdirs = true
	fm.now = func() time.Time { return fixedTime }

	backup, err := fm.BackupFile(src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "backup", "2024", "01", "15"), filepath.Dir(backup))
}

func TestFileManager_BackupFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	fm := NewFileManager("", filepath.Join(dir, "backup"))

	_, err := fm.BackupFile(filepath.Join(dir, "missing.go"))
	assert.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.go")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should be cleaned up")
}

func TestWriteFileAtomic_KeepsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.go")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	require.NoError(t, WriteFileAtomic(path, []byte("y")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
