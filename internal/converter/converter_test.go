package converter

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/catalog-normalizer/internal/config"
	"github.com/ginjaninja78/catalog-normalizer/internal/extractor"
	"github.com/ginjaninja78/catalog-normalizer/internal/transformer"
)

const casingSource = "package dummy\n\n" +
	"// CasingData is dummy catalog data.\n" +
	"const CasingData = `[\n" +
	"  {\"product_name\": \"Helm\", \"price\": \"Rp150.000\", \"discount_price\": \"null\", \"rating\": 4.50}\n" +
	"]`\n"

// constSource always returns zero.
type constSource struct{}

func (constSource) IntN(int) int { return 0 }

func writeHost(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "casing.go")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestConverter(t *testing.T, cfg *config.MainConfig, opts ...Option) *Converter {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.BackupDir = filepath.Join(t.TempDir(), "backup")
	c, err := New(cfg, zerolog.Nop(), append([]Option{WithRandom(constSource{})}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestRun_WritesAlongside(t *testing.T) {
	input := writeHost(t, casingSource)
	c := newTestConverter(t, nil)

	result := c.Run(context.Background(), input, RunOptions{})
	require.NoError(t, result.Error)
	assert.True(t, result.Success())

	assert.Equal(t, filepath.Join(filepath.Dir(input), "casing_normalized.go"), result.OutputFile)
	assert.Empty(t, result.BackupFile)
	assert.Equal(t, int64(2), result.NextID)
	assert.Equal(t, transformer.Stats{Records: 1, Normalized: 1, SentinelsKept: 1}, result.Stats)

	got, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)

	want := "package dummy\n\n" +
		"// CasingData is dummy catalog data.\n" +
		"const CasingData = `[\n" +
		"  {\n" +
		"    \"discount_price\": \"null\",\n" +
		"    \"id\": 1,\n" +
		"    \"price\": 150000,\n" +
		"    \"product_name\": \"Helm\",\n" +
		"    \"quantity\": 1,\n" +
		"    \"rating\": 4.50\n" +
		"  }\n" +
		"]`\n"
	assert.Equal(t, want, string(got))

	// Source untouched.
	src, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, casingSource, string(src))

	require.Len(t, result.Records, 1)
	assert.Equal(t, int64(150000), result.Records[0]["price"])
}

func TestRun_InPlaceBacksUp(t *testing.T) {
	input := writeHost(t, casingSource)
	c := newTestConverter(t, nil)

	result := c.Run(context.Background(), input, RunOptions{InPlace: true})
	require.NoError(t, result.Error)

	assert.Equal(t, input, result.OutputFile)
	require.NotEmpty(t, result.BackupFile)

	backup, err := os.ReadFile(result.BackupFile)
	require.NoError(t, err)
	assert.Equal(t, casingSource, string(backup))

	updated, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Contains(t, string(updated), "\"price\": 150000")
}

func TestRun_ExplicitOutputPath(t *testing.T) {
	input := writeHost(t, casingSource)
	out := filepath.Join(t.TempDir(), "sub", "out.go")
	c := newTestConverter(t, nil)

	result := c.Run(context.Background(), input, RunOptions{OutputPath: out})
	require.NoError(t, result.Error)
	assert.Equal(t, out, result.OutputFile)
	assert.FileExists(t, out)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	input := writeHost(t, casingSource)
	c := newTestConverter(t, nil)

	result := c.Run(context.Background(), input, RunOptions{DryRun: true})
	require.NoError(t, result.Error)
	assert.Empty(t, result.OutputFile)
	assert.Len(t, result.Records, 1)

	entries, err := os.ReadDir(filepath.Dir(input))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_MalformedPriceLeavesNoOutput(t *testing.T) {
	input := writeHost(t, "const X = `[{\"product_name\": \"A\", \"price\": \"Rp1.000\"}, {\"product_name\": \"B\", \"price\": \"N/A\"}]`")
	c := newTestConverter(t, nil)

	result := c.Run(context.Background(), input, RunOptions{InPlace: true})
	require.Error(t, result.Error)
	assert.Nil(t, result.Records)
	assert.Empty(t, result.OutputFile)
	assert.Empty(t, result.BackupFile)

	var fe *transformer.FormatError
	require.True(t, errors.As(result.Error, &fe))
	assert.Equal(t, 2, fe.Index)
	assert.Equal(t, "price", fe.Field)

	src, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.NotContains(t, string(src), "\"id\"")
}

func TestRun_ExtractionErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "no markers", content: "package dummy\n", want: extractor.ErrStartMarkerNotFound},
		{name: "unterminated", content: "const X = `[", want: extractor.ErrEndMarkerNotFound},
		{name: "invalid json", content: "const X = `[{]`", want: extractor.ErrInvalidData},
		{name: "not an array", content: "const X = `{\"a\": 1}`", want: extractor.ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := writeHost(t, tt.content)
			result := newTestConverter(t, nil).Run(context.Background(), input, RunOptions{})

			require.Error(t, result.Error)
			assert.ErrorIs(t, result.Error, tt.want)

			var ee *extractor.ExtractionError
			assert.True(t, errors.As(result.Error, &ee))
		})
	}
}

func TestRun_MissingInput(t *testing.T) {
	result := newTestConverter(t, nil).Run(context.Background(), filepath.Join(t.TempDir(), "missing.go"), RunOptions{})
	require.Error(t, result.Error)
	assert.ErrorIs(t, result.Error, fs.ErrNotExist)
}

func TestRun_PresenceWarningsAndStrict(t *testing.T) {
	content := "const X = `[{\"price\": \"Rp1.000\"}]`"

	result := newTestConverter(t, nil).Run(context.Background(), writeHost(t, content), RunOptions{DryRun: true})
	require.NoError(t, result.Error)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "product_name", result.Warnings[0].Field)

	cfg := config.Default()
	cfg.StrictPresence = true
	result = newTestConverter(t, cfg).Run(context.Background(), writeHost(t, content), RunOptions{DryRun: true})
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "presence check failed")
}

func TestRun_StrictStopOnFirstError(t *testing.T) {
	cfg := config.Default()
	cfg.StrictPresence = true
	cfg.StopOnFirstError = true

	input := writeHost(t, "const X = `[{\"price\": \"Rp1\"}, {\"price\": \"Rp2\"}]`")
	result := newTestConverter(t, cfg).Run(context.Background(), input, RunOptions{DryRun: true})
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "1 finding(s)")
	assert.Contains(t, result.Error.Error(), "Record 1")
	assert.NotContains(t, result.Error.Error(), "Record 2")
}

func TestRun_WarnsWhenOverwritingOutput(t *testing.T) {
	input := writeHost(t, casingSource)

	var logs bytes.Buffer
	cfg := config.Default()
	cfg.BackupDir = filepath.Join(t.TempDir(), "backup")
	c, err := New(cfg, zerolog.New(&logs), WithRandom(constSource{}))
	require.NoError(t, err)

	require.NoError(t, c.Run(context.Background(), input, RunOptions{}).Error)
	assert.NotContains(t, logs.String(), "Overwriting existing output file")

	require.NoError(t, c.Run(context.Background(), input, RunOptions{}).Error)
	assert.Contains(t, logs.String(), "Overwriting existing output file")
}

func TestRun_ExportsWorkbook(t *testing.T) {
	input := writeHost(t, casingSource)
	workbook := filepath.Join(t.TempDir(), "records.xlsx")

	result := newTestConverter(t, nil).Run(context.Background(), input, RunOptions{WorkbookPath: workbook})
	require.NoError(t, result.Error)
	assert.Equal(t, workbook, result.WorkbookFile)
	assert.FileExists(t, workbook)
}

func TestRun_DryRunSkipsWorkbook(t *testing.T) {
	input := writeHost(t, casingSource)
	workbook := filepath.Join(t.TempDir(), "records.xlsx")

	result := newTestConverter(t, nil).Run(context.Background(), input, RunOptions{DryRun: true, WorkbookPath: workbook})
	require.NoError(t, result.Error)
	assert.Empty(t, result.WorkbookFile)
	assert.NoFileExists(t, workbook)
}

func TestRun_WorkbookFailureLeavesHostUntouched(t *testing.T) {
	input := writeHost(t, casingSource)

	// A regular file where a directory is expected makes the save fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	c := newTestConverter(t, nil)
	result := c.Run(context.Background(), input, RunOptions{InPlace: true, WorkbookPath: filepath.Join(blocker, "records.xlsx")})
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "failed to export workbook")
	assert.Empty(t, result.BackupFile)

	src, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, casingSource, string(src))
	assert.NoDirExists(t, c.cfg.BackupDir)
}

func TestRun_WorkbookRemovedWhenWriteFails(t *testing.T) {
	input := writeHost(t, casingSource)
	workbook := filepath.Join(t.TempDir(), "records.xlsx")

	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	result := newTestConverter(t, nil).Run(context.Background(), input, RunOptions{
		OutputPath:   filepath.Join(blocker, "out.go"),
		WorkbookPath: workbook,
	})
	require.Error(t, result.Error)
	assert.Empty(t, result.WorkbookFile)
	assert.NoFileExists(t, workbook)
}

func TestRun_ConfiguredIDStartAndIndent(t *testing.T) {
	cfg := config.Default()
	cfg.IDStart = 100
	cfg.Indent = "\t"

	input := writeHost(t, "const X = `[{\"product_name\": \"A\"}, {\"product_name\": \"B\"}]`")
	result := newTestConverter(t, cfg).Run(context.Background(), input, RunOptions{})
	require.NoError(t, result.Error)

	assert.Equal(t, int64(100), result.Records[0]["id"])
	assert.Equal(t, int64(101), result.Records[1]["id"])
	assert.Equal(t, int64(102), result.NextID)

	out, err := os.ReadFile(result.OutputFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "const X = `[\n\t{\n\t\t\"id\": 100,"))
}

func TestRun_CustomExtractor(t *testing.T) {
	input := writeHost(t, "var data = /*BEGIN*/[{\"product_name\": \"A\"}]/*END*/\n")
	c := newTestConverter(t, nil, WithExtractor(extractor.NewMarkerExtractor("/*BEGIN*/", "/*END*/")))

	result := c.Run(context.Background(), input, RunOptions{DryRun: true})
	require.NoError(t, result.Error)
	assert.Equal(t, int64(1), result.Records[0]["id"])
}

func TestRun_CancelledContext(t *testing.T) {
	input := writeHost(t, casingSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := newTestConverter(t, nil).Run(ctx, input, RunOptions{})
	require.Error(t, result.Error)
	assert.ErrorIs(t, result.Error, context.Canceled)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(input), "casing_normalized.go"))
}

func TestNew_InvalidQuantityRange(t *testing.T) {
	cfg := config.Default()
	cfg.QuantityMin = 10
	cfg.QuantityMax = 1

	_, err := New(cfg, zerolog.Nop())
	assert.Error(t, err)
}
