package outwriter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 2", 2, 3.14159, "3.14"},
		{"precision 0", 0, 3.14159, "3"},
		{"precision 1", 1, 88.235, "88.2"},
		{"negative value", 2, -42.567, "-42.57"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"name": "test", "value": 42}))
	assert.Equal(t, "{\n  \"name\": \"test\",\n  \"value\": 42\n}\n", buf.String())

	buf.Reset()
	err := writeJSON(&buf, map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteWithFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(outputPath, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}, "Wrote test")
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	err = writeWithFile("/nonexistent/directory/out.txt", func(io.Writer) error { return nil }, "Wrote test")
	require.Error(t, err)
}

func TestFmtPercent(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	assert.Equal(t, "-", fmtPercent(fmtFloat, 0, false))
	assert.Equal(t, "0.0", fmtPercent(fmtFloat, 0, true))
	assert.Empty(t, csvPercent(fmtFloat, 50, false))
	assert.Equal(t, "50.0", csvPercent(fmtFloat, 50, true))
}

func TestLabelForWithoutColors(t *testing.T) {
	cfg := &contract.Config{UseColors: false}
	assert.Equal(t, schema.GoodValue, labelFor(cfg, 80, true))
	assert.Equal(t, schema.UnmeasuredValue, labelFor(cfg, 0, false))
}

func TestSuccessMessage(t *testing.T) {
	assert.Equal(t, "Wrote JSON", successMessage(schema.JSONOut))
	assert.Equal(t, "Wrote CSV", successMessage(schema.CSVOut))
	assert.Equal(t, "Wrote table", successMessage(schema.TextOut))
}

func TestStoreBackendName(t *testing.T) {
	assert.Equal(t, schema.NoneBackend, storeBackendName(&contract.Config{}))
	assert.Equal(t, schema.SQLiteBackend, storeBackendName(&contract.Config{StoreBackend: schema.SQLiteBackend}))
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		baseWidth int
		expected  int
	}{
		{"narrow clamps to minimum", 60, filesTableWidth, 15},
		{"wide clamps to maximum", 300, filesTableWidth, 70},
		{"in between", 120, filesTableWidth, 45},
		{"compare table", 100, compareTableWidth, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, GetMaxTablePathWidth(cfg, tt.baseWidth))
		})
	}
}
