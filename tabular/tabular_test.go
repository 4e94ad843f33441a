package tabular

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/opdss/nbkit/storage"
	"github.com/opdss/nbkit/table"
)

func newTestManager(t *testing.T, opts ...Option) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	return NewManager(nil, storage.NewLocal(storage.LocalConfig{Root: dir}), opts...), dir
}

func TestLoadCSV(t *testing.T) {
	m, _ := newTestManager(t)
	content := []byte("name,qty,price\napple,3,1.25\npear,,0.5\n")

	tb, err := m.Load(context.Background(), content, Metadata{Name: "fruit.csv", Type: "text/csv"})
	require.NoError(t, err)
	require.NotNil(t, tb)
	assert.Equal(t, []string{"name", "qty", "price"}, tb.Columns())
	assert.Equal(t, 2, tb.Len())
	assert.Equal(t, []any{"apple", int64(3), 1.25}, tb.Row(0))
	assert.Equal(t, []any{"pear", nil, 0.5}, tb.Row(1))
}

func TestLoadCSVWithBOMAndParams(t *testing.T) {
	m, _ := newTestManager(t)
	content := []byte("\xef\xbb\xbfa,b\n1,2\n")

	tb, err := m.Load(context.Background(), content, Metadata{Type: "text/csv; charset=utf-8"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tb.Columns())
}

func TestLoadJSONRecords(t *testing.T) {
	m, _ := newTestManager(t)
	content := []byte(`[{"b": 1, "a": "x"}, {"a": "y", "c": true}]`)

	tb, err := m.Load(context.Background(), content, Metadata{Type: "application/json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, tb.Columns())
	assert.Equal(t, []any{int64(1), "x", nil}, tb.Row(0))
	assert.Equal(t, []any{nil, "y", true}, tb.Row(1))
}

func TestLoadJSONColumns(t *testing.T) {
	m, _ := newTestManager(t)
	content := []byte(`{"x": {"0": 1, "1": 2.5}, "y": {"0": "a", "1": null}, "z": [7, 8]}`)

	tb, err := m.Load(context.Background(), content, Metadata{Type: "application/json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, tb.Columns())
	require.Equal(t, 2, tb.Len())
	assert.Equal(t, []any{int64(1), "a", int64(7)}, tb.Row(0))
	assert.Equal(t, []any{2.5, nil, int64(8)}, tb.Row(1))
}

func TestLoadEmptyContent(t *testing.T) {
	m, _ := newTestManager(t)
	for _, content := range [][]byte{nil, {}} {
		tb, err := m.Load(context.Background(), content, Metadata{Type: "image/png"})
		require.NoError(t, err)
		require.NotNil(t, tb)
		assert.True(t, tb.IsEmpty())
		assert.Zero(t, tb.Width())
	}
}

func TestLoadDeclinesUnknownType(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewManager(zap.New(core), storage.NewLocal(storage.LocalConfig{Root: t.TempDir()}))

	tb, err := m.Load(context.Background(), []byte("\x89PNG\r\n\x1a\n"), Metadata{Type: "image/png"})
	assert.NoError(t, err)
	assert.Nil(t, tb)
	assert.Equal(t, 1, logs.FilterMessage("load declined").Len())

	// xlsx is off unless enabled
	tb, err = m.Load(context.Background(), []byte("PK"), Metadata{Type: typeOf(ExcelFormat)})
	assert.NoError(t, err)
	assert.Nil(t, tb)
}

func TestLoadSniffsMissingType(t *testing.T) {
	m, _ := newTestManager(t)

	tb, err := m.Load(context.Background(), []byte(`[{"a": 1}]`), Metadata{Name: "upload"})
	require.NoError(t, err)
	require.NotNil(t, tb)
	assert.Equal(t, []string{"a"}, tb.Columns())
}

func TestLoadMalformed(t *testing.T) {
	m, _ := newTestManager(t)
	tests := []struct {
		name    string
		typ     string
		content string
	}{
		{"broken json", "application/json", `[{"a": 1}`},
		{"json scalar", "application/json", `42`},
		{"json row not object", "application/json", `[1, 2]`},
		{"json trailing data", "application/json", `[] []`},
		{"json column scalar", "application/json", `{"a": 1}`},
		{"ragged csv", "text/csv", "a,b\n1,2,3\n"},
		{"bad quote csv", "text/csv", "a,b\n\"1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, err := m.Load(context.Background(), []byte(tt.content), Metadata{Type: tt.typ})
			require.Error(t, err)
			assert.True(t, ErrParse.Has(err), err.Error())
			assert.Nil(t, tb)
		})
	}
}

func TestLoadMaxRows(t *testing.T) {
	m, _ := newTestManager(t, WithMaxRows(1))
	_, err := m.Load(context.Background(), []byte("a\n1\n2\n"), Metadata{Type: "text/csv"})
	assert.ErrorIs(t, err, ErrMaximumLimit)
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, dir := newTestManager(t)
	content := []byte(`[{"id": 1, "name": "a", "score": 0.5, "ok": true},
		{"id": 2, "name": null, "score": 2.0, "ok": false}]`)

	orig, err := m.Load(ctx, content, Metadata{Type: "application/json"})
	require.NoError(t, err)

	path, err := m.Save(ctx, orig, "out.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.json"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	reloaded, err := m.Load(ctx, raw, Metadata{Type: "application/json"})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"name":"a","score":0.5,"ok":true},{"id":2,"name":null,"score":2.0,"ok":false}]`, string(raw))
	assert.True(t, orig.Equal(reloaded))
	for i := 0; i < orig.Len(); i++ {
		assert.Equal(t, orig.Row(i), reloaded.Row(i))
	}
	assert.IsType(t, float64(0), reloaded.Row(1)[2])

	opened, err := m.Open(ctx, "out.json")
	require.NoError(t, err)
	assert.True(t, orig.Equal(opened))
}

func TestCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithDelimiter(';'))
	orig := table.New("city", "pop", "note")
	require.NoError(t, orig.Append("Oslo", int64(709000), "capital; north"))
	require.NoError(t, orig.Append("Bergen", int64(285000), nil))

	path, err := m.Save(ctx, orig, "nested/dir/cities.csv")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "city;pop;note\nOslo;709000;\"capital; north\"\nBergen;285000;\n", string(raw))

	reloaded, err := m.Open(ctx, "nested/dir/cities.csv")
	require.NoError(t, err)
	assert.True(t, orig.Equal(reloaded))
}

func TestExcelRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithExcel())
	assert.Equal(t, []string{JSONFormat, CSVFormat, ExcelFormat}, m.Formats())

	orig := table.New("sku", "count", "price")
	require.NoError(t, orig.Append("a-1", int64(4), 9.5))
	require.NoError(t, orig.Append("b-2", int64(0), nil))

	path, err := m.Save(ctx, orig, "stock.xlsx")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	reloaded, err := m.Load(ctx, raw, Metadata{Type: typeOf(ExcelFormat)})
	require.NoError(t, err)
	assert.True(t, orig.Equal(reloaded))
}

func TestSaveDeclinesUnknownExtension(t *testing.T) {
	ctx := context.Background()
	m, dir := newTestManager(t)
	tb := table.New("a")

	for _, name := range []string{"out.xyz", "out", "out.xlsx", "sub/out.txt"} {
		path, err := m.Save(ctx, tb, name)
		assert.NoError(t, err)
		assert.Empty(t, path)
		_, err = os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err), name)
	}
	_, err := os.Stat(filepath.Join(dir, "sub"))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveUnwritable(t *testing.T) {
	ctx := context.Background()
	m, dir := newTestManager(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocker"), []byte("x"), 0o644))

	path, err := m.Save(ctx, table.New("a"), "blocker/out.csv")
	require.Error(t, err)
	assert.True(t, ErrIO.Has(err))
	assert.Empty(t, path)
}

func TestSaveLimits(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithMaxRows(1))

	_, err := m.Save(ctx, nil, "x.csv")
	assert.True(t, Error.Has(err))

	tb := table.New("a")
	require.NoError(t, tb.Append(1))
	require.NoError(t, tb.Append(2))
	_, err = m.Save(ctx, tb, "x.csv")
	assert.ErrorIs(t, err, ErrMaximumLimit)
}

func TestSaveEmptyTable(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	path, err := m.Save(ctx, table.New(), "empty.json")
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestNestedJSONToCSV(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	content := []byte(`[{"id": 1, "tags": ["x", "y"], "meta": {"k": 1}}]`)

	orig, err := m.Load(ctx, content, Metadata{Type: "application/json"})
	require.NoError(t, err)

	path, err := m.Save(ctx, orig, "out.csv")
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,tags,meta\n1,\"[\"\"x\"\",\"\"y\"\"]\",\"{\"\"k\"\":1}\"\n", string(raw))

	reloaded, err := m.Open(ctx, "out.csv")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), `["x","y"]`, `{"k":1}`}, reloaded.Row(0))

	// json keeps the nested values as they were
	_, err = m.Save(ctx, orig, "out.json")
	require.NoError(t, err)
	again, err := m.Open(ctx, "out.json")
	require.NoError(t, err)
	assert.True(t, orig.Equal(again))
}

func TestNestedCellsToExcel(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithExcel())
	orig, err := m.Load(ctx, []byte(`[{"id": 1, "tags": ["x"]}]`), Metadata{Type: "application/json"})
	require.NoError(t, err)

	_, err = m.Save(ctx, orig, "nested.xlsx")
	require.NoError(t, err)
	reloaded, err := m.Open(ctx, "nested.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), `["x"]`}, reloaded.Row(0))
}

func TestLoadExcelRaggedRow(t *testing.T) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	require.NoError(t, f.SetSheetRow(DefaultSheetName, "A1", &[]any{"a", "b"}))
	require.NoError(t, f.SetSheetRow(DefaultSheetName, "A2", &[]any{1, 2, 3}))
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	m, _ := newTestManager(t, WithExcel())
	tb, err := m.Load(context.Background(), buf.Bytes(), Metadata{Type: typeOf(ExcelFormat)})
	require.Error(t, err)
	assert.True(t, ErrParse.Has(err))
	assert.Nil(t, tb)
}

func TestStat(t *testing.T) {
	ctx := context.Background()
	m, dir := newTestManager(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "upload"), []byte(`[{"x": 1}]`), 0o644))

	meta, err := m.Stat(ctx, "a.csv")
	require.NoError(t, err)
	assert.Equal(t, "a.csv", meta.Name)
	assert.Equal(t, "text/csv", meta.Type)
	assert.EqualValues(t, 4, meta.Size)
	assert.False(t, meta.LastModified.IsZero())

	meta, err = m.Stat(ctx, "upload")
	require.NoError(t, err)
	assert.Equal(t, "application/json", meta.Type)

	tb, err := m.Open(ctx, "upload")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, tb.Columns())

	_, err = m.Stat(ctx, "missing.csv")
	assert.True(t, ErrIO.Has(err))
}
