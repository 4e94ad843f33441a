package tabular

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/opdss/nbkit/table"
)

// DefaultSheetName 默认操作表
const DefaultSheetName = "Sheet1"

func (m *Manager) encode(w io.Writer, t *table.Table, format string) error {
	var err error
	switch format {
	case JSONFormat:
		err = encodeJSON(w, t)
	case CSVFormat:
		err = encodeCSV(w, t, m.options.delimiter)
	case ExcelFormat:
		err = encodeExcel(w, t)
	default:
		return Error.New("unsupported format %q", format)
	}
	return Error.Wrap(err)
}

// encodeJSON writes one object per row with keys in column order.
func encodeJSON(w io.Writer, t *table.Table) error {
	columns := t.Columns()
	keys := make([][]byte, len(columns))
	for i, c := range columns {
		k, err := json.Marshal(c)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	buf := []byte{'['}
	it := t.Rows()
	for n := 0; it.Next(); n++ {
		if n > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, '{')
		for i, v := range it.Value() {
			if i > 0 {
				buf = append(buf, ',')
			}
			b, err := encodeCell(v)
			if err != nil {
				return err
			}
			buf = append(buf, keys[i]...)
			buf = append(buf, ':')
			buf = append(buf, b...)
		}
		buf = append(buf, '}')
	}
	buf = append(buf, ']')
	_, err := w.Write(buf)
	return err
}

// encodeCell keeps integral floats as 2.0 so they decode back as floats.
func encodeCell(v any) ([]byte, error) {
	switch f := v.(type) {
	case float64:
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			return []byte(table.FormatFloat(f)), nil
		}
	case float32:
		return encodeCell(float64(f))
	}
	return json.Marshal(v)
}

// encodeCSV writes a header row followed by the rows, without an index column.
func encodeCSV(w io.Writer, t *table.Table, delimiter rune) error {
	fw := csv.NewWriter(w)
	fw.Comma = delimiter
	if err := fw.Write(t.Columns()); err != nil {
		return err
	}
	values := make([]string, t.Width())
	it := t.Rows()
	for it.Next() {
		for i, v := range it.Value() {
			values[i] = table.Render(v)
		}
		if err := fw.Write(values); err != nil {
			return err
		}
	}
	fw.Flush()
	return fw.Error()
}

func encodeExcel(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	sw, err := f.NewStreamWriter(DefaultSheetName)
	if err != nil {
		return err
	}
	header := make([]any, t.Width())
	for i, c := range t.Columns() {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	it := t.Rows()
	for row := 2; it.Next(); row++ {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, excelRow(it.Value())); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// excelRow writes nested cells as their json text, scalars stay typed.
func excelRow(row []any) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if table.IsScalar(v) {
			out[i] = v
		} else {
			out[i] = table.Render(v)
		}
	}
	return out
}
