package tabular

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/opdss/nbkit/table"
)

var bom = []byte("\xef\xbb\xbf")

func (m *Manager) decode(content []byte, format string) (t *table.Table, err error) {
	content = bytes.TrimPrefix(content, bom)
	switch format {
	case JSONFormat:
		t, err = decodeJSON(content)
	case CSVFormat:
		t, err = decodeCSV(content, m.options.delimiter)
	case ExcelFormat:
		t, err = decodeExcel(content)
	default:
		return nil, Error.New("unsupported format %q", format)
	}
	if err != nil {
		return nil, ErrParse.Wrap(err)
	}
	if m.options.maxRows > 0 && t.Len() > m.options.maxRows {
		return nil, ErrMaximumLimit
	}
	return t, nil
}

func decodeCSV(content []byte, delimiter rune) (*table.Table, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = delimiter
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return table.New(), nil
	}
	t := table.New(records[0]...)
	for _, rec := range records[1:] {
		row := make([]any, len(rec))
		for i := range rec {
			row[i] = table.Infer(rec[i])
		}
		if err := t.Append(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func decodeExcel(content []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return table.New(), nil
	}
	t := table.New(rows[0]...)
	for _, rec := range rows[1:] {
		if len(rec) > t.Width() {
			return nil, Error.New("row %d has %d cells, header has %d", t.Len()+2, len(rec), t.Width())
		}
		// GetRows drops trailing empty cells
		row := make([]any, t.Width())
		for i := 0; i < len(row) && i < len(rec); i++ {
			row[i] = table.Infer(rec[i])
		}
		if err := t.Append(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// decodeJSON accepts a list of records, [{"a": 1}, ...], or an object of columns,
// {"a": {"0": 1, ...}} or {"a": [1, ...]}. Column and row order follow first appearance.
func decodeJSON(content []byte) (*table.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	var t *table.Table
	switch tok {
	case json.Delim('['):
		t, err = decodeRecords(dec)
	case json.Delim('{'):
		t, err = decodeColumns(dec)
	default:
		return nil, Error.New("expected a json array or object, got %v", tok)
	}
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, Error.New("unexpected data after json value")
	}
	return t, nil
}

func decodeRecords(dec *json.Decoder) (*table.Table, error) {
	var columns []string
	seen := map[string]struct{}{}
	var records []map[string]any
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if tok != json.Delim('{') {
			return nil, Error.New("record %d is not an object", len(records))
		}
		keys, values, err := readObject(dec)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
		records = append(records, values)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return table.FromRecords(columns, records), nil
}

func decodeColumns(dec *json.Decoder) (*table.Table, error) {
	var (
		columns []string
		labels  []string
		seen    = map[string]struct{}{}
		cells   = map[string]map[string]any{} //列 -> 行标签 -> 值
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		col, _ := tok.(string)

		tok, err = dec.Token()
		if err != nil {
			return nil, err
		}
		var keys []string
		var values map[string]any
		switch tok {
		case json.Delim('{'):
			keys, values, err = readObject(dec)
		case json.Delim('['):
			keys, values, err = readArray(dec)
		default:
			return nil, Error.New("column %q is not an object or array", col)
		}
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				labels = append(labels, k)
			}
		}
		if _, dup := cells[col]; !dup {
			columns = append(columns, col)
		}
		cells[col] = values
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	records := make([]map[string]any, len(labels))
	for i, label := range labels {
		rec := make(map[string]any, len(columns))
		for _, col := range columns {
			rec[col] = cells[col][label]
		}
		records[i] = rec
	}
	return table.FromRecords(columns, records), nil
}

// readObject reads the members of an object whose opening brace was consumed.
func readObject(dec *json.Decoder) ([]string, map[string]any, error) {
	var keys []string
	values := map[string]any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		if _, dup := values[key]; !dup {
			keys = append(keys, key)
		}
		values[key] = table.Normalize(v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

// readArray reads the elements of an array whose opening bracket was consumed,
// keyed by position.
func readArray(dec *json.Decoder) ([]string, map[string]any, error) {
	var keys []string
	values := map[string]any{}
	for i := 0; dec.More(); i++ {
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		k := strconv.Itoa(i)
		keys = append(keys, k)
		values[k] = table.Normalize(v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}
