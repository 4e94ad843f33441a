package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// missing are the markers read back as nil cells.
var missing = map[string]struct{}{
	"NA": {}, "N/A": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {},
}

// Infer turns a text cell into the narrowest cell type: int64, float64, bool, or the
// string itself. Blank cells and missing markers are nil.
func Infer(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := missing[s]; ok {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	switch s {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	return s
}

// Normalize maps decoded JSON values onto cell types. Nested values are kept as is.
func Normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
