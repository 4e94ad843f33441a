package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cast"
)

const (
	kindNil = iota
	kindBool
	kindInt
	kindFloat
	kindString
	kindNested
)

func kindOf(v any) int {
	switch v.(type) {
	case nil:
		return kindNil
	case bool:
		return kindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindInt
	case float32, float64:
		return kindFloat
	case string:
		return kindString
	default:
		return kindNested
	}
}

// IsScalar reports whether v is a plain cell value rather than a nested list or object.
func IsScalar(v any) bool {
	return kindOf(v) != kindNested
}

// Render turns a cell into text. nil is "", integral floats keep a ".0" so they read
// back as floats, and nested values are written as JSON.
func Render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return FormatFloat(x)
	case float32:
		return FormatFloat(float64(x))
	}
	if IsScalar(v) {
		return cast.ToString(v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// FormatFloat formats f in the shortest form that still parses as a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return strconv.FormatFloat(f, 'f', -1, 64)
	case math.Abs(f) >= 1e21:
		return strconv.FormatFloat(f, 'g', -1, 64)
	case f == math.Trunc(f):
		return strconv.FormatFloat(f, 'f', -1, 64) + ".0"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
