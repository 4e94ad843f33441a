package tabular

import (
	"time"

	"github.com/spf13/cast"
)

// Metadata describes an uploaded file as reported by an upload widget.
type Metadata struct {
	Name         string    `json:"name"`
	Type         string    `json:"type"` //MIME类型,如 text/csv
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// MetadataFromMap reads the loosely typed value dict an upload widget reports.
// last_modified may be a time, an RFC 3339 string or epoch milliseconds.
func MetadataFromMap(m map[string]any) Metadata {
	meta := Metadata{
		Name: cast.ToString(m["name"]),
		Type: cast.ToString(m["type"]),
		Size: cast.ToInt64(m["size"]),
	}
	switch v := m["last_modified"].(type) {
	case nil:
	case time.Time:
		meta.LastModified = v
	case string:
		meta.LastModified = cast.ToTime(v)
	default:
		if ms := cast.ToInt64(v); ms > 0 {
			meta.LastModified = time.UnixMilli(ms)
		}
	}
	return meta
}
