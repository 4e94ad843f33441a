package tabular

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	JSONFormat  = "json"
	CSVFormat   = "csv"
	ExcelFormat = "xlsx"
)

// Formats are recognized by every manager, ExcelFormat only with WithExcel.
var Formats = []string{JSONFormat, CSVFormat}

// subtypes that do not spell their format after the slash
var aliases = map[string]string{
	"vnd.openxmlformats-officedocument.spreadsheetml.sheet": ExcelFormat,
}

var types = map[string]string{
	JSONFormat:  "application/json",
	CSVFormat:   "text/csv",
	ExcelFormat: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// formatFromType returns the part of a MIME type after the final "/", without parameters.
func formatFromType(typ string) string {
	typ = strings.ToLower(strings.TrimSpace(typ))
	if mt, _, err := mime.ParseMediaType(typ); err == nil {
		typ = mt
	}
	f := typ[strings.LastIndex(typ, "/")+1:]
	if a, ok := aliases[f]; ok {
		return a
	}
	return f
}

// formatFromPath returns the extension of path without the leading dot.
func formatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

func typeOf(format string) string {
	return types[format]
}

func sniff(content []byte) string {
	return mimetype.Detect(content).String()
}
