package parser

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Sniff infers a Format for data/filename when the caller declared "auto"
// (§4.2): a leading '[' or '{' means JSON; otherwise the filename suffix is
// trusted; otherwise a comma-vs-tab heuristic over the first line decides
// between CSV and TSV.
func Sniff(data []byte, filename string) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".tsv":
		return FormatTSV
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	}

	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	if bytes.Count(firstLine, []byte{'\t'}) > bytes.Count(firstLine, []byte{','}) {
		return FormatTSV
	}
	return FormatCSV
}
