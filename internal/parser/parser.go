// Package parser turns an uploaded byte buffer into a stream of words ready
// for Store.BulkUpsertWords. It never touches Store and never buffers more
// than one record's worth of decoded state at a time, so a multi-million
// row upload costs O(1) memory beyond the input buffer itself.
package parser

import (
	"context"
	"fmt"

	"github.com/YiniRuohong/wordflow/internal/domain"
)

// Format is the declared or sniffed shape of an upload.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// RowError describes why a single row failed to become a NormalizedWord. A
// row that fails validation is skipped and parsing continues; a JSON element
// that cannot be decoded at all ends the stream after its error.
type RowError struct {
	Row     int
	Missing string
	Reason  string
}

func (e *RowError) Error() string {
	if e.Missing != "" {
		return fmt.Sprintf("row %d: missing %s", e.Row, e.Missing)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// Result is one element of the stream Parse produces: exactly one of Word
// or Err is set.
type Result struct {
	Row  int
	Word *domain.NormalizedWord
	Err  *RowError
}

// Stream parses data according to format (resolving FormatAuto via Sniff)
// and returns a channel of Results plus a best-effort TotalHint (nonzero
// only when the format makes the row count cheap to know up front, e.g. a
// JSON array's length). The channel is closed once every row has been
// emitted or ctx is cancelled.
func Stream(ctx context.Context, data []byte, filename string, format Format) (<-chan Result, int, error) {
	if format == FormatAuto || format == "" {
		format = Sniff(data, filename)
	}

	switch format {
	case FormatCSV:
		return streamDelimited(ctx, data, ','), 0, nil
	case FormatTSV:
		return streamDelimited(ctx, data, '\t'), 0, nil
	case FormatJSON:
		return streamJSON(ctx, data)
	case FormatXLSX:
		ch, err := streamXLSX(ctx, data)
		return ch, 0, err
	default:
		return nil, 0, fmt.Errorf("parser: unsupported format %q", format)
	}
}
