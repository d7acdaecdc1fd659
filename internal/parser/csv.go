package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
)

// streamDelimited drives a csv.Reader row-at-a-time so memory use stays
// flat regardless of input size (§4.2). The header row determines the
// column names; every subsequent row is mapped through fieldAliases.
func streamDelimited(ctx context.Context, data []byte, comma rune) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		r := csv.NewReader(bytes.NewReader(data))
		r.Comma = comma
		r.FieldsPerRecord = -1
		r.LazyQuotes = true

		header, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			send(ctx, out, Result{Row: 0, Err: &RowError{Reason: err.Error()}})
			return
		}

		rowNum := 0
		for {
			record, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			rowNum++
			if err != nil {
				if !send(ctx, out, Result{Row: rowNum, Err: &RowError{Row: rowNum, Reason: err.Error()}}) {
					return
				}
				continue
			}

			raw := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(record) {
					raw[col] = record[i]
				}
			}

			nw, rowErr := mapRow(rowNum, raw)
			if rowErr != nil {
				if !send(ctx, out, Result{Row: rowNum, Err: rowErr}) {
					return
				}
				continue
			}
			if !send(ctx, out, Result{Row: rowNum, Word: nw}) {
				return
			}
		}
	}()

	return out
}

// send delivers r to out unless ctx is done first, returning false when the
// caller should stop producing.
func send(ctx context.Context, out chan<- Result, r Result) bool {
	select {
	case out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
