package parser

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// streamXLSX drives excelize's streaming row iterator rather than
// GetRows, which would load the whole sheet into a [][]string up front —
// an additional format the spec's table doesn't name, wired in the same
// one-row-at-a-time shape as the csv/json readers (§4.2, SPEC_FULL §11).
func streamXLSX(ctx context.Context, data []byte) (<-chan Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parser: invalid xlsx: %w", err)
	}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		_ = f.Close()
		return nil, fmt.Errorf("parser: xlsx workbook has no sheets")
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("parser: failed to open sheet %q: %w", sheet, err)
	}

	if !rows.Next() {
		_ = f.Close()
		return nil, fmt.Errorf("parser: xlsx sheet %q is empty", sheet)
	}
	header, err := rows.Columns()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("parser: failed to read xlsx header: %w", err)
	}

	out := make(chan Result)
	go func() {
		defer close(out)
		defer func() { _ = f.Close() }()

		rowNum := 0
		for rows.Next() {
			rowNum++
			cols, err := rows.Columns()
			if err != nil {
				if !send(ctx, out, Result{Row: rowNum, Err: &RowError{Row: rowNum, Reason: err.Error()}}) {
					return
				}
				continue
			}

			raw := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(cols) {
					raw[col] = cols[i]
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

	return out, nil
}
