package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// streamJSON drives a token-based json.Decoder so a multi-million-element
// array is never materialized as a single slice in memory (§4.2). The
// total element count is known cheaply for a JSON array, so TotalHint is a
// quick first pass over the raw bytes before the real streaming pass.
func streamJSON(ctx context.Context, data []byte) (<-chan Result, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, 0, fmt.Errorf("parser: invalid json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, 0, fmt.Errorf("parser: json input must be an array of word objects")
	}

	total := countJSONArrayLength(data)

	out := make(chan Result)
	go func() {
		defer close(out)

		rowNum := 0
		for dec.More() {
			rowNum++
			var raw map[string]interface{}
			if err := dec.Decode(&raw); err != nil {
				send(ctx, out, Result{Row: rowNum, Err: &RowError{Row: rowNum, Reason: err.Error()}})
				return
			}
			nw, rowErr := mapRow(rowNum, flattenJSONRow(raw))
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

	return out, total, nil
}

func countJSONArrayLength(data []byte) int {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil {
		return 0
	} else if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return 0
	}

	count := 0
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return count
		}
		count++
	}
	return count
}

func flattenJSONRow(raw map[string]interface{}) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		case []interface{}:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			out[k] = strings.Join(parts, ";")
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
