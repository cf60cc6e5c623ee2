package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RawCell is one cell of a row produced by a table parser.
// It is either a TextCell or an EmptyCell.
type RawCell interface {
	rawCell()
}

// TextCell holds the literal text of a cell.
type TextCell string

// EmptyCell marks a blank or non-textual cell.
type EmptyCell struct{}

func (TextCell) rawCell()  {}
func (EmptyCell) rawCell() {}

// RawColumn is a keyed cell. Keys are whatever the table parser produced
// ("Particulars", "Col_1", "As at March 31").
type RawColumn struct {
	Key  string
	Cell RawCell
}

// RawRow keeps columns in source order.
type RawRow []RawColumn

// NormalizedRow is a best-effort reconstruction of one statement row.
type NormalizedRow struct {
	Particulars string    `json:"particulars"`
	Values      []float64 `json:"values"`
}

// TextRow builds a RawRow from plain strings, keyed col_0, col_1, ...
func TextRow(cells ...string) RawRow {
	row := make(RawRow, 0, len(cells))
	for i, c := range cells {
		row = append(row, RawColumn{Key: fmt.Sprintf("col_%d", i), Cell: cellFromString(c)})
	}
	return row
}

func cellFromString(s string) RawCell {
	if strings.TrimSpace(s) == "" {
		return EmptyCell{}
	}
	return TextCell(s)
}

// DecodeRawRows decodes a JSON array of row objects or row arrays.
// Object key order is preserved.
func DecodeRawRows(data []byte) ([]RawRow, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrMalformedInput, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("%w: rows must be a JSON array", ErrMalformedInput)
	}

	var rows []RawRow
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: rows: %v", ErrMalformedInput, err)
		}
		d, ok := tok.(json.Delim)
		if !ok {
			return nil, fmt.Errorf("%w: row %d is not an object or array", ErrMalformedInput, len(rows))
		}

		var row RawRow
		switch d {
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("%w: rows: %v", ErrMalformedInput, err)
				}
				key, _ := keyTok.(string)
				cell, err := decodeCell(dec)
				if err != nil {
					return nil, err
				}
				row = append(row, RawColumn{Key: key, Cell: cell})
			}
		case '[':
			for i := 0; dec.More(); i++ {
				cell, err := decodeCell(dec)
				if err != nil {
					return nil, err
				}
				row = append(row, RawColumn{Key: fmt.Sprintf("col_%d", i), Cell: cell})
			}
		default:
			return nil, fmt.Errorf("%w: unexpected %q in rows", ErrMalformedInput, d)
		}
		// closing delimiter of the row
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("%w: rows: %v", ErrMalformedInput, err)
		}
		rows = append(rows, row)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrMalformedInput, err)
	}
	return rows, nil
}

func decodeCell(dec *json.Decoder) (RawCell, error) {
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: cell: %v", ErrMalformedInput, err)
	}
	switch val := v.(type) {
	case string:
		return cellFromString(val), nil
	case json.Number:
		return TextCell(val.String()), nil
	default:
		return EmptyCell{}, nil
	}
}
