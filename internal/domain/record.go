package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CellKind tags the variant held by a CellValue.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// CellValue is one cell of a source-derived table row.
type CellValue struct {
	Kind   CellKind
	Number float64
	Text   string
}

// NumberCell returns a numeric cell.
func NumberCell(v float64) CellValue {
	return CellValue{Kind: CellNumber, Number: v}
}

// TextCell returns a text cell.
func TextCell(s string) CellValue {
	return CellValue{Kind: CellText, Text: s}
}

// String renders the cell for text dumps. Empty cells render as NaN.
func (v CellValue) String() string {
	switch v.Kind {
	case CellNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case CellText:
		return v.Text
	default:
		return "NaN"
	}
}

func (v CellValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case CellNumber:
		return json.Marshal(v.Number)
	case CellText:
		return json.Marshal(v.Text)
	default:
		return []byte("null"), nil
	}
}

func (v *CellValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = CellValue{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextCell(s)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("cell value: %w", err)
		}
		*v = NumberCell(n)
	}
	return nil
}

// Field is a (column, value) pair within a Record.
type Field struct {
	Column string
	Value  CellValue
}

// Record is one row of a source-derived table, in column order.
// It encodes as a JSON object whose keys keep that order.
type Record []Field

// Get returns the value stored under column.
func (r Record) Get(column string) (CellValue, bool) {
	for _, f := range r {
		if f.Column == column {
			return f.Value, true
		}
	}
	return CellValue{}, false
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Column)
		if err != nil {
			return nil, err
		}
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	out := Record{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record: expected key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var val CellValue
		if err := val.UnmarshalJSON(raw); err != nil {
			return err
		}
		out = append(out, Field{Column: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
