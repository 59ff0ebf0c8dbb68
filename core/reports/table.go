package reports

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrNoSelection   = errors.New("no fields selected")
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownFormat = errors.New("unknown format")
	ErrUnknownModule = errors.New("unknown module")
)

type Column struct {
	Key    string `json:"key"`
	Header string `json:"header"`
}

// Table is one module rendered as text cells in a fixed column order.
type Table struct {
	Module  string
	Title   string
	Sheet   string
	Columns []Column
	Rows    []map[string]string
}

// Select narrows the table to fields. A nil selection keeps every column; an
// empty non-nil selection is rejected. Column order stays fixed.
func (t Table) Select(fields []string) (Table, error) {
	if fields == nil {
		return t, nil
	}
	wanted := map[string]bool{}
	for _, f := range fields {
		key := strings.ToLower(strings.TrimSpace(f))
		if key == "" {
			continue
		}
		if !slices.ContainsFunc(t.Columns, func(c Column) bool { return c.Key == key }) {
			return Table{}, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		wanted[key] = true
	}
	if len(wanted) == 0 {
		return Table{}, ErrNoSelection
	}
	out := t
	out.Columns = nil
	for _, c := range t.Columns {
		if wanted[c.Key] {
			out.Columns = append(out.Columns, c)
		}
	}
	return out, nil
}

func (t Table) Headers() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, c.Header)
	}
	return out
}

func (t Table) Values(row map[string]string) []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, row[c.Key])
	}
	return out
}
