// Package mapper turns raw report rows into typed output records.
//
// Each report type has a Schema: an ordered table of output columns, each
// naming its value kind and the source field it is read from. Writers use
// the same table for the header row and for cell typing.
package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
)

// Kind selects how a column value is derived and typed.
type Kind int

const (
	Text       Kind = iota // string, "" when absent
	Integer                // int64, 0 when absent
	Decimal                // float64, 0 when absent
	Multiplier             // float64, 1 when absent
	Flag                   // bool, false when absent
	Timestamp              // remote text passed through unchanged
	Side                   // "B" when SideCode is "1", otherwise "S"
	SEDOL                  // from reference data
	ISIN                   // from reference data
)

// Column is one output column.
type Column struct {
	Name   string
	Kind   Kind
	Source string
}

// Schema is the ordered output layout of one report type.
type Schema struct {
	Name    string
	Columns []Column
	index   map[string]int
}

func newSchema(name string, cols ...Column) *Schema {
	s := &Schema{Name: name, Columns: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		s.index[c.Name] = i
	}
	return s
}

func text(name string) Column       { return Column{Name: name, Kind: Text, Source: name} }
func integer(name string) Column    { return Column{Name: name, Kind: Integer, Source: name} }
func decimal(name string) Column    { return Column{Name: name, Kind: Decimal, Source: name} }
func multiplier(name string) Column { return Column{Name: name, Kind: Multiplier, Source: name} }
func flag(name string) Column       { return Column{Name: name, Kind: Flag, Source: name} }
func timestamp(name string) Column  { return Column{Name: name, Kind: Timestamp, Source: name} }
func side(name string) Column       { return Column{Name: name, Kind: Side, Source: "SideCode"} }
func sedol() Column                 { return Column{Name: "SEDOL", Kind: SEDOL} }
func isin() Column                  { return Column{Name: "ISIN", Kind: ISIN} }

// For returns the schema of a report type.
func For(t models.ReportType) (*Schema, error) {
	switch t {
	case models.Trades:
		return TradeSchema, nil
	case models.AuditTrail:
		return AuditTrailSchema, nil
	case models.OrderSearch:
		return OrderSearchSchema, nil
	}
	return nil, fmt.Errorf("no schema for report type %s", t)
}

// Header returns the column names in output order.
func (s *Schema) Header() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// Fields is the read side of a raw row.
type Fields interface {
	Field(name string) (string, bool)
}

// Map builds the output record of one row.
//
// Behavior:
//   - Absent or empty numeric fields default to 0 (multipliers to 1) and
//     absent flags to false.
//   - SEDOL and ISIN come only from ref; a zero ref yields empty columns.
//   - A present value that does not parse as its column kind is an error.
func (s *Schema) Map(row Fields, ref models.ReferenceData) (Record, error) {
	values := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		v, err := c.value(row, ref)
		if err != nil {
			return Record{}, fmt.Errorf("%s.%s: %w", s.Name, c.Name, err)
		}
		values[i] = v
	}
	return Record{schema: s, values: values}, nil
}

func (c Column) value(row Fields, ref models.ReferenceData) (any, error) {
	switch c.Kind {
	case SEDOL:
		return ref.SEDOL, nil
	case ISIN:
		return ref.ISIN, nil
	}

	raw, ok := row.Field(c.Source)
	trimmed := strings.TrimSpace(raw)
	switch c.Kind {
	case Side:
		if trimmed == "1" {
			return "B", nil
		}
		return "S", nil
	case Integer:
		if !ok || trimmed == "" {
			return int64(0), nil
		}
		return strconv.ParseInt(trimmed, 10, 64)
	case Decimal, Multiplier:
		if !ok || trimmed == "" {
			if c.Kind == Multiplier {
				return 1.0, nil
			}
			return 0.0, nil
		}
		return strconv.ParseFloat(trimmed, 64)
	case Flag:
		if !ok || trimmed == "" {
			return false, nil
		}
		return strconv.ParseBool(trimmed)
	default:
		return raw, nil
	}
}

// Record is one mapped output row. Values follow the schema column order.
type Record struct {
	schema *Schema
	values []any
}

// Schema returns the layout the record was mapped with.
func (r Record) Schema() *Schema { return r.schema }

// Values returns the typed values: string, int64, float64 or bool.
func (r Record) Values() []any { return r.values }

// Value returns the value of the named column.
func (r Record) Value(name string) (any, bool) {
	if r.schema == nil {
		return nil, false
	}
	i, ok := r.schema.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Strings renders every value as text.
func (r Record) Strings() []string {
	out := make([]string, len(r.values))
	for i, v := range r.values {
		out[i] = Format(v)
	}
	return out
}

// Format renders a record value as text.
func Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
