package models

import (
	"encoding/xml"
	"strings"
)

// Row is a single DataRow returned by an IOS+ "GetByUser" operation.
//
// The remote schema carries dozens of optional columns per report type, so a
// Row keeps them as raw text keyed by element name instead of one struct field
// per column. Typing and defaults are applied later by the mapper schemas.
//
// A field is absent when the element is missing or marked xsi:nil="true".
type Row struct {
	fields map[string]string
}

// NewRow builds a Row from a field map. Mostly useful for tests and fakes.
func NewRow(fields map[string]string) Row {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Row{fields: cp}
}

// Field returns the raw text of a column and whether it was present.
func (r Row) Field(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Len returns the number of present fields.
func (r Row) Len() int { return len(r.fields) }

// SecurityCode returns the row's security code ("" if absent).
func (r Row) SecurityCode() string { return strings.TrimSpace(r.fields["SecurityCode"]) }

// Exchange returns the row's exchange ("" if absent).
func (r Row) Exchange() string { return strings.TrimSpace(r.fields["Exchange"]) }

// SecurityKey returns the reference-data key for the row. ok is false unless
// both SecurityCode and Exchange are present and non-empty.
func (r Row) SecurityKey() (SecurityKey, bool) {
	code, exch := r.SecurityCode(), r.Exchange()
	if code == "" || exch == "" {
		return SecurityKey{}, false
	}
	return SecurityKey{Code: code, Exchange: exch}, true
}

// UnmarshalXML collects every child element of a DataRow as raw text.
func (r *Row) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	r.fields = make(map[string]string)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if isNil(t) {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			r.fields[t.Name.Local] = v
		case xml.EndElement:
			return nil
		}
	}
}

func isNil(el xml.StartElement) bool {
	for _, a := range el.Attr {
		if a.Name.Local == "nil" && strings.EqualFold(a.Value, "true") {
			return true
		}
	}
	return false
}

// TradeRow is one row of TradeGetByUser.
type TradeRow struct{ Row }

// AuditTrailRow is one row of AuditTrailGetByUser.
type AuditTrailRow struct{ Row }

// OrderSearchRow is one row of OrderSearchGetByUser.
type OrderSearchRow struct{ Row }

// RawRow is the common behaviour of the three report row types.
type RawRow interface {
	Field(name string) (string, bool)
	SecurityKey() (SecurityKey, bool)
}

var (
	_ RawRow = TradeRow{}
	_ RawRow = AuditTrailRow{}
	_ RawRow = OrderSearchRow{}
)
