package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/guttosm/iosplus-extract/internal/mapper"
)

const crlf = "\r\n"

// Delimited writes a header row followed by one line per record. A field is
// quoted only when it contains the delimiter; quotes inside a quoted field
// are doubled. Lines end with CRLF.
type Delimited struct {
	delim string
}

func NewDelimited(delimiter string) *Delimited {
	if delimiter == "" {
		delimiter = ","
	}
	return &Delimited{delim: delimiter}
}

func (d *Delimited) Ext() string { return FormatCSV }

func (d *Delimited) Write(w io.Writer, s *mapper.Schema, recs []mapper.Record) error {
	bw := bufio.NewWriter(w)
	d.writeLine(bw, s.Header())
	for _, r := range recs {
		d.writeLine(bw, r.Strings())
	}
	return bw.Flush()
}

// writeLine relies on bufio.Writer keeping the first error for Flush.
func (d *Delimited) writeLine(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			_, _ = w.WriteString(d.delim)
		}
		_, _ = w.WriteString(d.quote(f))
	}
	_, _ = w.WriteString(crlf)
}

func (d *Delimited) quote(f string) string {
	if !strings.Contains(f, d.delim) {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}
