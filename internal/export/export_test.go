package export

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
	"github.com/guttosm/iosplus-extract/internal/mapper"
)

func tradeRecords(t *testing.T, rows ...map[string]string) []mapper.Record {
	t.Helper()
	out := make([]mapper.Record, 0, len(rows))
	for _, r := range rows {
		rec, err := mapper.TradeSchema.Map(models.TradeRow{Row: models.NewRow(r)}, models.ReferenceData{ISIN: "GB00X"})
		if err != nil {
			t.Fatalf("map: %v", err)
		}
		out = append(out, rec)
	}
	return out
}

func TestDelimited_Quote(t *testing.T) {
	cases := []struct {
		delim, in, want string
	}{
		{",", "plain", "plain"},
		{",", "a,b", `"a,b"`},
		{",", `say "hi", ok`, `"say ""hi"", ok"`},
		{",", `no "delim" here`, `no "delim" here`},
		{";", "a,b", "a,b"},
		{";", "a;b", `"a;b"`},
		{"|", "", ""},
	}
	for _, c := range cases {
		if got := NewDelimited(c.delim).quote(c.in); got != c.want {
			t.Fatalf("quote(%q, %q) = %q, want %q", c.delim, c.in, got, c.want)
		}
	}
}

func TestDelimited_Write(t *testing.T) {
	recs := tradeRecords(t,
		map[string]string{"TradeNumber": "1", "AccountCode": "ACC,1", "SideCode": "1"},
		map[string]string{"TradeNumber": "2"},
	)
	var buf bytes.Buffer
	if err := NewDelimited(",").Write(&buf, mapper.TradeSchema, recs); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(buf.String(), "\r\n")
	if len(lines) != 4 || lines[3] != "" {
		t.Fatalf("want 3 CRLF-terminated lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "TradeNumber,OrderNumber,AccountCode,SecurityCode,Exchange,SEDOL,ISIN,") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `1,0,"ACC,1",,,,GB00X,,,B,0,`) {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2,0,,,,,GB00X,,,S,") {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestDelimited_EmptyWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := NewDelimited("").Write(&buf, mapper.AuditTrailSchema, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Count(buf.String(), "\r\n") != 1 {
		t.Fatalf("expected a single header line, got %q", buf.String())
	}
}

func TestNew(t *testing.T) {
	cases := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{"", "csv", false},
		{"CSV", "csv", false},
		{"xlsx", "xlsx", false},
		{"parquet", "", true},
	}
	for _, c := range cases {
		e, err := New(c.format, ",")
		if c.wantErr {
			if err == nil {
				t.Fatalf("New(%q) expected error", c.format)
			}
			continue
		}
		if err != nil || e.Ext() != c.ext {
			t.Fatalf("New(%q) = %v, %v", c.format, e, err)
		}
	}
}

func TestWriteFile_RenamesIntoPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trade_extract_for_20240115_srv_at_101500.csv")

	if err := WriteFile(NewDelimited(","), path, mapper.TradeSchema, tradeRecords(t, map[string]string{"TradeNumber": "9"})); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "\r\n9,") {
		t.Fatalf("row missing: %q", b)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

type failingExporter struct{}

func (failingExporter) Ext() string { return "csv" }
func (failingExporter) Write(w io.Writer, _ *mapper.Schema, _ []mapper.Record) error {
	_, _ = io.WriteString(w, "partial")
	return errors.New("disk full")
}

func TestWriteFile_NoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := WriteFile(failingExporter{}, path, mapper.TradeSchema, nil); err == nil {
		t.Fatalf("expected error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, got %v", entries)
	}
}

func TestWorkbook_Write(t *testing.T) {
	recs := tradeRecords(t,
		map[string]string{"TradeNumber": "11", "TradeVolume": "2.5", "SideCode": "1", "Principal": "true"},
	)
	var buf bytes.Buffer
	if err := NewWorkbook().Write(&buf, mapper.TradeSchema, recs); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 1 || got[0] != "Trades" {
		t.Fatalf("sheets = %v", got)
	}
	rows, err := f.GetRows("Trades")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want header + 1 row, got %d", len(rows))
	}
	if rows[0][0] != "TradeNumber" || rows[1][0] != "11" {
		t.Fatalf("unexpected cells: %v / %v", rows[0][:3], rows[1][:3])
	}
	if v, _ := f.GetCellValue("Trades", "K2"); v != "2.5" {
		t.Fatalf("TradeVolume cell = %q", v)
	}
	if v, _ := f.GetCellValue("Trades", "J2"); v != "B" {
		t.Fatalf("BuyOrSell cell = %q", v)
	}
}
