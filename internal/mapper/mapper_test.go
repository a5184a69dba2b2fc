package mapper

import (
	"strings"
	"testing"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
)

func row(fields map[string]string) models.TradeRow {
	return models.TradeRow{Row: models.NewRow(fields)}
}

func mustMap(t *testing.T, s *Schema, r Fields, ref models.ReferenceData) Record {
	t.Helper()
	rec, err := s.Map(r, ref)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	return rec
}

func TestMap_Side(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]string
		want   string
	}{
		{"buy", map[string]string{"SideCode": "1"}, "B"},
		{"sell", map[string]string{"SideCode": "2"}, "S"},
		{"padded buy", map[string]string{"SideCode": " 1 "}, "B"},
		{"absent", map[string]string{}, "S"},
		{"empty", map[string]string{"SideCode": ""}, "S"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := mustMap(t, TradeSchema, row(c.fields), models.ReferenceData{})
			got, _ := rec.Value("BuyOrSell")
			if got != c.want {
				t.Fatalf("BuyOrSell = %v, want %s", got, c.want)
			}
		})
	}
}

func TestMap_Defaults(t *testing.T) {
	rec := mustMap(t, TradeSchema, row(map[string]string{"SecurityCode": "ABC"}), models.ReferenceData{})

	cases := []struct {
		col  string
		want any
	}{
		{"TradeVolume", 0.0},
		{"TradeNumber", int64(0)},
		{"PriceMultiplier", 1.0},
		{"Principal", false},
		{"AccountCode", ""},
		{"TradeDateTime", ""},
		{"SEDOL", ""},
		{"ISIN", ""},
		{"SecurityCode", "ABC"},
	}
	for _, c := range cases {
		got, ok := rec.Value(c.col)
		if !ok || got != c.want {
			t.Fatalf("%s = %#v (%v), want %#v", c.col, got, ok, c.want)
		}
	}
}

func TestMap_ParsesAndEnriches(t *testing.T) {
	rec := mustMap(t, TradeSchema, row(map[string]string{
		"TradeNumber":     "1001",
		"TradeVolume":     "250.5",
		"PriceMultiplier": "0.01",
		"Principal":       "true",
		"TradeDateTime":   "2024-01-15T10:30:00+00:00",
		"SEDOL":           "ignored",
	}), models.ReferenceData{SEDOL: "0263494", ISIN: "GB0002634946"})

	want := map[string]any{
		"TradeNumber":     int64(1001),
		"TradeVolume":     250.5,
		"PriceMultiplier": 0.01,
		"Principal":       true,
		"TradeDateTime":   "2024-01-15T10:30:00+00:00",
		"SEDOL":           "0263494",
		"ISIN":            "GB0002634946",
	}
	for col, w := range want {
		if got, _ := rec.Value(col); got != w {
			t.Fatalf("%s = %#v, want %#v", col, got, w)
		}
	}
}

func TestMap_MalformedValue(t *testing.T) {
	_, err := TradeSchema.Map(row(map[string]string{"TradeVolume": "lots"}), models.ReferenceData{})
	if err == nil || !strings.Contains(err.Error(), "Trades.TradeVolume") {
		t.Fatalf("expected column error, got %v", err)
	}
	_, err = TradeSchema.Map(row(map[string]string{"Principal": "maybe"}), models.ReferenceData{})
	if err == nil {
		t.Fatalf("expected flag error")
	}
}

func TestRecord_Strings(t *testing.T) {
	rec := mustMap(t, TradeSchema, row(map[string]string{
		"TradeNumber": "7",
		"TradeVolume": "100",
		"TradePrice":  "12.3400",
		"SideCode":    "1",
	}), models.ReferenceData{ISIN: "X1"})
	out := rec.Strings()
	if len(out) != len(TradeSchema.Columns) {
		t.Fatalf("len = %d", len(out))
	}
	idx := func(name string) int { return TradeSchema.index[name] }
	checks := map[string]string{
		"TradeNumber":     "7",
		"TradeVolume":     "100",
		"TradePrice":      "12.34",
		"BuyOrSell":       "B",
		"PriceMultiplier": "1",
		"Principal":       "false",
		"ISIN":            "X1",
	}
	for col, want := range checks {
		if got := out[idx(col)]; got != want {
			t.Fatalf("%s = %q, want %q", col, got, want)
		}
	}
}

func TestSchemas_Layout(t *testing.T) {
	cases := []struct {
		t     models.ReportType
		name  string
		cols  int
		first string
	}{
		{models.Trades, "Trades", 46, "TradeNumber"},
		{models.AuditTrail, "AuditTrail", 81, "AuditTrailNumber"},
		{models.OrderSearch, "OrderSearch", 94, "RootParentOrderNumber"},
	}
	for _, c := range cases {
		s, err := For(c.t)
		if err != nil {
			t.Fatalf("For(%v): %v", c.t, err)
		}
		h := s.Header()
		if s.Name != c.name || len(h) != c.cols || h[0] != c.first {
			t.Fatalf("%s: name=%s cols=%d first=%s", c.name, s.Name, len(h), h[0])
		}
		seen := map[string]bool{}
		var hasSEDOL, hasISIN bool
		for _, col := range s.Columns {
			if seen[col.Name] {
				t.Fatalf("%s: duplicate column %s", c.name, col.Name)
			}
			seen[col.Name] = true
			hasSEDOL = hasSEDOL || col.Kind == SEDOL
			hasISIN = hasISIN || col.Kind == ISIN
		}
		if !hasSEDOL || !hasISIN {
			t.Fatalf("%s: enrichment columns missing", c.name)
		}
	}
	if _, err := For(models.ReportType(9)); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestRecord_ValueUnknownColumn(t *testing.T) {
	rec := mustMap(t, AuditTrailSchema, models.AuditTrailRow{Row: models.NewRow(nil)}, models.ReferenceData{})
	if _, ok := rec.Value("NoSuchColumn"); ok {
		t.Fatalf("unknown column must not resolve")
	}
	if _, ok := (Record{}).Value("SEDOL"); ok {
		t.Fatalf("zero record must not resolve")
	}
}
