package models

import "strings"

// SecurityKey identifies a listed security on one exchange.
//
// Keeping code and exchange apart (instead of the joined "CODE.EXCH" text)
// means two different pairs can never collide in the cache, even when a
// security code itself contains a dot.
type SecurityKey struct {
	Code     string
	Exchange string
}

// String returns the "SecurityCode.Exchange" text understood by
// SecurityInformationGet.
func (k SecurityKey) String() string {
	return k.Code + "." + k.Exchange
}

// ReferenceData holds the identifiers used to enrich extracted records.
// Both fields are optional; an empty string means "not provided".
type ReferenceData struct {
	SEDOL string
	ISIN  string
}

// SecurityInfoRow is one row of SecurityInformationGet. Only the columns used
// for enrichment are decoded.
type SecurityInfoRow struct {
	SecurityCode string `xml:"SecurityCode"`
	Exchange     string `xml:"Exchange"`
	SEDOL        string `xml:"SEDOL"`
	ISIN         string `xml:"ISIN"`
}

// Key returns the cache key of the row, trimmed like Row.SecurityKey.
func (r SecurityInfoRow) Key() SecurityKey {
	return SecurityKey{Code: strings.TrimSpace(r.SecurityCode), Exchange: strings.TrimSpace(r.Exchange)}
}

// ReferenceData returns the enrichment attributes of the row.
func (r SecurityInfoRow) ReferenceData() ReferenceData {
	return ReferenceData{SEDOL: r.SEDOL, ISIN: r.ISIN}
}
