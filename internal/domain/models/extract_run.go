package models

import "time"

// ExtractRun represents one successfully written extract file, as recorded
// in the extract_log table.
//
// Fields:
//   - ReportType: which report was extracted.
//   - ReportDate: business date the extract covers (date only).
//   - Server: IOS+ server the data came from.
//   - Filename: base name of the written file.
//   - RowCount: number of data rows in the file.
//   - ExtractedAt: when the run was recorded.
//
// (report_type, report_date, server) is unique; re-running with --force
// replaces the previous entry.
type ExtractRun struct {
	ReportType  ReportType
	ReportDate  time.Time
	Server      string
	Filename    string
	RowCount    int
	ExtractedAt time.Time
}

// ExtractKey identifies an extract independently of when it was produced.
type ExtractKey struct {
	ReportType ReportType
	ReportDate time.Time
	Server     string
}

// Key returns the identity of the run.
func (r ExtractRun) Key() ExtractKey {
	return ExtractKey{ReportType: r.ReportType, ReportDate: r.ReportDate, Server: r.Server}
}

// ExtractFilter narrows a listing of extract runs. Empty ReportTypes and
// nil dates are unbounded; From and To are inclusive report dates.
type ExtractFilter struct {
	ReportTypes []ReportType
	From        *time.Time
	To          *time.Time
}
