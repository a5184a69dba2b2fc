package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ReportType selects which IOS+ report an extract run pulls.
type ReportType int

const (
	Trades      ReportType = 0
	AuditTrail  ReportType = 1
	OrderSearch ReportType = 2
)

// Valid reports whether t is one of the known report types.
func (t ReportType) Valid() bool {
	return t >= Trades && t <= OrderSearch
}

// String returns the file-name prefix of the report type
// ("trade", "audittrail", "ordersearch").
func (t ReportType) String() string {
	switch t {
	case Trades:
		return "trade"
	case AuditTrail:
		return "audittrail"
	case OrderSearch:
		return "ordersearch"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseReportType accepts the numeric form (0, 1, 2) or a name
// ("trade"/"trades", "audittrail", "ordersearch").
func ParseReportType(s string) (ReportType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "0", "trade", "trades":
		return Trades, nil
	case "1", "audittrail", "audit_trail", "audit-trail":
		return AuditTrail, nil
	case "2", "ordersearch", "order_search", "order-search":
		return OrderSearch, nil
	}
	return 0, fmt.Errorf("unknown report type %q (want 0=trades, 1=audittrail, 2=ordersearch)", s)
}
