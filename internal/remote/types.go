package remote

import (
	"context"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
)

// Request status codes reported in Result.Header.StatusCode.
const (
	StatusMoreData = 1 // more pages follow; repeat the identical request
	StatusFinished = 2
	StatusWatching = 3
)

// DateTimeLayout is the xs:dateTime layout of date-range parameters.
const DateTimeLayout = "2006-01-02T15:04:05"

// Header is the input header shared by every operation. Session operations
// use SessionKey (IRESS) while IOS+ data operations use ServiceSessionKey.
type Header struct {
	SessionKey        string `xml:"SessionKey,omitempty"`
	ServiceSessionKey string `xml:"ServiceSessionKey,omitempty"`
	Updates           bool   `xml:"Updates"`
	RequestID         string `xml:"RequestID,omitempty"`
	Timeout           int    `xml:"Timeout,omitempty"`
}

// ResultHeader is the output header of every operation.
type ResultHeader struct {
	StatusCode    int    `xml:"StatusCode"`
	StatusMessage string `xml:"StatusMessage"`
	RequestID     string `xml:"RequestID"`
}

// Response is one page of an operation's output.
type Response[R any] struct {
	Header ResultHeader
	Rows   []R
}

// More reports whether the server signalled that another page is available.
func (r *Response[R]) More() bool {
	return r != nil && r.Header.StatusCode == StatusMoreData
}

// ─── Parameters ───────────────────────────────

type IRESSSessionStartParams struct {
	UserName         string `xml:"UserName"`
	CompanyName      string `xml:"CompanyName"`
	Password         string `xml:"Password"`
	ApplicationID    string `xml:"ApplicationID"`
	ApplicationLabel string `xml:"ApplicationLabel,omitempty"`
}

type ServiceSessionStartParams struct {
	Server          string `xml:"Server"`
	Service         string `xml:"Service"`
	IRESSSessionKey string `xml:"IRESSSessionKey"`
}

type SecurityInformationParams struct {
	SecurityText []string `xml:"SecurityTextArray>string"`
}

type TradeGetByUserParams struct {
	TradeDateTimeFrom string `xml:"TradeDateTimeFrom"`
	TradeDateTimeTo   string `xml:"TradeDateTimeTo"`
}

type AuditTrailGetByUserParams struct {
	AuditLogDateTimeFrom string `xml:"AuditLogDateTimeFrom"`
	AuditLogDateTimeTo   string `xml:"AuditLogDateTimeTo"`
}

type OrderSearchGetByUserParams struct {
	DateTimeFrom string `xml:"DateTimeFrom"`
	DateTimeTo   string `xml:"DateTimeTo"`
}

// ─── Rows ─────────────────────────────────────

type IRESSSessionRow struct {
	IRESSSessionKey string `xml:"IRESSSessionKey"`
}

type ServiceSessionRow struct {
	ServiceSessionKey string `xml:"ServiceSessionKey"`
}

// SessionClient is the session part of the remote contract.
type SessionClient interface {
	IRESSSessionStart(ctx context.Context, p IRESSSessionStartParams, h Header) (*Response[IRESSSessionRow], error)
	IRESSSessionEnd(ctx context.Context, h Header) error
	ServiceSessionStart(ctx context.Context, p ServiceSessionStartParams, h Header) (*Response[ServiceSessionRow], error)
	ServiceSessionEnd(ctx context.Context, h Header) error
}

// DataClient is the retrieval part of the remote contract.
type DataClient interface {
	SecurityInformationGet(ctx context.Context, p SecurityInformationParams, h Header) (*Response[models.SecurityInfoRow], error)
	TradeGetByUser(ctx context.Context, p TradeGetByUserParams, h Header) (*Response[models.TradeRow], error)
	AuditTrailGetByUser(ctx context.Context, p AuditTrailGetByUserParams, h Header) (*Response[models.AuditTrailRow], error)
	OrderSearchGetByUser(ctx context.Context, p OrderSearchGetByUserParams, h Header) (*Response[models.OrderSearchRow], error)
}

// Client is the full remote contract used by an extract run.
type Client interface {
	SessionClient
	DataClient
}
