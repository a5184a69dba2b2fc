package remote

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
)

const (
	// Namespace is the target namespace of the IRESS/IOS+ web services.
	Namespace = "http://webservices.iress.com.au/v4/"

	soapEnvNS   = "http://schemas.xmlsoap.org/soap/envelope/"
	contentType = "text/xml; charset=utf-8"

	// DefaultHTTPTimeout bounds a single HTTP round trip. Large report pages
	// can take minutes to assemble on the server side.
	DefaultHTTPTimeout = 10 * time.Minute
)

// Fault is a SOAP fault returned by the remote service.
type Fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
	Detail string `xml:"detail"`
}

func (f *Fault) Error() string {
	msg := "soap fault " + f.Code + ": " + f.String
	if d := strings.TrimSpace(f.Detail); d != "" {
		msg += " (" + d + ")"
	}
	return msg
}

// ─── Envelope ─────────────────────────────────

type requestEnvelope struct {
	XMLName xml.Name    `xml:"soap:Envelope"`
	SoapNS  string      `xml:"xmlns:soap,attr"`
	Body    requestBody `xml:"soap:Body"`
}

type requestBody struct {
	Op operation
}

type operation struct {
	XMLName xml.Name
	Input   input `xml:"Input"`
}

type input struct {
	Header     Header `xml:"Header"`
	Parameters any    `xml:"Parameters,omitempty"`
}

type responseEnvelope[R any] struct {
	Body struct {
		Fault   *Fault             `xml:"Fault"`
		Content responseContent[R] `xml:",any"`
	} `xml:"Body"`
}

type responseContent[R any] struct {
	Output struct {
		Result struct {
			Header ResultHeader `xml:"Header"`
			Rows   []R          `xml:"DataRows>DataRow"`
		} `xml:"Result"`
	} `xml:"Output"`
}

// ─── Client ───────────────────────────────────

// SOAPClient implements Client over SOAP 1.1 / HTTP.
type SOAPClient struct {
	endpoint string
	http     *http.Client
}

// NewSOAPClient creates a client that posts every operation to endpoint.
//
// Parameters:
//   - endpoint: the service URL (e.g. https://host/v4/soap.aspx)
//   - timeout: HTTP round-trip timeout; zero selects DefaultHTTPTimeout
//
// Returns:
//   - *SOAPClient ready for use
func NewSOAPClient(endpoint string, timeout time.Duration) *SOAPClient {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &SOAPClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

var _ Client = (*SOAPClient)(nil)

// call posts one SOAP operation and decodes its single result page.
func call[R any](ctx context.Context, c *SOAPClient, op string, params any, h Header) (*Response[R], error) {
	env := requestEnvelope{
		SoapNS: soapEnvNS,
		Body: requestBody{Op: operation{
			XMLName: xml.Name{Space: Namespace, Local: op},
			Input:   input{Header: h, Parameters: params},
		}},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(env); err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("SOAPAction", `"`+Namespace+op+`"`)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	var out responseEnvelope[R]
	decodeErr := xml.Unmarshal(body, &out)
	if decodeErr == nil && out.Body.Fault != nil {
		return nil, fmt.Errorf("%s: %w", op, out.Body.Fault)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: unexpected http status %d", op, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, decodeErr)
	}

	res := out.Body.Content.Output.Result
	return &Response[R]{Header: res.Header, Rows: res.Rows}, nil
}

// ─── Session operations ───────────────────────

func (c *SOAPClient) IRESSSessionStart(ctx context.Context, p IRESSSessionStartParams, h Header) (*Response[IRESSSessionRow], error) {
	return call[IRESSSessionRow](ctx, c, "IRESSSessionStart", p, h)
}

func (c *SOAPClient) IRESSSessionEnd(ctx context.Context, h Header) error {
	_, err := call[struct{}](ctx, c, "IRESSSessionEnd", nil, h)
	return err
}

func (c *SOAPClient) ServiceSessionStart(ctx context.Context, p ServiceSessionStartParams, h Header) (*Response[ServiceSessionRow], error) {
	return call[ServiceSessionRow](ctx, c, "ServiceSessionStart", p, h)
}

func (c *SOAPClient) ServiceSessionEnd(ctx context.Context, h Header) error {
	_, err := call[struct{}](ctx, c, "ServiceSessionEnd", nil, h)
	return err
}

// ─── Data operations ──────────────────────────

func (c *SOAPClient) SecurityInformationGet(ctx context.Context, p SecurityInformationParams, h Header) (*Response[models.SecurityInfoRow], error) {
	return call[models.SecurityInfoRow](ctx, c, "SecurityInformationGet", p, h)
}

func (c *SOAPClient) TradeGetByUser(ctx context.Context, p TradeGetByUserParams, h Header) (*Response[models.TradeRow], error) {
	return call[models.TradeRow](ctx, c, "TradeGetByUser", p, h)
}

func (c *SOAPClient) AuditTrailGetByUser(ctx context.Context, p AuditTrailGetByUserParams, h Header) (*Response[models.AuditTrailRow], error) {
	return call[models.AuditTrailRow](ctx, c, "AuditTrailGetByUser", p, h)
}

func (c *SOAPClient) OrderSearchGetByUser(ctx context.Context, p OrderSearchGetByUserParams, h Header) (*Response[models.OrderSearchRow], error) {
	return call[models.OrderSearchRow](ctx, c, "OrderSearchGetByUser", p, h)
}
