// Package remotetest provides an in-memory remote.Client for tests.
package remotetest

import (
	"context"
	"sync"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
	"github.com/guttosm/iosplus-extract/internal/remote"
)

// Fake is a scripted remote.Client. Report pages are served in order with
// status 1 on every page but the last, which is answered with status 2.
type Fake struct {
	mu sync.Mutex

	OuterKey string
	OuterErr error
	InnerKey string
	InnerErr error

	OuterEndErr error
	InnerEndErr error

	// Securities answers SecurityInformationGet, keyed by "CODE.EXCH".
	// Unknown securities are left out of the response.
	Securities  map[string]models.ReferenceData
	SecurityErr error

	Trades      [][]models.TradeRow
	AuditTrail  [][]models.AuditTrailRow
	OrderSearch [][]models.OrderSearchRow
	FetchErr    error

	Calls           []string
	Headers         []remote.Header
	LoginParams     []remote.IRESSSessionStartParams
	SecurityBatches [][]string
	TradeParams     []remote.TradeGetByUserParams
	AuditParams     []remote.AuditTrailGetByUserParams
	OrderParams     []remote.OrderSearchGetByUserParams

	pageIdx map[string]int
}

var _ remote.Client = (*Fake)(nil)

func (f *Fake) record(op string, h remote.Header) {
	f.Calls = append(f.Calls, op)
	f.Headers = append(f.Headers, h)
}

// Count returns how many times op was invoked.
func (f *Fake) Count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *Fake) IRESSSessionStart(_ context.Context, p remote.IRESSSessionStartParams, h remote.Header) (*remote.Response[remote.IRESSSessionRow], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("IRESSSessionStart", h)
	f.LoginParams = append(f.LoginParams, p)
	if f.OuterErr != nil {
		return nil, f.OuterErr
	}
	resp := &remote.Response[remote.IRESSSessionRow]{Header: remote.ResultHeader{StatusCode: remote.StatusFinished}}
	if f.OuterKey != "" {
		resp.Rows = []remote.IRESSSessionRow{{IRESSSessionKey: f.OuterKey}}
	}
	return resp, nil
}

func (f *Fake) IRESSSessionEnd(_ context.Context, h remote.Header) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("IRESSSessionEnd", h)
	return f.OuterEndErr
}

func (f *Fake) ServiceSessionStart(_ context.Context, _ remote.ServiceSessionStartParams, h remote.Header) (*remote.Response[remote.ServiceSessionRow], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ServiceSessionStart", h)
	if f.InnerErr != nil {
		return nil, f.InnerErr
	}
	resp := &remote.Response[remote.ServiceSessionRow]{Header: remote.ResultHeader{StatusCode: remote.StatusFinished}}
	if f.InnerKey != "" {
		resp.Rows = []remote.ServiceSessionRow{{ServiceSessionKey: f.InnerKey}}
	}
	return resp, nil
}

func (f *Fake) ServiceSessionEnd(_ context.Context, h remote.Header) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ServiceSessionEnd", h)
	return f.InnerEndErr
}

func (f *Fake) SecurityInformationGet(_ context.Context, p remote.SecurityInformationParams, h remote.Header) (*remote.Response[models.SecurityInfoRow], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SecurityInformationGet", h)
	f.SecurityBatches = append(f.SecurityBatches, append([]string(nil), p.SecurityText...))
	if f.SecurityErr != nil {
		return nil, f.SecurityErr
	}
	resp := &remote.Response[models.SecurityInfoRow]{Header: remote.ResultHeader{StatusCode: remote.StatusFinished}}
	for _, text := range p.SecurityText {
		ref, ok := f.Securities[text]
		if !ok {
			continue
		}
		code, exch := splitKey(text)
		resp.Rows = append(resp.Rows, models.SecurityInfoRow{SecurityCode: code, Exchange: exch, SEDOL: ref.SEDOL, ISIN: ref.ISIN})
	}
	return resp, nil
}

func (f *Fake) TradeGetByUser(_ context.Context, p remote.TradeGetByUserParams, h remote.Header) (*remote.Response[models.TradeRow], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TradeGetByUser", h)
	f.TradeParams = append(f.TradeParams, p)
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return nextPage(f, "TradeGetByUser", f.Trades), nil
}

func (f *Fake) AuditTrailGetByUser(_ context.Context, p remote.AuditTrailGetByUserParams, h remote.Header) (*remote.Response[models.AuditTrailRow], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AuditTrailGetByUser", h)
	f.AuditParams = append(f.AuditParams, p)
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return nextPage(f, "AuditTrailGetByUser", f.AuditTrail), nil
}

func (f *Fake) OrderSearchGetByUser(_ context.Context, p remote.OrderSearchGetByUserParams, h remote.Header) (*remote.Response[models.OrderSearchRow], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("OrderSearchGetByUser", h)
	f.OrderParams = append(f.OrderParams, p)
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return nextPage(f, "OrderSearchGetByUser", f.OrderSearch), nil
}

func nextPage[R any](f *Fake, op string, pages [][]R) *remote.Response[R] {
	if f.pageIdx == nil {
		f.pageIdx = make(map[string]int)
	}
	i := f.pageIdx[op]
	f.pageIdx[op] = i + 1

	resp := &remote.Response[R]{Header: remote.ResultHeader{StatusCode: remote.StatusFinished}}
	if i < len(pages) {
		resp.Rows = pages[i]
	}
	if i < len(pages)-1 {
		resp.Header.StatusCode = remote.StatusMoreData
	}
	return resp
}

func splitKey(text string) (string, string) {
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == '.' {
			return text[:i], text[i+1:]
		}
	}
	return text, ""
}
