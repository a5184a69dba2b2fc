// Package fetch drains paginated IOS+ operations.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/iosplus-extract/internal/logger"
	"github.com/guttosm/iosplus-extract/internal/remote"
)

// Call issues one request of a paginated operation. It must send the
// identical request every time it is invoked; the server keeps the cursor.
type Call[R any] func(ctx context.Context) (*remote.Response[R], error)

// All drains a paginated operation.
//
// Parameters:
//   - ctx: cancels the loop between pages
//   - op: operation name, used for logging and error context
//   - call: issues the (identical) request once
//
// Behavior:
//   - Appends the rows of every page in response order.
//   - Re-issues the request while the result status code is 1 (more data);
//     any other status ends the loop. There is no page limit.
//   - The first error aborts the loop; rows gathered so far are discarded.
//
// Returns:
//   - []R: all rows across pages
//   - error: the call's error wrapped with the page number
func All[R any](ctx context.Context, op string, call Call[R]) ([]R, error) {
	var rows []R
	start := time.Now()
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s page %d: %w", op, page, err)
		}
		resp, err := call(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", op, page, err)
		}
		if resp == nil {
			return nil, fmt.Errorf("%s page %d: empty response", op, page)
		}
		rows = append(rows, resp.Rows...)
		logger.L().Debug().
			Str("op", op).
			Int("page", page).
			Int("rows", len(resp.Rows)).
			Int("status", resp.Header.StatusCode).
			Msg("page received")
		if !resp.More() {
			logger.L().Debug().Str("op", op).Int("pages", page).Int("rows", len(rows)).Dur("elapsed", time.Since(start)).Msg("fetch done")
			return rows, nil
		}
	}
}
