package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/guttosm/iosplus-extract/internal/remote"
)

func pages(codes []int, rows [][]string) (Call[string], *int) {
	calls := 0
	return func(ctx context.Context) (*remote.Response[string], error) {
		i := calls
		calls++
		return &remote.Response[string]{
			Header: remote.ResultHeader{StatusCode: codes[i]},
			Rows:   rows[i],
		}, nil
	}, &calls
}

func TestAll_AccumulatesPagesInOrder(t *testing.T) {
	call, calls := pages([]int{1, 1, 0}, [][]string{{"a", "b"}, {"c"}, {"d", "e"}})

	got, err := All(context.Background(), "TradeGetByUser", call)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *calls != 3 {
		t.Fatalf("want 3 calls, got %d", *calls)
	}
	want := []string{"a", "b", "c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q want %q", i, got[i], want[i])
		}
	}
}

func TestAll_StopsOnNonContinuationStatus(t *testing.T) {
	cases := []struct {
		name string
		code int
	}{
		{"finished", remote.StatusFinished},
		{"watching", remote.StatusWatching},
		{"zero", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			call, calls := pages([]int{c.code, 1}, [][]string{{"x"}, {"y"}})
			got, err := All(context.Background(), "op", call)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *calls != 1 || len(got) != 1 {
				t.Fatalf("calls=%d rows=%v", *calls, got)
			}
		})
	}
}

func TestAll_EmptyFirstPage(t *testing.T) {
	call, _ := pages([]int{2}, [][]string{nil})
	got, err := All(context.Background(), "op", call)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestAll_PropagatesError(t *testing.T) {
	boom := errors.New("fault")
	calls := 0
	call := func(ctx context.Context) (*remote.Response[string], error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return &remote.Response[string]{Header: remote.ResultHeader{StatusCode: 1}, Rows: []string{"a"}}, nil
	}
	got, err := All[string](context.Background(), "op", call)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fault, got %v", err)
	}
	if got != nil {
		t.Fatalf("partial rows must be discarded, got %v", got)
	}
}

func TestAll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	call := func(context.Context) (*remote.Response[string], error) {
		calls++
		cancel()
		return &remote.Response[string]{Header: remote.ResultHeader{StatusCode: 1}}, nil
	}
	_, err := All[string](ctx, "op", call)
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}
