package fanout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chengwenxi/ibc-relayer/internal/fanout"
)

func TestPairRunsBothAndReturnsValues(t *testing.T) {
	a, b, err := fanout.Pair(context.Background(),
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (string, error) { return "x", nil },
	)
	require.NoError(t, err)
	require.Equal(t, 1, a)
	require.Equal(t, "x", b)
}

func TestPairPropagatesFirstError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := fanout.Pair(context.Background(),
		func(ctx context.Context) (int, error) { return 0, boom },
		func(ctx context.Context) (int, error) { return 0, nil },
	)
	require.ErrorIs(t, err, boom)
}

func TestCollectPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4}
	results, err := fanout.Collect(context.Background(), items, func(ctx context.Context, i int) (int, error) {
		return i * i, nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 4, 9, 16}, results)
}

func TestRunReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	err := fanout.Run(context.Background(),
		fanout.Task{Name: "ok", Run: func(ctx context.Context) error { return nil }},
		fanout.Task{Name: "bad", Run: func(ctx context.Context) error { return boom }},
	)
	require.ErrorIs(t, err, boom)
}
