package side_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chengwenxi/ibc-relayer/internal/side"
)

func TestOther(t *testing.T) {
	require.Equal(t, side.B, side.A.Other())
	require.Equal(t, side.A, side.B.Other())
}

func TestGetEnds(t *testing.T) {
	ends := side.GetEnds(side.A, "a", "b")
	require.Equal(t, side.Ends[string]{Src: "a", Dest: "b"}, ends)

	ends = side.GetEnds(side.B, "a", "b")
	require.Equal(t, side.Ends[string]{Src: "b", Dest: "a"}, ends)
}

func TestString(t *testing.T) {
	require.Equal(t, "A", side.A.String())
	require.Equal(t, "B", side.B.String())
}
