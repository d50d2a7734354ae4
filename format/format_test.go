package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/falswe/futoshiki-solver/format"
	"github.com/falswe/futoshiki-solver/puzzle"
)

func TestWriteThenParseRoundTrips(t *testing.T) {
	board := [][]int{{2, 0, 0}, {0, 0, 0}, {0, 0, 1}}
	h := [][]puzzle.Cons{{puzzle.Greater, 0}, {0, 0}, {0, 0}}
	v := [][]puzzle.Cons{{puzzle.Smaller, 0, 0}, {0, 0, 0}, {0, 0, 0}}
	p, err := puzzle.New(board, h, v)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, format.Write(&buf, p))

	got, err := format.Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Equal(t, p.Size, got.Size)
	for r := 0; r < p.Size; r++ {
		for c := 0; c < p.Size; c++ {
			require.Equal(t, p.Board(r, c), got.Board(r, c))
		}
		for c := 0; c < p.Size-1; c++ {
			require.Equal(t, p.HCons(r, c), got.HCons(r, c))
		}
	}
	for r := 0; r < p.Size-1; r++ {
		for c := 0; c < p.Size; c++ {
			require.Equal(t, p.VCons(r, c), got.VCons(r, c))
		}
	}
}

// S2: a small puzzle exercising inline horizontal constraints and both
// vertical-constraint characters.
func TestParseHandlesInlineAndVerticalConstraints(t *testing.T) {
	input := `
2 > 1   3
 ^
0   0   0
v
0   0   0
`
	p, err := format.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 3, p.Size)

	require.Equal(t, 2, p.Board(0, 0))
	require.Equal(t, 1, p.Board(0, 1))
	require.Equal(t, 3, p.Board(0, 2))
	require.Equal(t, 0, p.Board(1, 0))

	require.Equal(t, puzzle.Greater, p.HCons(0, 0))
	require.Equal(t, puzzle.None, p.HCons(0, 1))

	require.Equal(t, puzzle.Smaller, p.VCons(0, 0))
	require.Equal(t, puzzle.Greater, p.VCons(1, 0))
}

func TestParseEmptyInputReturnsErrEmpty(t *testing.T) {
	_, err := format.Parse(strings.NewReader("\n\n   \n"))
	require.ErrorIs(t, err, format.ErrEmpty)
}

func TestParseRejectsMismatchedRowCount(t *testing.T) {
	input := "0 0\n"
	_, err := format.Parse(strings.NewReader(input))
	require.ErrorIs(t, err, format.ErrUnparseable)
}

func TestParseRejectsOutOfRangeValue(t *testing.T) {
	input := "0 0\n0 9\n"
	_, err := format.Parse(strings.NewReader(input))
	require.ErrorIs(t, err, format.ErrUnparseable)
}

func TestParseRejectsLeadingComparator(t *testing.T) {
	input := "> 0\n"
	_, err := format.Parse(strings.NewReader(input))
	require.ErrorIs(t, err, format.ErrUnparseable)
}

func TestParseIgnoresBlankLines(t *testing.T) {
	input := "\n\n0 0\n\n0 0\n\n"
	p, err := format.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, p.Size)
}
