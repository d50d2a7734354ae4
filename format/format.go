// Package format implements the Futoshiki puzzle text-file grammar fixed
// in spec.md §6, grounded on the teacher's DIMACS reader
// (parser/parser.go): a bufio.Scanner line loop, blank-line tolerance,
// and fmt.Errorf-wrapped parse errors.
package format

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/falswe/futoshiki-solver/puzzle"
)

var (
	ErrEmpty          = errors.New("format: input has no numeric rows")
	ErrUnparseable    = errors.New("format: could not parse input")
	ErrSizeOutOfRange = errors.New("format: puzzle size out of range")
)

// Parse reads the grammar of spec.md §6:
//   - size is inferred from the first numeric row's token count
//   - numeric rows hold size integers in 0..size, 0 meaning empty
//   - a '<'/'>' between two numbers on a row sets the horizontal
//     constraint between them
//   - a line between two numeric rows is a vertical-constraint row: '^'
//     sets upper<lower, 'v'/'V' sets upper>lower, matched to the nearest
//     column on a 3-character pitch (see parseVerticalLine)
//   - blank lines and surrounding whitespace are ignored
func Parse(r io.Reader) (*puzzle.Puzzle, error) {
	var rawLines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		rawLines = append(rawLines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("format: read input: %w", err)
	}

	var numericRows [][]string // token stream per numeric row, '<'/'>' included inline
	var betweenLines []string  // the raw line found directly between two numeric rows (empty if none)
	var size int

	pendingBetween := ""
	sawNumeric := false

	for _, line := range rawLines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		tokens := strings.Fields(line)
		if isNumericRow(tokens) {
			numericRows = append(numericRows, tokens)
			betweenLines = append(betweenLines, pendingBetween)
			pendingBetween = ""
			sawNumeric = true
			continue
		}
		if !sawNumeric {
			return nil, fmt.Errorf("%w: vertical-constraint line before any numeric row", ErrUnparseable)
		}
		pendingBetween = line
	}
	// betweenLines[i] is the line *above* numericRows[i]; shift so that
	// vBetween[i] holds the line between numericRows[i] and [i+1].
	vBetween := make([]string, 0, len(numericRows))
	for i := 1; i < len(betweenLines); i++ {
		vBetween = append(vBetween, betweenLines[i])
	}

	if len(numericRows) == 0 {
		return nil, ErrEmpty
	}

	size = countValues(numericRows[0])
	if size < 1 || size > puzzle.NMax {
		return nil, fmt.Errorf("%w: %d", ErrSizeOutOfRange, size)
	}
	if len(numericRows) != size {
		return nil, fmt.Errorf("%w: expected %d numeric rows, found %d", ErrUnparseable, size, len(numericRows))
	}

	board := make([][]int, size)
	hCons := make([][]puzzle.Cons, size)
	for r, tokens := range numericRows {
		row, h, err := parseNumericRow(tokens, size)
		if err != nil {
			return nil, fmt.Errorf("format: row %d: %w", r, err)
		}
		board[r] = row
		hCons[r] = h
	}

	vCons := make([][]puzzle.Cons, size)
	for r := 0; r < size; r++ {
		vCons[r] = make([]puzzle.Cons, size)
	}
	for r := 0; r < size-1 && r < len(vBetween); r++ {
		if err := parseVerticalLine(vBetween[r], size, vCons[r]); err != nil {
			return nil, fmt.Errorf("format: vertical line after row %d: %w", r, err)
		}
	}

	return puzzle.New(board, hCons, vCons)
}

func isNumericRow(tokens []string) bool {
	for _, t := range tokens {
		if t == "<" || t == ">" {
			continue
		}
		if _, err := strconv.Atoi(t); err != nil {
			return false
		}
	}
	return len(tokens) > 0
}

func countValues(tokens []string) int {
	n := 0
	for _, t := range tokens {
		if t != "<" && t != ">" {
			n++
		}
	}
	return n
}

// parseNumericRow splits a numeric row's tokens into the cell values and
// the inline horizontal constraints between them.
func parseNumericRow(tokens []string, size int) ([]int, []puzzle.Cons, error) {
	row := make([]int, 0, size)
	hCons := make([]puzzle.Cons, size)

	col := 0
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t {
		case "<":
			if col == 0 {
				return nil, nil, fmt.Errorf("%w: leading '<'", ErrUnparseable)
			}
			hCons[col-1] = puzzle.Smaller
		case ">":
			if col == 0 {
				return nil, nil, fmt.Errorf("%w: leading '>'", ErrUnparseable)
			}
			hCons[col-1] = puzzle.Greater
		default:
			v, err := strconv.Atoi(t)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: token %q", ErrUnparseable, t)
			}
			if v < 0 || v > size {
				return nil, nil, fmt.Errorf("%w: value %d out of range [0,%d]", ErrUnparseable, v, size)
			}
			row = append(row, v)
			col++
		}
	}
	if len(row) != size {
		return nil, nil, fmt.Errorf("%w: expected %d values, found %d", ErrUnparseable, size, len(row))
	}
	return row, hCons, nil
}

// parseVerticalLine binds each '^'/'v'/'V' character to the column whose
// numeric center is closest to the character's index, per spec.md §6.
// Columns are assumed printed at 3-character width (matching
// puzzle.Solution.String), i.e. column c's center sits at index 3*c+1;
// the positions of the numbers in the neighboring numeric rows are not
// consulted, so a file laid out at another column pitch can bind a
// character to the wrong column.
func parseVerticalLine(line string, size int, out []puzzle.Cons) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	for i, ch := range line {
		var cons puzzle.Cons
		switch ch {
		case '^':
			cons = puzzle.Smaller
		case 'v', 'V':
			cons = puzzle.Greater
		case ' ':
			continue
		default:
			return fmt.Errorf("%w: unexpected character %q in vertical-constraint line", ErrUnparseable, ch)
		}
		col := nearestColumn(i, size)
		out[col] = cons
	}
	return nil
}

func nearestColumn(charIndex, size int) int {
	col := charIndex / 3
	if col < 0 {
		col = 0
	}
	if col >= size {
		col = size - 1
	}
	return col
}
