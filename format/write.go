package format

import (
	"fmt"
	"io"

	"github.com/falswe/futoshiki-solver/puzzle"
)

// Write renders p back into the grammar Parse accepts: a debug/test
// convenience, not part of the solver core (spec.md §6 only fixes the
// grammar for interop, not a round-trip requirement).
func Write(w io.Writer, p *puzzle.Puzzle) error {
	for r := 0; r < p.Size; r++ {
		for c := 0; c < p.Size; c++ {
			if _, err := fmt.Fprintf(w, "%d", p.Board(r, c)); err != nil {
				return err
			}
			if c < p.Size-1 {
				sep := " "
				switch p.HCons(r, c) {
				case puzzle.Smaller:
					sep = " < "
				case puzzle.Greater:
					sep = " > "
				}
				if _, err := fmt.Fprint(w, sep); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}

		if r < p.Size-1 {
			line := make([]byte, 0, 3*p.Size)
			for c := 0; c < p.Size; c++ {
				ch := byte(' ')
				switch p.VCons(r, c) {
				case puzzle.Smaller:
					ch = '^'
				case puzzle.Greater:
					ch = 'v'
				}
				line = append(line, ' ', ch, ' ')
			}
			if _, err := fmt.Fprintln(w, string(line)); err != nil {
				return err
			}
		}
	}
	return nil
}
