package schedule

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/falswe/futoshiki-solver/puzzle"
)

// encodeUnit/decodeUnit and encodeGrid/decodeGrid give the inter-node
// scheduler a fixed, self-describing wire format for cluster.Message
// payloads, per spec.md §9's note that units should travel "as a single
// contiguous buffer regardless of the underlying transport."
func encodeUnit(u puzzle.WorkUnit) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(u); err != nil {
		panic(fmt.Sprintf("schedule: encode work unit: %v", err)) // gob of a plain struct cannot fail
	}
	return buf.Bytes()
}

func decodeUnit(b []byte) (puzzle.WorkUnit, error) {
	var u puzzle.WorkUnit
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&u); err != nil {
		return puzzle.WorkUnit{}, fmt.Errorf("schedule: decode work unit: %w", err)
	}
	return u, nil
}

func encodeGrid(g *puzzle.Grid) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		panic(fmt.Sprintf("schedule: encode grid: %v", err))
	}
	return buf.Bytes()
}

func decodeGrid(b []byte) (*puzzle.Grid, error) {
	var g puzzle.Grid
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&g); err != nil {
		return nil, fmt.Errorf("schedule: decode grid: %w", err)
	}
	return &g, nil
}
