package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrEditOutOfRange is returned when an edit span does not fit the document.
	ErrEditOutOfRange = errors.New("edit span out of range")
	// ErrOverlappingEdits is returned when two edit spans share bytes.
	ErrOverlappingEdits = errors.New("edit spans overlap")
)

// Edit replaces doc[Start:End] of the original document with Text.
type Edit struct {
	Start int
	End   int
	Text  []byte
}

// Splice applies edits to doc in a single pass and returns a new buffer.
// All spans refer to offsets in the original doc, never to a partially
// rewritten buffer, and may be passed in any order. doc is not modified.
func Splice(doc []byte, edits ...Edit) ([]byte, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	delta := 0
	cursor := 0
	for _, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(doc) {
			return nil, fmt.Errorf("%w: [%d,%d) in %d bytes", ErrEditOutOfRange, e.Start, e.End, len(doc))
		}
		if e.Start < cursor {
			return nil, fmt.Errorf("%w: edit at %d starts before previous edit ends at %d", ErrOverlappingEdits, e.Start, cursor)
		}
		cursor = e.End
		delta += len(e.Text) - (e.End - e.Start)
	}

	var out bytes.Buffer
	out.Grow(len(doc) + delta)
	cursor = 0
	for _, e := range sorted {
		out.Write(doc[cursor:e.Start])
		out.Write(e.Text)
		cursor = e.End
	}
	out.Write(doc[cursor:])
	return out.Bytes(), nil
}
