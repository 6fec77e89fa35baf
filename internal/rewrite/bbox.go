package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedBoundingBox is returned when a bounding-box value is not
// exactly four integers in the 32-bit range.
var ErrMalformedBoundingBox = errors.New("bounding-box value malformed")

// atEnd is the DSC marker deferring a header value to the trailer.
const atEnd = "(atend)"

// BoundingBox is the drawable extent of a document in its own coordinate
// space: lower-left (LLX, LLY) and upper-right (URX, URY).
type BoundingBox struct {
	LLX, LLY, URX, URY int
}

// Width is never negative, even when the corners are given in reverse order.
func (b BoundingBox) Width() int {
	return abs(b.URX - b.LLX)
}

// Height is never negative, even when the corners are given in reverse order.
func (b BoundingBox) Height() int {
	return abs(b.URY - b.LLY)
}

// Translation is the offset that moves the original lower-left corner to
// the page origin.
func (b BoundingBox) Translation() (x, y int) {
	return -b.LLX, -b.LLY
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%d %d %d %d", b.LLX, b.LLY, b.URX, b.URY)
}

// ParseBoundingBox reads the value of f as four whitespace separated integers.
// Each must fit in 32 bits so that widths and translations cannot overflow.
func ParseBoundingBox(doc []byte, f Field) (BoundingBox, error) {
	tokens := bytes.Fields(f.Value(doc))
	if len(tokens) != 4 {
		return BoundingBox{}, fmt.Errorf("%w: want 4 numbers, got %d tokens", ErrMalformedBoundingBox, len(tokens))
	}
	var n [4]int
	for i, tok := range tokens {
		v, err := strconv.ParseInt(string(tok), 10, 32)
		if errors.Is(err, strconv.ErrRange) {
			return BoundingBox{}, fmt.Errorf("%w: %q is out of range", ErrMalformedBoundingBox, tok)
		}
		if err != nil {
			return BoundingBox{}, fmt.Errorf("%w: %q is not an integer", ErrMalformedBoundingBox, tok)
		}
		n[i] = int(v)
	}
	return BoundingBox{LLX: n[0], LLY: n[1], URX: n[2], URY: n[3]}, nil
}

// NormalizeBoundingBox builds the edit that makes the bounding box the page
// itself: the value becomes "0 0 width height", followed on new lines by a
// page size directive and a translation of the original lower-left corner
// to the origin. Every inserted line break uses nl.
func NormalizeBoundingBox(doc []byte, f Field, nl Newline) (Edit, BoundingBox, error) {
	box, err := ParseBoundingBox(doc, f)
	if err != nil {
		return Edit{}, BoundingBox{}, err
	}
	w, h := box.Width(), box.Height()
	tx, ty := box.Translation()

	var buf bytes.Buffer
	buf.Write(leadingSpace(f.Value(doc)))
	fmt.Fprintf(&buf, "0 0 %d %d", w, h)
	buf.WriteString(string(nl))
	fmt.Fprintf(&buf, "<< /PageSize [%d %d] >> setpagedevice", w, h)
	buf.WriteString(string(nl))
	fmt.Fprintf(&buf, "%d %d translate", tx, ty)

	return Edit{Start: f.Start, End: f.End, Text: buf.Bytes()}, box, nil
}

// locateBoundingBox finds the bounding-box field, following an (atend)
// marker to the later occurrence in the trailer when there is one.
func locateBoundingBox(doc []byte, from int) (Field, bool) {
	f, ok := Locate(doc, TagBoundingBox, from)
	if !ok {
		return Field{}, false
	}
	if string(bytes.TrimSpace(f.Value(doc))) == atEnd {
		if trailer, ok := Locate(doc, TagBoundingBox, f.End); ok {
			return trailer, true
		}
	}
	return f, true
}

// leadingSpace returns the whitespace a value starts with, or a single
// blank when there is none.
func leadingSpace(value []byte) []byte {
	i := 0
	for i < len(value) && (value[i] == ' ' || value[i] == '\t') {
		i++
	}
	if i == 0 {
		return []byte{' '}
	}
	return value[:i]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
