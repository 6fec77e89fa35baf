package rewrite

import (
	"bytes"
	"sort"
)

// Newline is the end-of-line byte sequence a document uses.
type Newline string

const (
	LF   Newline = "\n"
	CR   Newline = "\r"
	CRLF Newline = "\r\n"
)

// DefaultNewline is assumed when a document contains no line break at all.
const DefaultNewline = LF

// DetectNewline inspects doc up to its first CR or LF byte and reports the
// convention in use. Documents without any line break get DefaultNewline.
func DetectNewline(doc []byte) Newline {
	i := bytes.IndexAny(doc, "\r\n")
	if i < 0 {
		return DefaultNewline
	}
	if doc[i] == '\n' {
		return LF
	}
	if i+1 < len(doc) && doc[i+1] == '\n' {
		return CRLF
	}
	return CR
}

// String returns the escaped form of the sequence, e.g. `\r\n`.
func (n Newline) String() string {
	switch n {
	case LF:
		return `\n`
	case CR:
		return `\r`
	case CRLF:
		return `\r\n`
	}
	return "unknown"
}

// LineIndex maps byte offsets in a document to 1-based line numbers.
type LineIndex struct {
	offsets []int // byte offset where each line begins
}

// NewLineIndex precomputes line starts for doc using the newline convention nl.
func NewLineIndex(doc []byte, nl Newline) *LineIndex {
	sep := []byte(nl)
	if len(sep) == 0 {
		sep = []byte(DefaultNewline)
	}
	offsets := []int{0}
	for pos := 0; ; {
		i := bytes.Index(doc[pos:], sep)
		if i < 0 {
			break
		}
		pos += i + len(sep)
		if pos >= len(doc) {
			break
		}
		offsets = append(offsets, pos)
	}
	return &LineIndex{offsets: offsets}
}

// Line returns the 1-based line number containing offset.
func (li *LineIndex) Line(offset int) int {
	i := sort.Search(len(li.offsets), func(i int) bool {
		return li.offsets[i] > offset
	})
	if i == 0 {
		return 1
	}
	return i
}

// Lines reports how many lines were indexed.
func (li *LineIndex) Lines() int {
	return len(li.offsets)
}
