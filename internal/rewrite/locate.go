package rewrite

// Header comment tags understood by the engine.
const (
	TagBoundingBox = "%%BoundingBox:"
	TagOrientation = "%%Orientation:"
)

// Field is one located occurrence of a header tag. Start is the offset just
// past the tag, End the offset of the first byte that terminates the value
// (a line break or a '%'), so doc[Start:End] is the raw value text.
type Field struct {
	Tag   string
	Start int
	End   int
}

// Value returns the untrimmed value text of f within doc.
func (f Field) Value(doc []byte) []byte {
	return doc[f.Start:f.End]
}

// Offset returns the offset of the tag itself.
func (f Field) Offset() int {
	return f.Start - len(f.Tag)
}

// Locate searches doc for tag, ignoring ASCII case, starting at byte offset
// from. It reports false when the tag does not occur at or after from.
func Locate(doc []byte, tag string, from int) (Field, bool) {
	if from < 0 {
		from = 0
	}
	if from > len(doc) || tag == "" {
		return Field{}, false
	}
	i := indexFold(doc[from:], tag)
	if i < 0 {
		return Field{}, false
	}
	start := from + i + len(tag)
	end := start
	for end < len(doc) && !isValueTerminator(doc[end]) {
		end++
	}
	return Field{Tag: tag, Start: start, End: end}, true
}

func isValueTerminator(b byte) bool {
	return b == '\n' || b == '\r' || b == '%'
}

// indexFold is bytes.Index with ASCII-only case folding, so offsets stay
// byte-exact on documents that are not valid UTF-8.
func indexFold(s []byte, sub string) int {
	n := len(sub)
	for i := 0; i+n <= len(s); i++ {
		j := 0
		for j < n && lowerASCII(s[i+j]) == lowerASCII(sub[j]) {
			j++
		}
		if j == n {
			return i
		}
	}
	return -1
}

func lowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
