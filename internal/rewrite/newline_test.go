package rewrite

import "testing"

func TestDetectNewline(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Newline
	}{
		{"empty", "", LF},
		{"no line break", "%!PS-Adobe-3.0", LF},
		{"lf", "%!PS\n%%EOF\n", LF},
		{"cr", "%!PS\r%%EOF\r", CR},
		{"crlf", "%!PS\r\n%%EOF\r\n", CRLF},
		{"trailing cr", "%!PS\r", CR},
		{"first break wins", "%!PS\n\r\n", LF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectNewline([]byte(tt.doc)); got != tt.want {
				t.Errorf("DetectNewline(%q) = %v, want %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestLineIndex(t *testing.T) {
	doc := []byte("ab\r\ncd\r\nef")
	li := NewLineIndex(doc, CRLF)
	if li.Lines() != 3 {
		t.Fatalf("Lines() = %d, want 3", li.Lines())
	}
	cases := map[int]int{0: 1, 3: 1, 4: 2, 7: 2, 8: 3, 9: 3}
	for offset, want := range cases {
		if got := li.Line(offset); got != want {
			t.Errorf("Line(%d) = %d, want %d", offset, got, want)
		}
	}
}
