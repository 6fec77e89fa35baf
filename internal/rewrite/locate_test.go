package rewrite

import "testing"

func TestLocate(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		tag       string
		from      int
		wantFound bool
		wantValue string
	}{
		{"simple", "%%BoundingBox: 1 2 3 4\n", TagBoundingBox, 0, true, " 1 2 3 4"},
		{"case insensitive", "%%boundingbox: 1 2 3 4\n", TagBoundingBox, 0, true, " 1 2 3 4"},
		{"stops at cr", "%%Orientation: Portrait\r\n", TagOrientation, 0, true, " Portrait"},
		{"stops at percent", "%%Orientation: Portrait %x\n", TagOrientation, 0, true, " Portrait "},
		{"runs to end of buffer", "%%Orientation: Portrait", TagOrientation, 0, true, " Portrait"},
		{"empty value", "%%Orientation:\n", TagOrientation, 0, true, ""},
		{"absent", "%!PS\n", TagOrientation, 0, false, ""},
		{"before start offset", "%%Orientation: Portrait\n", TagOrientation, 5, false, ""},
		{"negative offset clamps", "%%Orientation: Portrait\n", TagOrientation, -4, true, " Portrait"},
		{"offset past end", "%%Orientation: Portrait\n", TagOrientation, 100, false, ""},
		{"non utf8 bytes", "\xff\xfe%%ORIENTATION: x\n", TagOrientation, 0, true, " x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := []byte(tt.doc)
			f, ok := Locate(doc, tt.tag, tt.from)
			if ok != tt.wantFound {
				t.Fatalf("Locate() found = %v, want %v", ok, tt.wantFound)
			}
			if !ok {
				return
			}
			if f.Start > f.End || f.End > len(doc) {
				t.Errorf("invalid span [%d,%d) for %d bytes", f.Start, f.End, len(doc))
			}
			if got := string(f.Value(doc)); got != tt.wantValue {
				t.Errorf("Value() = %q, want %q", got, tt.wantValue)
			}
			if got := string(doc[f.Offset():f.Start]); !equalFoldASCII(got, tt.tag) {
				t.Errorf("Offset() points at %q, want tag %q", got, tt.tag)
			}
		})
	}
}

func equalFoldASCII(a, b string) bool {
	return len(a) == len(b) && indexFold([]byte(a), b) == 0
}
