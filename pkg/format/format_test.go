package format_test

import (
	"reflect"
	"testing"

	"epsconv/pkg/format"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name       string
		wantName   string
		wantDevice string
		wantOK     bool
	}{
		{"png", format.PNG, "png16m", true},
		{"JPG", format.JPEG, "jpeg", true},
		{" tif ", format.TIFF, "tiff24nc", true},
		{"pdf", format.PDF, "pdfwrite", true},
		{"bmp", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := format.Lookup(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if f.Name != tt.wantName || f.Device != tt.wantDevice {
				t.Errorf("Lookup(%q) = %+v", tt.name, f)
			}
		})
	}
}

func TestParse(t *testing.T) {
	got, err := format.Parse([]string{"pdf", "png", "PDF", "jpg"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var names []string
	for _, f := range got {
		names = append(names, f.Name)
	}
	if want := []string{"pdf", "png", "jpeg"}; !reflect.DeepEqual(names, want) {
		t.Errorf("Parse() names = %v, want %v", names, want)
	}

	if _, err := format.Parse([]string{"png", "gif"}); err == nil {
		t.Error("Parse() expected error for unsupported format")
	}
}

func TestNames(t *testing.T) {
	want := []string{"jpeg", "pdf", "png", "tiff"}
	if got := format.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
