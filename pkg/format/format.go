package format

import (
	"fmt"
	"sort"
	"strings"
)

// Format describes one output kind and how Ghostscript produces it.
type Format struct {
	Name       string // canonical name, e.g. "png"
	Extension  string // output file extension without the dot
	Device     string // Ghostscript -sDEVICE value
	Resolution int    // dots per inch passed as -r
}

// Names of the supported formats.
const (
	PNG  = "png"
	JPEG = "jpeg"
	TIFF = "tiff"
	PDF  = "pdf"
)

var table = map[string]Format{
	PNG:  {Name: PNG, Extension: "png", Device: "png16m", Resolution: 300},
	JPEG: {Name: JPEG, Extension: "jpg", Device: "jpeg", Resolution: 300},
	TIFF: {Name: TIFF, Extension: "tif", Device: "tiff24nc", Resolution: 300},
	PDF:  {Name: PDF, Extension: "pdf", Device: "pdfwrite", Resolution: 720},
}

var aliases = map[string]string{
	"jpg": JPEG,
	"tif": TIFF,
}

// Lookup returns the built-in entry for name, accepting aliases and any case.
func Lookup(name string) (Format, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	f, ok := table[key]
	return f, ok
}

// Parse resolves a list of names, dropping duplicates while keeping order.
func Parse(names []string) ([]Format, error) {
	seen := make(map[string]struct{}, len(names))
	var out []Format
	for _, n := range names {
		f, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("unsupported format %q (supported: %s)", n, strings.Join(Names(), ", "))
		}
		if _, dup := seen[f.Name]; dup {
			continue
		}
		seen[f.Name] = struct{}{}
		out = append(out, f)
	}
	return out, nil
}

// All returns every built-in format sorted by name.
func All() []Format {
	out := make([]Format, 0, len(table))
	for _, f := range table {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the canonical names of All.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, f := range all {
		names[i] = f.Name
	}
	return names
}

// String returns a one-line description, e.g. "png (png16m @ 300dpi)".
func (f Format) String() string {
	return fmt.Sprintf("%s (%s @ %ddpi)", f.Name, f.Device, f.Resolution)
}
