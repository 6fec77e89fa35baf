package rewrite

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects what happens to the orientation header.
type Mode int

const (
	NoChange Mode = iota
	Flip
	Remove
)

func (m Mode) String() string {
	switch m {
	case NoChange:
		return "none"
	case Flip:
		return "flip"
	case Remove:
		return "remove"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names printed by Mode.String, case-insensitively.
// An empty string means NoChange.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "nochange", "keep":
		return NoChange, nil
	case "flip":
		return Flip, nil
	case "remove":
		return Remove, nil
	}
	return NoChange, fmt.Errorf("unknown orientation mode %q (want none, flip or remove)", s)
}

// Orientation is the classification of an orientation header value.
type Orientation int

const (
	OrientationOther Orientation = iota
	Landscape
	Portrait
)

const (
	keywordLandscape = "landscape"
	keywordPortrait  = "portrait"
)

// String returns the keyword in the form written back into documents.
func (o Orientation) String() string {
	switch o {
	case Landscape:
		return titleCase(keywordLandscape)
	case Portrait:
		return titleCase(keywordPortrait)
	}
	return "Other"
}

// titleCase builds a fresh Caser per call; a Caser must not be shared
// between goroutines.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

// ClassifyOrientation trims value and reports which keyword it contains.
// "landscape" is checked first, matching the order the transformer uses.
func ClassifyOrientation(value []byte) Orientation {
	v := strings.ToLower(string(bytes.TrimSpace(value)))
	switch {
	case strings.Contains(v, keywordLandscape):
		return Landscape
	case strings.Contains(v, keywordPortrait):
		return Portrait
	}
	return OrientationOther
}

// TransformOrientation returns the edit that applies mode to the orientation
// field f. It reports false when there is nothing to do: the tag is absent
// (found is false), mode is NoChange, or the value names neither landscape
// nor portrait. None of these cases is an error.
func TransformOrientation(doc []byte, f Field, found bool, mode Mode) (Edit, bool) {
	if !found || mode == NoChange {
		return Edit{}, false
	}
	value := f.Value(doc)
	current := ClassifyOrientation(value)
	if current == OrientationOther {
		return Edit{}, false
	}

	var text []byte
	switch mode {
	case Flip:
		next := Portrait
		if current == Portrait {
			next = Landscape
		}
		text = append(append([]byte{}, leadingSpace(value)...), next.String()...)
	case Remove:
		text = []byte{' '}
	default:
		return Edit{}, false
	}
	return Edit{Start: f.Start, End: f.End, Text: text}, true
}
