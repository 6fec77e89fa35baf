// Package rewrite repairs the page geometry header of EPS documents.
//
// The engine finds the %%BoundingBox: and %%Orientation: header comments in
// an otherwise opaque byte stream, derives replacement text for them and
// splices that text back into a copy of the original bytes. It is a pure
// function of its input: nothing is shared between calls and the source
// buffer is never modified.
package rewrite

import (
	"errors"
	"fmt"
)

// ErrTagNotFound is returned when the bounding-box tag is absent.
var ErrTagNotFound = errors.New("bounding-box tag not found")

// Kind is the severity of a Status.
type Kind int

const (
	OK Kind = iota
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Reason explains a non-OK Status.
type Reason string

const (
	ReasonTagNotFound      Reason = "bounding-box tag not found"
	ReasonMalformedValue   Reason = "bounding-box value malformed"
	ReasonTempWriteFailed  Reason = "temporary output could not be written"
	ReasonSourceReadFailed Reason = "source document could not be read"
	ReasonOverlappingEdits Reason = "header edits overlap"
)

// Status is the outcome of a rewrite.
type Status struct {
	Kind   Kind   `json:"kind"`
	Reason Reason `json:"reason,omitempty"`
}

// Ok reports whether s carries no warning or error.
func (s Status) Ok() bool { return s.Kind == OK }

func (s Status) String() string {
	if s.Reason == "" {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s: %s", s.Kind, s.Reason)
}

// Warn returns a Warning status with reason r.
func Warn(r Reason) Status { return Status{Kind: Warning, Reason: r} }

// Fail returns an Error status with reason r.
func Fail(r Reason) Status { return Status{Kind: Error, Reason: r} }

// Options control a single Rewrite call.
type Options struct {
	Orientation Mode

	// SearchFrom is the byte offset where tag searches begin.
	SearchFrom int
}

// Result is everything a Rewrite call produced.
type Result struct {
	Output  []byte
	Status  Status
	Newline Newline

	// BoundingBox is the parsed original box; nil when none was usable.
	BoundingBox *BoundingBox

	// BoundingBoxField and OrientationField are nil when the tag is absent.
	BoundingBoxField *Field
	OrientationField *Field

	// Edits are the edits that were spliced, in document order.
	Edits []Edit
}

// Rewrite normalises the bounding box of doc and applies opts.Orientation to
// its orientation header. A missing or malformed bounding box yields a
// Warning status while the orientation edit still goes through; a missing
// or unrecognised orientation is silently left alone.
func Rewrite(doc []byte, opts Options) Result {
	res := Result{Newline: DetectNewline(doc)}
	var edits []Edit

	if f, ok := locateBoundingBox(doc, opts.SearchFrom); !ok {
		res.Status = Warn(ReasonTagNotFound)
	} else {
		res.BoundingBoxField = &f
		edit, box, err := NormalizeBoundingBox(doc, f, res.Newline)
		if err != nil {
			res.Status = Warn(ReasonMalformedValue)
		} else {
			res.BoundingBox = &box
			edits = append(edits, edit)
		}
	}

	of, found := Locate(doc, TagOrientation, opts.SearchFrom)
	if found {
		res.OrientationField = &of
	}
	if edit, ok := TransformOrientation(doc, of, found, opts.Orientation); ok {
		edits = append(edits, edit)
	}

	out, err := Splice(doc, edits...)
	if err != nil {
		return Result{
			Output:           append([]byte(nil), doc...),
			Status:           Fail(ReasonOverlappingEdits),
			Newline:          res.Newline,
			BoundingBoxField: res.BoundingBoxField,
			OrientationField: res.OrientationField,
		}
	}
	if len(edits) == 2 && edits[1].Start < edits[0].Start {
		edits[0], edits[1] = edits[1], edits[0]
	}
	res.Output = out
	res.Edits = edits
	return res
}

// Err converts a non-OK status from Rewrite into an error wrapping the
// matching sentinel, or nil for OK.
func (r Result) Err() error {
	switch r.Status.Reason {
	case "":
		return nil
	case ReasonTagNotFound:
		return ErrTagNotFound
	case ReasonMalformedValue:
		return ErrMalformedBoundingBox
	case ReasonOverlappingEdits:
		return ErrOverlappingEdits
	}
	return errors.New(string(r.Status.Reason))
}
