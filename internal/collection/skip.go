package collection

import (
	"errors"
	"fmt"

	"github.com/handiism/nmlgraph/internal/nml"
)

// ErrSkipped is wrapped by every error Ingest returns for a dropped record.
var ErrSkipped = errors.New("record skipped")

// SkipReason explains why a record was dropped.
type SkipReason int

const (
	SkipMissingLocation SkipReason = iota + 1
	SkipMissingTitle
	SkipDuplicateLocation
	SkipMissingName
	SkipUnknownKind
)

func (r SkipReason) String() string {
	switch r {
	case SkipMissingLocation:
		return "missing_location"
	case SkipMissingTitle:
		return "missing_title"
	case SkipDuplicateLocation:
		return "duplicate_location"
	case SkipMissingName:
		return "missing_name"
	case SkipUnknownKind:
		return "unknown_kind"
	default:
		return "unknown"
	}
}

// Skip describes a dropped record.
type Skip struct {
	Kind   nml.Kind
	Reason SkipReason

	// Sequence is the zero-based position of the record among all records
	// given to the builder.
	Sequence int

	// Title, Location and Name carry whatever identifying data the record had.
	Title    string
	Location string
	Name     string
}

func (s Skip) String() string {
	switch {
	case s.Location != "":
		return fmt.Sprintf("%s #%d (%s): %s", s.Kind, s.Sequence, s.Location, s.Reason)
	case s.Title != "":
		return fmt.Sprintf("%s #%d (%q): %s", s.Kind, s.Sequence, s.Title, s.Reason)
	default:
		return fmt.Sprintf("%s #%d: %s", s.Kind, s.Sequence, s.Reason)
	}
}

// SkipError is returned by Ingest when a record is dropped.
type SkipError struct {
	Skip Skip
}

func (e *SkipError) Error() string {
	return "skip " + e.Skip.String()
}

func (e *SkipError) Unwrap() error {
	return ErrSkipped
}
