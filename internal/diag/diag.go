// Package diag holds the decoder's diagnostic vocabulary: the terminal
// error kinds and the non-terminal warning kinds produced by the
// heuristic instrument detector and by v3 component-stream termination.
// The string scanner skips rejected candidates without producing a
// warning.
//
// It is a shared internal package, not nested under any one component,
// because header, instrument, note and readinglist all raise these: a
// single source of truth keeps tef's public re-exports (see errors.go at
// the repository root) consistent with what every component actually
// returns.
package diag

import "fmt"

// UnsupportedVersionError is returned when a header parses cleanly but
// names a major version the decoder does not implement.
type UnsupportedVersionError struct {
	Major, Minor int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("tef: unsupported version %d.%02d", e.Major, e.Minor)
}

// CorruptFileError is returned when a required marker or pointer target
// is missing or nonsensical.
type CorruptFileError struct {
	Reason string
}

func (e *CorruptFileError) Error() string {
	return "tef: corrupt file: " + e.Reason
}

// TruncatedError is returned when a fixed-width read overran the file.
// Cause, when present, is the underlying bounds-check error.
type TruncatedError struct {
	AtOffset int
	Cause    error
}

func (e *TruncatedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tef: truncated at offset %d: %v", e.AtOffset, e.Cause)
	}
	return fmt.Sprintf("tef: truncated at offset %d", e.AtOffset)
}

func (e *TruncatedError) Unwrap() error {
	return e.Cause
}

// Truncated wraps cause into a *TruncatedError anchored at offset.
func Truncated(offset int, cause error) error {
	return &TruncatedError{AtOffset: offset, Cause: cause}
}

// A Warning is a non-terminal diagnostic: the instrument detector and
// v3 component-stream termination degrade gracefully and record what
// they gave up on here instead of failing the parse. The string scanner
// records no warnings.
type Warning interface {
	error
	Warning() string
}

// InstrumentRejected records a name-anchor occurrence that failed
// validation (no NUL after the name, or the backward tuning-byte scan
// failed) and was skipped.
type InstrumentRejected struct {
	Name   string
	Offset int
}

func (w *InstrumentRejected) Error() string { return w.Warning() }

func (w *InstrumentRejected) Warning() string {
	return fmt.Sprintf("instrument %q at offset %d rejected: record validation failed", w.Name, w.Offset)
}

// NoteStreamEndedOnInvalidMarkerRun records that v3 component decoding
// stopped because it saw a run of consecutive invalid records, rather
// than running out of file.
type NoteStreamEndedOnInvalidMarkerRun struct {
	AtOffset int
}

func (w *NoteStreamEndedOnInvalidMarkerRun) Error() string { return w.Warning() }

func (w *NoteStreamEndedOnInvalidMarkerRun) Warning() string {
	return fmt.Sprintf("component stream ended at offset %d after a run of invalid records", w.AtOffset)
}
