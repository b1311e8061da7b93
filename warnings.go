package tef

import "github.com/Jollyhrothgar/tef-decoder/internal/diag"

// Warning is a non-terminal diagnostic raised by one of the decoder's
// heuristic components. Decode never fails because of a Warning; it
// appends them to ParsedFile.Warnings instead.
type Warning = diag.Warning

// Warning kinds a consumer might type-switch on.
type (
	InstrumentRejected                = diag.InstrumentRejected
	NoteStreamEndedOnInvalidMarkerRun = diag.NoteStreamEndedOnInvalidMarkerRun
)
