package tef

import "github.com/Jollyhrothgar/tef-decoder/note"

// IsMelody reports whether e plausibly carries a melody line, using the
// range-check formulation (as opposed to the bit-field formulation found
// alongside it in the reference parser, which this package does not
// implement): a melody note sits on one of the first 15 local strings
// and frets no higher than 24.
func IsMelody(e note.NoteEvent) bool {
	return e.String >= 1 && e.String <= 15 && e.Fret <= 24
}
