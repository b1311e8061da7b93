package note

import (
	"github.com/Jollyhrothgar/tef-decoder/internal/diag"
)

const (
	recordSizeV3 = 12

	valuePerString = 8

	// DefaultMaxInvalidMarkerRun is the number of consecutive
	// unrecognized records that signals the end of the v3 component
	// stream, since the record count is never stored explicitly.
	DefaultMaxInvalidMarkerRun = 20
)

// nonNoteTypesV3 lists component_type byte values that are known,
// non-note components (rests, dynamics, effects): skipped silently, and
// never counted toward the invalid-run termination threshold.
var nonNoteTypesV3 = map[byte]bool{
	0x33: true, 0x35: true, 0x36: true, 0x37: true, 0x38: true, 0x39: true,
	0x3D: true, 0x75: true, 0x78: true, 0x7D: true, 0x7E: true,
	0xB6: true, 0xB7: true, 0xBD: true, 0xBE: true, 0xFD: true, 0xFE: true,
}

var markerBytes = map[byte]Marker{
	'I': MarkerInitial, 'F': MarkerFret, 'L': MarkerLegato,
	'C': MarkerChord, '@': MarkerAt, 'A': MarkerAnnotation,
}

// DecodeV3 walks the 12-byte packed record array starting at offset and
// returns the note events found, stopping cleanly at EOF or at a run of
// DefaultMaxInvalidMarkerRun consecutive unrecognized records.
func DecodeV3(data []byte, offset int, stringCounts []int) ([]NoteEvent, []diag.Warning) {
	return DecodeV3WithLimit(data, offset, stringCounts, DefaultMaxInvalidMarkerRun)
}

// DecodeV3WithLimit behaves like DecodeV3, but lets the caller override
// the consecutive-invalid-record threshold that ends the component
// stream.
func DecodeV3WithLimit(data []byte, offset int, stringCounts []int, maxInvalidRun int) ([]NoteEvent, []diag.Warning) {
	n := stringTotal(stringCounts)
	valuePerPosition := 32 * n

	var events []NoteEvent
	var warnings []diag.Warning
	invalidRun := 0

	for off := offset; off+recordSizeV3 <= len(data); off += recordSizeV3 {
		record := data[off : off+recordSizeV3]
		location := uint32(record[0]) | uint32(record[1])<<8 | uint32(record[2])<<16 | uint32(record[3])<<24
		componentType := record[4]
		markerByte := record[5]

		if nonNoteTypesV3[componentType] {
			// Transparent to invalidRun: a non-note record neither extends
			// nor breaks a run of unrecognized ones.
			continue
		}

		lower := componentType & 0x1F
		if lower >= 1 && lower <= 25 {
			invalidRun = 0
			fret := lower - 1

			cumulativeString := int(location%uint32(valuePerPosition)) / valuePerString
			position := int(location) / valuePerPosition
			track, localString := mapCumulativeString(cumulativeString, stringCounts)

			raw := make([]byte, recordSizeV3)
			copy(raw, record)

			events = append(events, NoteEvent{
				Measure:           uint16(position/16) + 1,
				PositionInMeasure: uint16(position % 16),
				Track:             track,
				String:            localString,
				Fret:              fret,
				Marker:            markerForByte(markerByte),
				Articulation:      ArticulationNormal,
				RawRecord:         raw,
			})
			continue
		}

		invalidRun++
		if invalidRun >= maxInvalidRun {
			warnings = append(warnings, &diag.NoteStreamEndedOnInvalidMarkerRun{AtOffset: off})
			break
		}
	}

	return events, warnings
}

func markerForByte(b byte) Marker {
	if m, ok := markerBytes[b]; ok {
		return m
	}
	return NewMarker(b)
}
