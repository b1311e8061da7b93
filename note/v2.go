package note

import (
	"github.com/Jollyhrothgar/tef-decoder/internal/diag"
)

const recordSizeV2 = 6

// overflowRetryLimit bounds the carry-recompute loop below; a v2
// location field only has 16 usable bits, so more than a handful of
// 256-unit carries in a row would indicate a corrupt stream rather than
// a legitimate measure-index wrap.
const overflowRetryLimit = 256

// DecodeV2 walks the 6-byte packed record array starting at offset,
// reading exactly count records, parameterized by the header's time-slice
// size and total string count.
func DecodeV2(data []byte, offset, count, tsSize, totalStrings int, stringCounts []int) ([]NoteEvent, []diag.Warning, error) {
	if tsSize <= 0 || totalStrings <= 0 {
		return nil, nil, &diag.CorruptFileError{Reason: "v2 component decode requires a positive time-slice size and string total"}
	}

	var events []NoteEvent
	var mData uint32
	var mIndex uint16

	denom := tsSize * totalStrings

	for i := 0; i < count; i++ {
		off := offset + i*recordSizeV2
		if off+recordSizeV2 > len(data) {
			return events, nil, diag.Truncated(off, nil)
		}
		record := data[off : off+recordSizeV2]

		var location uint32
		location, mData = resolveLocationV2(record, mData, mIndex, denom)

		positionInMeasure := int(location) % tsSize
		cumulativeString := (int(location) / tsSize) % totalStrings
		measure := int(location) / denom
		mIndex = uint16(measure)

		fretRaw := record[2] & 0x1F
		if fretRaw < 1 || fretRaw > 25 {
			// Dynamics, rests and effects: skipped, but not counted as
			// invalid — v2 has an explicit record count, not a
			// termination heuristic.
			continue
		}
		fret := fretRaw - 1
		if record[2]&0x20 != 0 {
			fret += record[5]
		}

		track, localString := mapCumulativeString(cumulativeString, stringCounts)

		absPosition := measure*16 + (positionInMeasure * 16 / tsSize)

		raw := make([]byte, recordSizeV2)
		copy(raw, record)

		events = append(events, NoteEvent{
			Measure:           uint16(absPosition/16) + 1,
			PositionInMeasure: uint16(absPosition % 16),
			Track:             track,
			String:            localString,
			Fret:              fret,
			Marker:            MarkerFret,
			Articulation:      articulationFromByte(record[4]),
			RawRecord:         raw,
		})
	}

	return events, nil, nil
}

// resolveLocationV2 computes the 16-bit-wrapped location word given the
// running overflow carry mData and the previous measure index mIndex,
// bumping the carry forward whenever the freshly computed measure would
// regress relative to the last one seen.
func resolveLocationV2(record []byte, mData uint32, mIndex uint16, denom int) (location uint32, newMData uint32) {
	for i := 0; i < overflowRetryLimit; i++ {
		location = uint32(record[0]) + 256*(mData+uint32(record[1]))
		if int(location)/denom >= int(mIndex) {
			return location, mData
		}
		mData += 256
	}
	return location, mData
}

// articulationFromByte infers articulation from the low bits of the
// effect byte when present; a zero byte means no articulation marker was
// authored, i.e. Normal.
func articulationFromByte(b byte) Articulation {
	if b == 0 {
		return ArticulationNormal
	}
	return Articulation(b & 0x03)
}
