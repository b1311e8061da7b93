package note_test

import (
	"testing"

	"github.com/Jollyhrothgar/tef-decoder/note"
)

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// buildV3Record builds a single 12-byte v3 component record for a note
// at the given absolute 16th-note position and cumulative string, with
// the given fret and marker byte.
func buildV3Record(n int, position, cumulativeString, fret int, markerByte byte) []byte {
	rec := make([]byte, 12)
	location := uint32(position*32*n + cumulativeString*8)
	putU32LE(rec, location)
	rec[4] = byte(fret + 1) // component_type low 5 bits = fret+1
	rec[5] = markerByte
	return rec
}

func TestDecodeV3Basic(t *testing.T) {
	stringCounts := []int{6} // one six-string track
	var data []byte
	data = append(data, buildV3Record(6, 5, 2, 3, 'I')...) // position 5, string idx 2 (local 3), fret 3

	events, warnings := note.DecodeV3(data, 0, stringCounts)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Measure != 1 || e.PositionInMeasure != 5 {
		t.Errorf("measure/position = %d/%d, want 1/5", e.Measure, e.PositionInMeasure)
	}
	if e.Track != 0 || e.String != 3 {
		t.Errorf("track/string = %d/%d, want 0/3", e.Track, e.String)
	}
	if e.Fret != 3 {
		t.Errorf("fret = %d, want 3", e.Fret)
	}
	if e.Marker != note.MarkerInitial {
		t.Errorf("marker = %v, want Initial", e.Marker)
	}
	if len(e.RawRecord) != 12 {
		t.Errorf("len(RawRecord) = %d, want 12", len(e.RawRecord))
	}
}

func TestDecodeV3ManyEvents(t *testing.T) {
	stringCounts := []int{6}
	var data []byte
	for i := 0; i < 150; i++ {
		data = append(data, buildV3Record(6, i, i%6, i%20, 'F')...)
	}
	events, _ := note.DecodeV3(data, 0, stringCounts)
	if len(events) != 150 {
		t.Fatalf("got %d events, want 150", len(events))
	}
	if events[0].Marker != note.MarkerFret {
		t.Errorf("first event marker = %v, want Fret", events[0].Marker)
	}
}

func TestDecodeV3StopsOnInvalidRun(t *testing.T) {
	stringCounts := []int{6}
	var data []byte
	data = append(data, buildV3Record(6, 0, 0, 0, 'I')...)
	// 20 consecutive invalid records (type byte low 5 bits = 0, not in
	// [1,25], and not a recognized non-note type).
	for i := 0; i < 20; i++ {
		rec := make([]byte, 12)
		rec[4] = 0xC0 // lower 5 bits = 0: neither note nor known non-note
		data = append(data, rec...)
	}
	// A trailing valid record that must never be reached.
	data = append(data, buildV3Record(6, 99, 0, 0, 'I')...)

	events, warnings := note.DecodeV3(data, 0, stringCounts)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (decoding should have stopped)", len(events))
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
}

func TestDecodeV3RecordLength(t *testing.T) {
	data := buildV3Record(6, 0, 0, 0, 'I')
	events, _ := note.DecodeV3(data, 0, []int{6})
	if len(events) != 1 || len(events[0].RawRecord) != 12 {
		t.Fatalf("v3 record length = %d, want 12", len(events[0].RawRecord))
	}
}

func TestDecodeV2RecordLength(t *testing.T) {
	// ts_size=64, totalStrings=1: location = measure*64 + posInMeasure,
	// cumulative string always 0.
	tsSize, totalStrings := 64, 1
	rec := []byte{10, 0, 0x01, 0, 0, 0} // fretRaw = 1 -> fret 0, position=10, measure 0
	events, _, err := note.DecodeV2(rec, 0, 1, tsSize, totalStrings, []int{1})
	if err != nil {
		t.Fatalf("DecodeV2: %v", err)
	}
	if len(events) != 1 || len(events[0].RawRecord) != 6 {
		t.Fatalf("got %d events, rawlen %v", len(events), events)
	}
}

func TestDecodeV2OverflowCarry(t *testing.T) {
	// denom = 256, so measure 256 lies at location 65536: one past what
	// the 16-bit location field can hold without a carry.
	tsSize, totalStrings := 256, 1
	denom := tsSize * totalStrings

	var data []byte
	// First record: measure index 254, position 0.
	loc1 := uint32(254 * denom)
	data = append(data, byte(loc1%256), byte(loc1/256), 0x01, 0, 0, 0)
	// Second record: measure index 256 post-carry, but r[1] alone only
	// covers 0..255*256 before a carry is needed; its low 16 bits collide
	// with a smaller apparent measure unless the carry advances.
	loc2 := uint32(256 * denom)
	data = append(data, byte(loc2%256), byte((loc2/256)%256), 0x01, 0, 0, 0)

	events, _, err := note.DecodeV2(data, 0, 2, tsSize, totalStrings, []int{1})
	if err != nil {
		t.Fatalf("DecodeV2: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Measure > events[1].Measure {
		t.Errorf("measures should not regress across the carry: %d then %d", events[0].Measure, events[1].Measure)
	}
}
