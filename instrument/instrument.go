// Package instrument locates instrument records in a TEF file.
//
// TablEdit never stores an explicit count or offset table of
// instruments; each instrument is found by searching for its name as
// plain ASCII text and validating the bytes around it. The table below
// is intentionally data-driven (name, default string count) rather than
// branching logic, so a new instrument can be added without touching
// the scan itself — the same shape mewkiz/flac's RegisteredApplications
// map uses to keep its application-ID list out of NewApplication's code
// path.
package instrument

import (
	"bytes"

	"github.com/Jollyhrothgar/tef-decoder/internal/diag"
)

// Instrument is one parsed instrument record.
type Instrument struct {
	Name       string
	TuningName string
	NumStrings uint8
	// Tuning holds one MIDI note number per string, string index 0 being
	// the highest-pitched string, in the order the tuning bytes appear
	// in the file. It is returned exactly as parsed, including empty;
	// any default substitution for an instrument with no usable tuning
	// bytes is a consumer concern, not this package's.
	Tuning     []uint8
	FileOffset uint32
}

// NamedInstrument is one row of the data-driven name table: an anchor
// text and the string count to assume when that anchor is found. It is
// exported so a caller can extend the built-in table via
// DecodeWithTable without needing to touch this package's scan logic.
type NamedInstrument struct {
	Name          string
	DefaultString int
}

type namedInstrument = NamedInstrument

// nameTable lists every recognized instrument-name anchor. Case variants
// are listed explicitly rather than folded at match time, since the
// backward tuning-byte scan and forward tuning-name scan both operate on
// raw bytes around the literal anchor text.
var nameTable = []namedInstrument{
	{"Banjo", 5}, {"banjo", 5}, {"BANJO", 5},
	{"Guitar", 6}, {"guitar", 6}, {"GUITAR", 6},
	{"Bass", 4}, {"bass", 4}, {"BASS", 4},
	{"Mandolin", 8}, {"mandolin", 8}, {"MANDOLIN", 8},
	{"Ukulele", 4}, {"ukulele", 4}, {"UKULELE", 4},
}

const (
	minHitSpacing    = 50
	tuningByteMin    = 0x10
	tuningByteMax    = 0x60
	velocityRunMin   = 4
	tuningNameLookAh = 20
	tuningNameMaxSpc = 2
)

type hit struct {
	name   string
	offset int
}

// Decode scans data for instrument records, using the built-in name
// table, and returns them sorted by ascending file offset, along with
// warnings for rejected candidates. Decode never fails: a file with no
// recognizable instrument anchors yields an empty, non-nil-safe result.
func Decode(data []byte) ([]Instrument, []diag.Warning) {
	return DecodeWithTable(data, nil)
}

// DecodeWithTable behaves like Decode, but scans extraNames in addition
// to the built-in table, letting a caller recognize instruments this
// package does not know about without modifying it.
func DecodeWithTable(data []byte, extraNames []NamedInstrument) ([]Instrument, []diag.Warning) {
	table := nameTable
	if len(extraNames) > 0 {
		table = append(append([]namedInstrument(nil), nameTable...), extraNames...)
	}

	var hits []hit
	for _, ni := range table {
		needle := []byte(ni.Name)
		for start := 0; ; {
			off, ok := indexFrom(data, needle, start)
			if !ok {
				break
			}
			hits = append(hits, hit{name: ni.Name, offset: off})
			start = off + 1
		}
	}
	sortHitsByOffset(hits)

	var out []Instrument
	var warnings []diag.Warning
	lastAccepted := -1 - minHitSpacing
	for _, h := range hits {
		if h.offset-lastAccepted <= minHitSpacing {
			continue
		}
		inst, ok := tryDecodeAt(data, h, table)
		if !ok {
			warnings = append(warnings, &diag.InstrumentRejected{Name: h.name, Offset: h.offset})
			continue
		}
		out = append(out, inst)
		lastAccepted = h.offset
	}
	return out, warnings
}

func defaultStringCount(table []namedInstrument, name string) int {
	for _, ni := range table {
		if ni.Name == name {
			return ni.DefaultString
		}
	}
	return 0
}

func tryDecodeAt(data []byte, h hit, table []namedInstrument) (Instrument, bool) {
	nameEnd := h.offset + len(h.name)
	if nameEnd >= len(data) || data[nameEnd] != 0x00 {
		return Instrument{}, false
	}

	numStrings := defaultStringCount(table, h.name)
	tuning, ok := scanTuningBackward(data, h.offset, numStrings)
	if !ok {
		return Instrument{}, false
	}

	tuningName := scanTuningNameForward(data, nameEnd+1)

	midi := make([]uint8, len(tuning))
	for i, b := range tuning {
		midi[i] = uint8(96 - int(b))
	}

	return Instrument{
		Name:       h.name,
		TuningName: tuningName,
		NumStrings: uint8(numStrings),
		Tuning:     midi,
		FileOffset: uint32(h.offset),
	}, true
}

// scanTuningBackward walks backward from the name anchor through NUL
// padding, past an optional velocity field, to exactly numStrings
// tuning bytes. It returns them in increasing-offset (natural file)
// order.
func scanTuningBackward(data []byte, anchor, numStrings int) ([]byte, bool) {
	if numStrings <= 0 {
		return nil, false
	}
	pos := anchor - 1
	pos = skipZeros(data, pos)
	pos = skipVelocityRun(data, pos)

	start := pos - numStrings + 1
	if start < 0 {
		return nil, false
	}
	for i := start; i <= pos; i++ {
		if data[i] < tuningByteMin || data[i] > tuningByteMax {
			return nil, false
		}
	}
	tuning := make([]byte, numStrings)
	copy(tuning, data[start:pos+1])
	return tuning, true
}

func skipZeros(data []byte, pos int) int {
	for pos >= 0 && data[pos] == 0x00 {
		pos--
	}
	return pos
}

// skipVelocityRun skips a run of >=4 identical non-zero bytes ending at
// pos, plus any NUL separator preceding it, and returns the new
// position. If no qualifying run is present, pos is returned unchanged.
func skipVelocityRun(data []byte, pos int) int {
	if pos < 0 || data[pos] == 0x00 {
		return pos
	}
	val := data[pos]
	runLen := 0
	p := pos
	for p >= 0 && data[p] == val {
		runLen++
		p--
	}
	if runLen < velocityRunMin {
		return pos
	}
	return skipZeros(data, p)
}

// scanTuningNameForward looks up to tuningNameLookAh bytes forward for an
// ASCII, NUL-terminated label with at most tuningNameMaxSpc spaces. It
// returns "" if none is found.
func scanTuningNameForward(data []byte, from int) string {
	limit := from + tuningNameLookAh
	if limit > len(data) {
		limit = len(data)
	}
	spaces := 0
	for i := from; i < limit; i++ {
		b := data[i]
		if b == 0x00 {
			if i == from {
				return ""
			}
			return string(data[from:i])
		}
		if b < 0x20 || b > 0x7E {
			return ""
		}
		if b == ' ' {
			spaces++
			if spaces > tuningNameMaxSpc {
				return ""
			}
		}
	}
	return ""
}

func indexFrom(data, needle []byte, start int) (int, bool) {
	if start < 0 {
		start = 0
	}
	if len(needle) == 0 || start > len(data)-len(needle) {
		return 0, false
	}
	idx := bytes.Index(data[start:], needle)
	if idx < 0 {
		return 0, false
	}
	return start + idx, true
}

func sortHitsByOffset(hits []hit) {
	// Small insertion sort: instrument counts per file are tiny (single
	// digits), so this avoids pulling in sort for a handful of elements.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].offset < hits[j-1].offset; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
}
