package tef

import (
	"os"

	"github.com/pkg/errors"

	"github.com/Jollyhrothgar/tef-decoder/header"
	"github.com/Jollyhrothgar/tef-decoder/instrument"
	"github.com/Jollyhrothgar/tef-decoder/note"
	"github.com/Jollyhrothgar/tef-decoder/readinglist"
)

// ParsedFile is the fully-materialized result of decoding one TEF file.
// It owns every value reachable from it; nothing is mutated after
// Decode or Open returns.
type ParsedFile struct {
	Header      header.Header
	Instruments []instrument.Instrument
	Notes       []note.NoteEvent
	ReadingList []readinglist.Entry

	Title    string
	Sections []SectionLabel
	Chords   []ChordLabel

	// TrackStringCounts holds one entry per instrument, in the same
	// order as Instruments, giving the per-track string count used to
	// map a cumulative string index to (track, local string). Exposed
	// so consumers that need it (MIDI emission, ASCII tab) don't have
	// to re-derive it from Instruments themselves.
	TrackStringCounts []int

	// TempoHint is a best-effort tempo reading pulled from a scanned
	// string such as "Tempo:120"; nil if none was found. It never
	// causes a Warning or an error on absence.
	TempoHint *int

	Warnings []Warning
}

// Option configures a Decode or Open call.
type Option func(*options)

type options struct {
	extraInstruments    []instrument.NamedInstrument
	maxInvalidMarkerRun int
}

func defaultOptions() *options {
	return &options{maxInvalidMarkerRun: note.DefaultMaxInvalidMarkerRun}
}

// WithMaxInvalidMarkerRun overrides the number of consecutive
// unrecognized v3 component records that terminates the note stream.
func WithMaxInvalidMarkerRun(n int) Option {
	return func(o *options) { o.maxInvalidMarkerRun = n }
}

// WithInstrumentTable extends the built-in instrument name-anchor table
// with caller-supplied entries, so a file authored with an instrument
// this package doesn't recognize can still be decoded correctly.
func WithInstrumentTable(extra ...instrument.NamedInstrument) Option {
	return func(o *options) { o.extraInstruments = append(o.extraInstruments, extra...) }
}

// Open reads the file at path and decodes it.
func Open(path string, opts ...Option) (*ParsedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "tef.Open")
	}
	return Decode(data, opts...)
}

// Decode parses a TEF file already held in memory.
//
// The basic structure of decoding, mirroring how a FLAC stream is
// assembled from its signature and metadata blocks:
//   - dispatch the header by its leading byte's character class
//   - locate and decode the instrument table (needed before notes,
//     since note decoding is parameterized by the total string count)
//   - walk the component (note) record stream at the header-specified
//     offset, using the v2 or v3 dialect the header selected
//   - decode the optional reading list from its header pointer
//   - scan for title/section/chord/tempo strings
func Decode(data []byte, opts ...Option) (*ParsedFile, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	h, err := header.Decode(data)
	if err != nil {
		return nil, err
	}

	insts, instWarnings := instrument.DecodeWithTable(data, o.extraInstruments)
	stringCounts := make([]int, len(insts))
	for i, inst := range insts {
		stringCounts[i] = int(inst.NumStrings)
	}

	pf := &ParsedFile{
		Header:            h,
		Instruments:       insts,
		TrackStringCounts: stringCounts,
	}
	pf.Warnings = append(pf.Warnings, instWarnings...)

	switch hh := h.(type) {
	case *header.V3:
		events, warnings := note.DecodeV3WithLimit(data, int(hh.ComponentOffset()), stringCounts, o.maxInvalidMarkerRun)
		pf.Notes = events
		for _, w := range warnings {
			pf.Warnings = append(pf.Warnings, w)
		}

		entries, err := readinglist.Decode(data, hh.ReadingListOffset)
		if err != nil {
			return pf, err
		}
		pf.ReadingList = entries

	case *header.V2:
		events, warnings, err := note.DecodeV2(data, int(hh.ComponentOffset()), int(hh.ComponentCount), hh.TSSize, int(hh.TotalStrings), stringCounts)
		pf.Notes = events
		for _, w := range warnings {
			pf.Warnings = append(pf.Warnings, w)
		}
		if err != nil {
			return pf, err
		}
		pf.Title = hh.Title
	}

	title, sections, chords, tempoHint := extractLabels(data)
	pf.Sections = sections
	pf.Chords = chords
	pf.TempoHint = tempoHint
	if pf.Title == "" {
		pf.Title = title
	}

	return pf, nil
}
