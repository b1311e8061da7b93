/*
Links:
	TablEdit: https://www.tabledit.com/

The TEF format is undocumented; this package's layout knowledge comes
from reverse-engineering a reference parser, not from a published spec.
*/

// Package tef decodes TablEdit tablature files (.tef) into an in-memory
// symbolic representation: instruments with tunings, timed fretted-note
// events, optional section markers and chord labels, and an optional
// reading list expressing playback order over measure ranges.
//
// The format comes in two incompatible generations, selected by the
// first byte of the file, and the hard part is unpacking a single
// 32-bit (v3) or 16-bit-with-carry (v2) "location" word into
// (measure, position-in-measure, cumulative-string) using totals
// computed from a separately decoded instrument table. See header,
// instrument, note and readinglist for the components that do this;
// tef itself only sequences them and assembles the result.
package tef
