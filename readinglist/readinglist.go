// Package readinglist decodes the reading-list table: a small,
// header-pointed array of fixed-size records describing the measure
// ranges a player works through in order, not necessarily the same as
// file order.
//
// The loop shape follows meta.NewSeekTable in mewkiz/flac: read a
// per-table entry size and count up front, then walk fixed-size records
// until the count is exhausted, skipping placeholder rows rather than
// treating them as an error.
package readinglist

import (
	"github.com/Jollyhrothgar/tef-decoder/internal/cursor"
	"github.com/pkg/errors"
)

// Entry is one reading-list row: a named measure range to practice.
type Entry struct {
	Index       uint16 // 1-indexed

	FromMeasure uint16
	ToMeasure   uint16
	FileOffset  uint32
}

const (
	minEntrySize = 4
	maxEntrySize = 256
	maxEntries   = 100
)

// Decode reads the reading-list table pointed to by offset. An offset
// of zero, or one that leaves no room for the two-field size/count
// header, means the file carries no reading list at all: Decode returns
// an empty, non-error result in that case, since an absent reading list
// is a normal, common file shape rather than a corruption symptom.
func Decode(data []byte, offset uint32) ([]Entry, error) {
	if offset == 0 {
		return nil, nil
	}
	c := cursor.New(data)
	if int(offset)+4 > c.Len() {
		return nil, nil
	}

	entrySize, err := c.U16LE(int(offset))
	if err != nil {
		return nil, errors.Wrap(err, "readinglist.Decode: entry size")
	}
	entryCount, err := c.U16LE(int(offset) + 2)
	if err != nil {
		return nil, errors.Wrap(err, "readinglist.Decode: entry count")
	}
	if entrySize < minEntrySize || entrySize > maxEntrySize {
		return nil, nil
	}
	if entryCount > maxEntries {
		entryCount = maxEntries
	}

	var entries []Entry
	base := int(offset) + 4
	for i := 0; i < int(entryCount); i++ {
		recOff := base + i*int(entrySize)
		if recOff+4 > c.Len() {
			break
		}
		from, err := c.U16LE(recOff)
		if err != nil {
			break
		}
		to, err := c.U16LE(recOff + 2)
		if err != nil {
			break
		}
		if from == 0 && to == 0 {
			continue
		}
		entries = append(entries, Entry{
			Index:       uint16(i + 1),
			FromMeasure: from,
			ToMeasure:   to,
			FileOffset:  uint32(recOff),
		})
	}
	return entries, nil
}
