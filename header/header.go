// Package header decodes a TEF file header. TablEdit files come in two
// incompatible generations identified by the first byte's character
// class, so Header is a tagged union (an interface with two concrete
// implementations) rather than one struct with optional fields — the
// same shape mewkiz/flac's meta.Block uses to dispatch across metadata
// block bodies.
package header

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Jollyhrothgar/tef-decoder/internal/cursor"
	"github.com/Jollyhrothgar/tef-decoder/internal/diag"
	"github.com/Jollyhrothgar/tef-decoder/internal/strscan"
)

// Header is implemented by *V2 and *V3. Consumers that need to branch on
// the underlying generation do so with a type switch, the way
// frame/component decoding below branches on it.
type Header interface {
	// Version returns a display string such as "3.05" or "2.00".
	Version() string
	// ComponentOffset is the file offset of the first component record.
	ComponentOffset() uint32
}

// V3 is a v3 (format_id 0x0010) header.
type V3 struct {
	FormatID          uint16
	Major             uint8
	Minor             uint8
	Raw               [64]byte
	ReadingListOffset uint32 // 0 means absent

	componentOffset uint32
}

func (h *V3) Version() string { return versionString(int(h.Major), int(h.Minor)) }

// ComponentOffset implements Header.
func (h *V3) ComponentOffset() uint32 { return h.componentOffset }

// V2 is a v2 (ASCII-leading) header.
type V2 struct {
	Title, Composer, Comments string
	Measures                  uint16
	TimeNum, TimeDenom        uint8
	Tempo                     uint16
	TotalStrings              uint8
	TrackCount                uint8
	ComponentCount            uint16
	// TSSize is "time slice" resolution per measure, (256*TimeNum)/TimeDenom.
	TSSize int

	componentOffset uint32
}

func (h *V2) Version() string { return versionString(2, 0) }

// ComponentOffset implements Header.
func (h *V2) ComponentOffset() uint32 { return h.componentOffset }

func versionString(major, minor int) string {
	return fmt.Sprintf("%d.%02d", major, minor)
}

const v2ComponentOffset = 258

// Decode dispatches on data[0]'s character class and returns the parsed
// header.
func Decode(data []byte) (Header, error) {
	if len(data) == 0 {
		return nil, diag.Truncated(0, errors.New("empty file"))
	}
	if data[0] >= 0x20 && data[0] < 0x7F {
		return decodeV2(data)
	}
	return decodeV3(data)
}

func decodeV3(data []byte) (*V3, error) {
	c := cursor.New(data)

	formatID, err := c.U16LE(0)
	if err != nil {
		return nil, diag.Truncated(0, errors.Wrap(err, "header: reading format id"))
	}
	minor, err := c.U8(2)
	if err != nil {
		return nil, diag.Truncated(2, errors.Wrap(err, "header: reading minor version"))
	}
	major, err := c.U8(3)
	if err != nil {
		return nil, diag.Truncated(3, errors.Wrap(err, "header: reading major version"))
	}
	if major != 2 && major != 3 {
		return nil, &diag.UnsupportedVersionError{Major: int(major), Minor: int(minor)}
	}

	h := &V3{FormatID: formatID, Major: major, Minor: minor}

	rawLen := 64
	if rawLen > len(data) {
		rawLen = len(data)
	}
	copy(h.Raw[:], data[:rawLen])

	readingListOffset, err := c.U32LE(128)
	if err != nil {
		// Absence of the pointer slot itself (a very small or truncated
		// file) is tolerated: no reading list.
		readingListOffset = 0
	}
	h.ReadingListOffset = readingListOffset

	debtOff, ok := c.Find([]byte("debt"), 0)
	if !ok {
		return nil, &diag.CorruptFileError{Reason: "missing \"debt\" marker"}
	}
	componentOffset, err := c.U32LE(debtOff + 4)
	if err != nil {
		return nil, &diag.CorruptFileError{Reason: "\"debt\" marker has no pointer following it"}
	}
	if int(componentOffset) < 100 || int(componentOffset) >= len(data) {
		return nil, &diag.CorruptFileError{Reason: "component offset out of file bounds"}
	}
	h.componentOffset = componentOffset

	return h, nil
}

func decodeV2(data []byte) (*V2, error) {
	c := cursor.New(data)

	// The three fields are packed sequentially into the 0..199 info
	// block, each NUL-terminated.
	const infoBlockEnd = 200
	title, titleEnd := readField(data, 0, infoBlockEnd)
	composer, composerEnd := readField(data, titleEnd, infoBlockEnd)
	comments, _ := readField(data, composerEnd, infoBlockEnd)
	h := &V2{Title: title, Composer: composer, Comments: comments}

	measures, err := c.U16LE(200)
	if err != nil {
		return nil, diag.Truncated(200, errors.Wrap(err, "header: reading measure count"))
	}
	h.Measures = measures

	timeNum, err := c.U8(202)
	if err != nil {
		return nil, diag.Truncated(202, errors.Wrap(err, "header: reading time signature numerator"))
	}
	h.TimeNum = timeNum

	timeDenom, err := c.U8(204)
	if err != nil {
		return nil, diag.Truncated(204, errors.Wrap(err, "header: reading time signature denominator"))
	}
	if timeDenom == 0 {
		return nil, &diag.CorruptFileError{Reason: "time signature denominator is zero"}
	}
	h.TimeDenom = timeDenom
	h.TSSize = (256 * int(timeNum)) / int(timeDenom)
	if h.TSSize <= 0 {
		return nil, &diag.CorruptFileError{Reason: "derived time-slice size is not positive"}
	}

	tempo, err := c.U16LE(220)
	if err != nil {
		return nil, diag.Truncated(220, errors.Wrap(err, "header: reading tempo"))
	}
	h.Tempo = tempo

	totalStrings, err := c.U8(240)
	if err != nil {
		return nil, diag.Truncated(240, errors.Wrap(err, "header: reading total string count"))
	}
	if totalStrings == 0 {
		return nil, &diag.CorruptFileError{Reason: "total string count is zero"}
	}
	h.TotalStrings = totalStrings

	trackCountRaw, err := c.U8(241)
	if err != nil {
		return nil, diag.Truncated(241, errors.Wrap(err, "header: reading track count"))
	}
	h.TrackCount = trackCountRaw + 1

	componentCount, err := c.U16LE(256)
	if err != nil {
		return nil, diag.Truncated(256, errors.Wrap(err, "header: reading component count"))
	}
	h.ComponentCount = componentCount
	h.componentOffset = v2ComponentOffset

	return h, nil
}

// readField reads a NUL-terminated string starting at off, never
// reading past absolute offset limit, and returns the string along with
// the offset of the byte following its terminating NUL (still bounded
// by limit).
func readField(data []byte, off, limit int) (string, int) {
	if off >= limit {
		return "", limit
	}
	s := strscan.ReadCString(data, off, limit-off)
	end := off + len(s) + 1
	if end > limit {
		end = limit
	}
	return s, end
}
