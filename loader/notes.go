package loader

import (
	"encoding/binary"
	"strings"

	"github.com/pkg/errors"

	"github.com/lunixbochs/coredump/models"
)

const noteHeaderSize = 12

// notes are 4-byte aligned even in 64-bit files
func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}

func allZero(p []byte) bool {
	for _, b := range p {
		if b != 0 {
			return false
		}
	}
	return true
}

// ReadNotes walks every PT_NOTE segment in program header order and
// returns the raw records in encounter order. A record is namesz(4)
// descsz(4) type(4), the name padded to 4 bytes, then the descriptor
// padded to 4 bytes. A zero tail terminates a segment cleanly; a
// non-zero tail too short for a record does not.
func ReadNotes(p []byte, phdrs []ProgHeader) ([]models.RawNote, error) {
	var notes []models.RawNote
	for _, ph := range phdrs {
		if ph.Type != PT_NOTE {
			continue
		}
		if ph.Off > uint64(len(p)) || ph.Filesz > uint64(len(p))-ph.Off {
			return nil, errors.Wrapf(TruncatedFile, "PT_NOTE at %#x+%#x exceeds %d byte buffer", ph.Off, ph.Filesz, len(p))
		}
		seg := p[ph.Off : ph.Off+ph.Filesz]
		off := uint64(0)
		for off < uint64(len(seg)) {
			rest := seg[off:]
			if uint64(len(rest)) < noteHeaderSize {
				if allZero(rest) {
					break
				}
				return nil, errors.Wrapf(CorruptNoteStream, "offset %#x: %d stray bytes after last note", ph.Off+off, len(rest))
			}
			namesz := uint64(binary.LittleEndian.Uint32(rest))
			descsz := uint64(binary.LittleEndian.Uint32(rest[4:]))
			typ := binary.LittleEndian.Uint32(rest[8:])
			if namesz == 0 && descsz == 0 && typ == 0 {
				// zero padding, not a record
				break
			}
			descOff := align4(noteHeaderSize + namesz)
			if descOff+descsz > uint64(len(rest)) {
				return nil, errors.Wrapf(CorruptNoteStream, "offset %#x: note (namesz=%d descsz=%d) overruns segment", ph.Off+off, namesz, descsz)
			}
			notes = append(notes, models.RawNote{
				Name: strings.TrimRight(string(rest[noteHeaderSize:noteHeaderSize+namesz]), "\x00"),
				Type: typ,
				Desc: rest[descOff : descOff+descsz],
				Off:  ph.Off + off,
			})
			// the final record's padding may run past filesz
			next := align4(descOff + descsz)
			if next > uint64(len(rest)) {
				next = uint64(len(rest))
			}
			off += next
		}
	}
	return notes, nil
}
