package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/lunixbochs/coredump/models"
)

var elfMagic = []byte{0x7f, 0x45, 0x4c, 0x46}

const (
	ELFCLASS64  = 2
	ELFDATA2LSB = 1
	ET_CORE     = 4
	EM_X86_64   = 0x3e

	PT_LOAD = 1
	PT_NOTE = 4

	EhdrSize = 64
	PhdrSize = 56
)

type ElfHeader struct {
	Magic      [4]byte
	Class      uint8
	Data       uint8
	IdentVer   uint8
	OSABI      uint8
	ABIVersion uint8
	Pad        [7]byte `json:"-"`
	Type       uint16
	Machine    uint16
	Version    uint32
	Entry      uint64
	Phoff      uint64
	Shoff      uint64
	Flags      uint32
	Ehsize     uint16
	Phentsize  uint16
	Phnum      uint16
	Shentsize  uint16
	Shnum      uint16
	Shstrndx   uint16
}

type ProgHeader struct {
	Type   uint32
	Flags  uint32
	Off    uint64
	Vaddr  uint64
	Paddr  uint64
	Filesz uint64
	Memsz  uint64
	Align  uint64
}

func MatchElf(p []byte) bool {
	return len(p) >= 4 && bytes.Equal(p[:4], elfMagic)
}

func unpackAt(r io.ReaderAt, i interface{}, at uint64) (int, error) {
	size, err := struc.Sizeof(i)
	if err != nil {
		return 0, err
	}
	return size, struc.UnpackWithOrder(io.NewSectionReader(r, int64(at), int64(size)), i, binary.LittleEndian)
}

// ReadHeader validates the fixed ELF header and the program header
// table bounds it declares. Only little-endian 64-bit x86-64 core
// files are accepted.
func ReadHeader(p []byte) (*ElfHeader, error) {
	if !MatchElf(p) {
		return nil, errors.Wrap(BadMagic, "offset 0: expecting 7f 45 4c 46")
	}
	if len(p) < EhdrSize {
		return nil, errors.Wrapf(TruncatedFile, "%d byte buffer cannot hold a %d byte ELF header", len(p), EhdrSize)
	}
	var h ElfHeader
	if _, err := unpackAt(bytes.NewReader(p), &h, 0); err != nil {
		return nil, errors.Wrap(err, "header unpack failed")
	}
	if h.Class != ELFCLASS64 {
		return nil, errors.Wrapf(UnsupportedClass, "class %d, expecting %d (64-bit)", h.Class, ELFCLASS64)
	}
	if h.Data != ELFDATA2LSB {
		return nil, errors.Wrapf(UnsupportedEncoding, "encoding %d, expecting %d (little-endian)", h.Data, ELFDATA2LSB)
	}
	if h.Type != ET_CORE {
		return nil, errors.Wrapf(NotACoreFile, "type %d, expecting %d (ET_CORE)", h.Type, ET_CORE)
	}
	if h.Machine != EM_X86_64 {
		return nil, errors.Wrapf(UnsupportedArchitecture, "machine %#x, expecting %#x (EM_X86_64)", h.Machine, EM_X86_64)
	}
	if h.Phnum > 0 {
		if h.Phentsize != PhdrSize {
			return nil, errors.Wrapf(TruncatedFile, "phentsize %d, expecting %d", h.Phentsize, PhdrSize)
		}
		need := uint64(h.Phnum) * PhdrSize
		if h.Phoff > uint64(len(p)) || need > uint64(len(p))-h.Phoff {
			return nil, errors.Wrapf(TruncatedFile, "program headers at %#x+%#x exceed %d byte buffer", h.Phoff, need, len(p))
		}
	}
	return &h, nil
}

// ReadProgHeaders returns the program header entries whose file ranges
// lie inside the buffer. An out of range entry is skipped with a
// diagnostic, except for the first PT_NOTE, which the rest of the
// parse cannot do without.
func ReadProgHeaders(p []byte, h *ElfHeader) ([]ProgHeader, []models.Diagnostic, error) {
	if h.Phnum == 0 {
		return nil, nil, errors.WithStack(MissingNotes)
	}
	phdrs := make([]ProgHeader, h.Phnum)
	if _, err := unpackAt(bytes.NewReader(p), &phdrs, h.Phoff); err != nil {
		return nil, nil, errors.Wrap(err, "program header unpack failed")
	}
	var kept []ProgHeader
	var diags []models.Diagnostic
	noteSeen := false
	for i, ph := range phdrs {
		oob := ph.Off > uint64(len(p)) || ph.Filesz > uint64(len(p))-ph.Off
		if ph.Type == PT_NOTE && !noteSeen {
			noteSeen = true
			if oob {
				return nil, diags, errors.Wrapf(TruncatedFile, "PT_NOTE at %#x+%#x exceeds %d byte buffer", ph.Off, ph.Filesz, len(p))
			}
		} else if oob {
			diags = append(diags, models.Diagnostic{
				Off: h.Phoff + uint64(i)*PhdrSize,
				Msg: fmt.Sprintf("phdr %d: segment %#x+%#x exceeds %d byte buffer, skipping", i, ph.Off, ph.Filesz, len(p)),
			})
			continue
		}
		kept = append(kept, ph)
	}
	if !noteSeen {
		return nil, diags, errors.WithStack(MissingNotes)
	}
	return kept, diags, nil
}
