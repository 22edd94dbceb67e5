package loader

import "github.com/pkg/errors"

// Structural failures. A buffer failing one of these cannot be trusted
// enough to produce a partial result.
var (
	BadMagic                = errors.New("bad ELF magic")
	UnsupportedClass        = errors.New("unsupported ELF class")
	UnsupportedEncoding     = errors.New("unsupported ELF data encoding")
	NotACoreFile            = errors.New("not a core file")
	UnsupportedArchitecture = errors.New("unsupported architecture")
	TruncatedFile           = errors.New("truncated file")
	MissingNotes            = errors.New("no PT_NOTE segment")
	CorruptNoteStream       = errors.New("corrupt note stream")
)
