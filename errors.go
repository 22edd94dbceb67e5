package coredump

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/coredump/loader"
)

// Failures raised while assembling the model.
var (
	MalformedFileNote  = errors.New("malformed NT_FILE note")
	IncompleteCoreFile = errors.New("core file has no usable thread status")
)

// Structural failures from the loader, re-exported so callers can
// match every parse error against one package.
var (
	BadMagic                = loader.BadMagic
	UnsupportedClass        = loader.UnsupportedClass
	UnsupportedEncoding     = loader.UnsupportedEncoding
	NotACoreFile            = loader.NotACoreFile
	UnsupportedArchitecture = loader.UnsupportedArchitecture
	TruncatedFile           = loader.TruncatedFile
	MissingNotes            = loader.MissingNotes
	CorruptNoteStream       = loader.CorruptNoteStream
)
