package models

import (
	"fmt"
)

// Core dump note types from the kernel uAPI headers. NT_SIGINFO and
// NT_FILE are the ascii codes for "SIGI" and "FILE".
const (
	NT_PRSTATUS   = 1
	NT_PRFPREG    = 2
	NT_PRPSINFO   = 3
	NT_TASKSTRUCT = 4
	NT_AUXV       = 6
	NT_X86_XSTATE = 0x202
	NT_SIGINFO    = 0x53494749
	NT_FILE       = 0x46494c45
)

var noteNames = map[uint32]string{
	NT_PRSTATUS:   "NT_PRSTATUS",
	NT_PRFPREG:    "NT_PRFPREG",
	NT_PRPSINFO:   "NT_PRPSINFO",
	NT_TASKSTRUCT: "NT_TASKSTRUCT",
	NT_AUXV:       "NT_AUXV",
	NT_X86_XSTATE: "NT_X86_XSTATE",
	NT_SIGINFO:    "NT_SIGINFO",
	NT_FILE:       "NT_FILE",
}

func NoteName(t uint32) string {
	if name, ok := noteNames[t]; ok {
		return name
	}
	return fmt.Sprintf("NT_%#x", t)
}

// RawNote is one undecoded record from a PT_NOTE segment. Desc aliases
// the input buffer. Off is the file offset of the record header.
type RawNote struct {
	Name string
	Type uint32
	Desc []byte
	Off  uint64
}

func (n *RawNote) String() string {
	return fmt.Sprintf("%s/%s %d bytes at %#x", n.Name, NoteName(n.Type), len(n.Desc), n.Off)
}
