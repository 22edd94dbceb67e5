package x86_64

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Fixed descriptor sizes for the x86-64 core note kinds. An XSTATE
// descriptor is open-ended past the XSAVE header.
const (
	PrStatusSize  = 336
	PrPsinfoSize  = 136
	FpRegsSize    = 512
	SiginfoSize   = 128
	XstateMinSize = 576
)

// Offsets into an NT_PRFPREG descriptor (FXSAVE layout). The blob is
// kept verbatim; these locate the pieces inside it.
const (
	FpCwdOff   = 0
	FpSwdOff   = 2
	FpFtwOff   = 4
	FpFopOff   = 6
	FpRipOff   = 8
	FpRdpOff   = 16
	FpMxcsrOff = 24
	FpStOff    = 32
	FpXmmOff   = 160
)

// Offsets into an NT_X86_XSTATE descriptor: the FXSAVE legacy area,
// the XSAVE header, then the extended regions.
const (
	XstateBvOff  = 512
	XstateYmmOff = 576
)

type Timeval struct {
	Sec  int64
	Usec int64
}

// ElfSiginfo is the signal summary embedded at the head of prstatus.
type ElfSiginfo struct {
	Signo int32
	Code  int32
	Errno int32
}

// PrStatus is struct elf_prstatus from the kernel uAPI. Pad fields
// reproduce the in-kernel struct padding.
type PrStatus struct {
	Info    ElfSiginfo
	Cursig  int16
	Pad     [2]byte `json:"-"`
	Sigpend uint64
	Sighold uint64
	Pid     int32
	Ppid    int32
	Pgrp    int32
	Sid     int32
	Utime   Timeval
	Stime   Timeval
	Cutime  Timeval
	Cstime  Timeval
	Regs    Regs
	Fpvalid int32
	Pad2    [4]byte `json:"-"`
}

func DecodePrStatus(desc []byte) (*PrStatus, error) {
	if len(desc) != PrStatusSize {
		return nil, errors.Errorf("prstatus descriptor is %d bytes, expecting %d", len(desc), PrStatusSize)
	}
	var st PrStatus
	if err := struc.UnpackWithOrder(bytes.NewReader(desc), &st, binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "prstatus unpack failed")
	}
	return &st, nil
}

// PrPsinfo is struct elf_prpsinfo: process identity and the first 80
// bytes of the command line.
type PrPsinfo struct {
	State  int8
	Sname  int8
	Zomb   int8
	Nice   int8
	Pad    [4]byte `json:"-"`
	Flag   uint64
	Uid    uint32
	Gid    uint32
	Pid    int32
	Ppid   int32
	Pgrp   int32
	Sid    int32
	Fname  [16]byte
	Psargs [80]byte
}

func DecodePrPsinfo(desc []byte) (*PrPsinfo, error) {
	if len(desc) != PrPsinfoSize {
		return nil, errors.Errorf("prpsinfo descriptor is %d bytes, expecting %d", len(desc), PrPsinfoSize)
	}
	var ps PrPsinfo
	if err := struc.UnpackWithOrder(bytes.NewReader(desc), &ps, binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "prpsinfo unpack failed")
	}
	return &ps, nil
}

func (p *PrPsinfo) Filename() string {
	return strings.TrimRight(string(p.Fname[:]), "\x00")
}

func (p *PrPsinfo) Args() string {
	return strings.TrimRight(string(p.Psargs[:]), "\x00")
}

// SigNote is the head of the siginfo_t carried by NT_SIGINFO. Unlike
// ElfSiginfo the wire order is signo, errno, code.
type SigNote struct {
	Signo int32
	Errno int32
	Code  int32
}

func DecodeSiginfo(desc []byte) (*SigNote, error) {
	if len(desc) != SiginfoSize {
		return nil, errors.Errorf("siginfo descriptor is %d bytes, expecting %d", len(desc), SiginfoSize)
	}
	var si SigNote
	if err := struc.UnpackWithOrder(bytes.NewReader(desc[:12]), &si, binary.LittleEndian); err != nil {
		return nil, errors.Wrap(err, "siginfo unpack failed")
	}
	return &si, nil
}
