// Package coredump parses Linux x86-64 ELF core dump files into an
// immutable, queryable model: threads with their register state,
// memory mappings and backing files, the auxiliary vector, and
// process metadata. It does no I/O; callers hand it the whole file as
// one buffer.
package coredump

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/coredump/arch/x86_64"
	"github.com/lunixbochs/coredump/loader"
	"github.com/lunixbochs/coredump/models"
)

// ThreadInfo is one thread of the crashed process: the full prstatus
// plus whatever per-thread notes followed it. FpRegs and XState alias
// the input buffer and are nil when the note was absent.
type ThreadInfo struct {
	x86_64.PrStatus
	FpRegs  []byte
	XState  []byte
	Siginfo *x86_64.SigNote
}

type ProcessInfo = x86_64.PrPsinfo

// CoreFile is the decoded dump. It is built once by Parse and never
// mutated; consumers treat every field as read-only.
type CoreFile struct {
	Header   loader.ElfHeader
	Threads  []*ThreadInfo
	Process  *ProcessInfo
	Auxv     []models.Elf64Auxv
	Mappings []*models.MappedFile
	Segments []*models.LoadSegment
	PageSize uint64
	Diags    []models.Diagnostic

	data []byte
}

// Parse decodes a complete core file image. The buffer must stay
// alive and unmodified for the life of the CoreFile: descriptors and
// memory reads alias it rather than copy.
func Parse(p []byte) (*CoreFile, error) {
	hdr, err := loader.ReadHeader(p)
	if err != nil {
		return nil, err
	}
	phdrs, diags, err := loader.ReadProgHeaders(p, hdr)
	if err != nil {
		return nil, err
	}
	notes, err := loader.ReadNotes(p, phdrs)
	if err != nil {
		return nil, err
	}
	ps := &parser{diags: diags}
	for i := range notes {
		if err := ps.dispatch(&notes[i]); err != nil {
			return nil, err
		}
	}
	if len(ps.threads) == 0 {
		return nil, errors.WithStack(IncompleteCoreFile)
	}
	if ps.psinfo == nil {
		ps.diags = append(ps.diags, models.Diagnostic{
			Msg: "no NT_PRPSINFO note, process info unavailable",
		})
	}
	segs := makeSegments(phdrs)
	maps := buildMappings(segs, ps.pageSize, ps.files, &ps.diags)
	return &CoreFile{
		Header:   *hdr,
		Threads:  ps.threads,
		Process:  ps.psinfo,
		Auxv:     ps.auxv,
		Mappings: maps,
		Segments: segs,
		PageSize: ps.pageSize,
		Diags:    ps.diags,
		data:     p,
	}, nil
}

// Reg returns one register by thread index and kernel name ("rip",
// "orig_rax", "fs_base", ...).
func (c *CoreFile) Reg(thread int, name string) (uint64, error) {
	if thread < 0 || thread >= len(c.Threads) {
		return 0, errors.Errorf("no thread %d, core has %d", thread, len(c.Threads))
	}
	return c.Threads[thread].Regs.Reg(name)
}

// MappingAt returns the mapping containing addr, or nil.
func (c *CoreFile) MappingAt(addr uint64) *models.MappedFile {
	for _, m := range c.Mappings {
		if m.Contains(addr) {
			return m
		}
	}
	return nil
}

// AuxvVal returns the first auxiliary vector value for a tag.
func (c *CoreFile) AuxvVal(tag uint64) (uint64, bool) {
	for _, a := range c.Auxv {
		if a.Type == tag {
			return a.Val, true
		}
	}
	return 0, false
}

// MemRead returns dumped memory. The range must lie inside a single
// PT_LOAD's written bytes; pages the kernel skipped are unreadable.
func (c *CoreFile) MemRead(addr, size uint64) ([]byte, error) {
	for _, s := range c.Segments {
		if !s.ContainsVirt(addr) {
			continue
		}
		if size > s.Filesz || addr-s.Addr > s.Filesz-size {
			return nil, errors.Errorf("read %#x+%#x runs outside the dumped part of segment %#x", addr, size, s.Addr)
		}
		off := s.Off + (addr - s.Addr)
		return c.data[off : off+size], nil
	}
	return nil, errors.Errorf("no dumped memory at %#x", addr)
}
