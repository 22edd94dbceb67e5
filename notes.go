package coredump

import (
	"fmt"

	"github.com/lunixbochs/coredump/arch/x86_64"
	"github.com/lunixbochs/coredump/models"
)

// parser accumulates decoded notes until Parse assembles the CoreFile.
type parser struct {
	threads  []*ThreadInfo
	psinfo   *x86_64.PrPsinfo
	auxv     []models.Elf64Auxv
	haveAuxv bool
	files    []fileEntry
	haveFile bool
	pageSize uint64
	diags    []models.Diagnostic
}

func (p *parser) diag(n *models.RawNote, format string, args ...interface{}) {
	p.diags = append(p.diags, models.Diagnostic{
		Off:  n.Off,
		Msg:  fmt.Sprintf("%s: %s", models.NoteName(n.Type), fmt.Sprintf(format, args...)),
		Note: n,
	})
}

func (p *parser) lastThread() *ThreadInfo {
	if len(p.threads) == 0 {
		return nil
	}
	return p.threads[len(p.threads)-1]
}

// dispatch decodes one note into parser state. Register, fp, and
// signal notes attach to the thread opened by the latest NT_PRSTATUS,
// matching the kernel's per-thread emission order. Anything
// undecodable short of a bad NT_FILE is kept raw in the diagnostics.
func (p *parser) dispatch(n *models.RawNote) error {
	if n.Name != "CORE" && n.Name != "LINUX" {
		p.diag(n, "unknown note name %q, keeping raw", n.Name)
		return nil
	}
	switch n.Type {
	case models.NT_PRSTATUS:
		st, err := x86_64.DecodePrStatus(n.Desc)
		if err != nil {
			p.diag(n, "%s, keeping raw", err)
			return nil
		}
		p.threads = append(p.threads, &ThreadInfo{PrStatus: *st})
	case models.NT_PRFPREG:
		if len(n.Desc) != x86_64.FpRegsSize {
			p.diag(n, "descriptor is %d bytes, expecting %d, keeping raw", len(n.Desc), x86_64.FpRegsSize)
			return nil
		}
		t := p.lastThread()
		if t == nil {
			p.diag(n, "no thread to attach to, keeping raw")
			return nil
		}
		t.FpRegs = n.Desc
	case models.NT_X86_XSTATE:
		if len(n.Desc) < x86_64.XstateMinSize {
			p.diag(n, "descriptor is %d bytes, expecting at least %d, keeping raw", len(n.Desc), x86_64.XstateMinSize)
			return nil
		}
		t := p.lastThread()
		if t == nil {
			p.diag(n, "no thread to attach to, keeping raw")
			return nil
		}
		t.XState = n.Desc
	case models.NT_SIGINFO:
		si, err := x86_64.DecodeSiginfo(n.Desc)
		if err != nil {
			p.diag(n, "%s, keeping raw", err)
			return nil
		}
		t := p.lastThread()
		if t == nil {
			p.diag(n, "no thread to attach to, keeping raw")
			return nil
		}
		t.Siginfo = si
	case models.NT_PRPSINFO:
		ps, err := x86_64.DecodePrPsinfo(n.Desc)
		if err != nil {
			p.diag(n, "%s, keeping raw", err)
			return nil
		}
		if p.psinfo != nil {
			p.diag(n, "duplicate, keeping the first")
			return nil
		}
		p.psinfo = ps
	case models.NT_AUXV:
		if len(n.Desc)%16 != 0 {
			p.diag(n, "descriptor is %d bytes, expecting a multiple of 16, keeping raw", len(n.Desc))
			return nil
		}
		if p.haveAuxv {
			p.diag(n, "duplicate, keeping the first")
			return nil
		}
		auxv, ok := models.DecodeAuxv(n.Desc)
		if !ok {
			p.diag(n, "missing AT_NULL terminator, keeping the decoded prefix")
		}
		p.auxv = auxv
		p.haveAuxv = true
	case models.NT_FILE:
		if p.haveFile {
			p.diag(n, "duplicate, keeping the first")
			return nil
		}
		pageSize, files, err := decodeFileNote(n.Desc, n.Off)
		if err != nil {
			return err
		}
		if pageSize == 0 {
			p.diag(n, "page size 0, using raw page offsets")
		}
		p.pageSize = pageSize
		p.files = files
		p.haveFile = true
	default:
		p.diag(n, "unknown note type, keeping raw")
	}
	return nil
}
