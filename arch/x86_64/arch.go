package x86_64

import (
	"github.com/pkg/errors"
)

// Regs is the general register set in kernel ptrace order (struct
// user_regs_struct). The field order is the wire layout: a prstatus
// descriptor carries these 27 words back to back.
type Regs struct {
	R15     uint64
	R14     uint64
	R13     uint64
	R12     uint64
	Rbp     uint64
	Rbx     uint64
	R11     uint64
	R10     uint64
	R9      uint64
	R8      uint64
	Rax     uint64
	Rcx     uint64
	Rdx     uint64
	Rsi     uint64
	Rdi     uint64
	OrigRax uint64
	Rip     uint64
	Cs      uint64
	Eflags  uint64
	Rsp     uint64
	Ss      uint64
	FsBase  uint64
	GsBase  uint64
	Ds      uint64
	Es      uint64
	Fs      uint64
	Gs      uint64
}

var regNames = []string{
	"r15", "r14", "r13", "r12", "rbp", "rbx", "r11", "r10",
	"r9", "r8", "rax", "rcx", "rdx", "rsi", "rdi", "orig_rax",
	"rip", "cs", "eflags", "rsp", "ss", "fs_base", "gs_base",
	"ds", "es", "fs", "gs",
}

func RegNames() []string {
	return regNames
}

func (r *Regs) Vals() []uint64 {
	return []uint64{
		r.R15, r.R14, r.R13, r.R12, r.Rbp, r.Rbx, r.R11, r.R10,
		r.R9, r.R8, r.Rax, r.Rcx, r.Rdx, r.Rsi, r.Rdi, r.OrigRax,
		r.Rip, r.Cs, r.Eflags, r.Rsp, r.Ss, r.FsBase, r.GsBase,
		r.Ds, r.Es, r.Fs, r.Gs,
	}
}

func (r *Regs) Reg(name string) (uint64, error) {
	for i, n := range regNames {
		if n == name {
			return r.Vals()[i], nil
		}
	}
	return 0, errors.Errorf("unknown register: %s", name)
}
