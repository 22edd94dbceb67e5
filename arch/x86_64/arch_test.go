package x86_64

import (
	"testing"
)

func TestRegNamesOrder(t *testing.T) {
	names := RegNames()
	if len(names) != 27 {
		t.Fatalf("got %d register names, expecting 27", len(names))
	}
	// spot check the kernel ptrace order
	order := map[int]string{0: "r15", 10: "rax", 15: "orig_rax", 16: "rip", 19: "rsp", 26: "gs"}
	for i, name := range order {
		if names[i] != name {
			t.Fatalf("names[%d] = %q, expecting %q", i, names[i], name)
		}
	}
}

func TestRegsVals(t *testing.T) {
	r := &Regs{R15: 1, Rax: 2, Rip: 3, Gs: 4}
	vals := r.Vals()
	if len(vals) != 27 {
		t.Fatalf("got %d values, expecting 27", len(vals))
	}
	if vals[0] != 1 || vals[10] != 2 || vals[16] != 3 || vals[26] != 4 {
		t.Fatalf("values out of order: %v", vals)
	}
}

func TestRegLookup(t *testing.T) {
	r := &Regs{Rax: 0x1122334455667788, FsBase: 0x7f0000001000}
	if val, err := r.Reg("rax"); err != nil || val != 0x1122334455667788 {
		t.Fatalf("rax lookup: %v %#x", err, val)
	}
	if val, err := r.Reg("fs_base"); err != nil || val != 0x7f0000001000 {
		t.Fatalf("fs_base lookup: %v %#x", err, val)
	}
	if _, err := r.Reg("xyzzy"); err == nil {
		t.Fatal("unknown register should fail")
	}
}
