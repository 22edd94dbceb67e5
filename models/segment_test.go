package models

import (
	"testing"
)

func TestProtFromFlags(t *testing.T) {
	cases := []struct {
		flags uint32
		prot  int
	}{
		{0, PROT_NONE},
		{PF_R, PROT_READ},
		{PF_W, PROT_WRITE},
		{PF_X, PROT_EXEC},
		{PF_R | PF_X, PROT_READ | PROT_EXEC},
		{PF_R | PF_W | PF_X, PROT_ALL},
	}
	for _, c := range cases {
		if prot := ProtFromFlags(c.flags); prot != c.prot {
			t.Fatalf("flags %#x: got prot %d, expecting %d", c.flags, prot, c.prot)
		}
	}
}

func TestProtString(t *testing.T) {
	if s := ProtString(PROT_READ | PROT_EXEC); s != "r-x" {
		t.Fatalf("got %q, expecting r-x", s)
	}
	if s := ProtString(PROT_NONE); s != "---" {
		t.Fatalf("got %q, expecting ---", s)
	}
}

func TestLoadSegmentContains(t *testing.T) {
	s := &LoadSegment{Addr: 0x400000, Size: 0x2000, Off: 0x1000, Filesz: 0x1000}
	if !s.ContainsVirt(0x400000) || !s.ContainsVirt(0x401fff) {
		t.Fatal("segment should contain its own range")
	}
	if s.ContainsVirt(0x402000) || s.ContainsVirt(0x3fffff) {
		t.Fatal("segment contains addresses outside its range")
	}
	if !s.ContainsPhys(0x1fff) || s.ContainsPhys(0x2000) {
		t.Fatal("phys range should follow Filesz, not Size")
	}
}
