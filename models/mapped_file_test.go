package models

import (
	"testing"
)

func TestMappedFileContains(t *testing.T) {
	m := &MappedFile{Name: "/lib/libc.so.6", Addr: 0x7f0000000000, Size: 0x1000}
	if !m.Contains(0x7f0000000000) || !m.Contains(0x7f0000000fff) {
		t.Fatal("mapping should contain its own range")
	}
	if m.Contains(0x7f0000001000) {
		t.Fatal("end address is exclusive")
	}
}

func TestMappedFileOverlaps(t *testing.T) {
	a := &MappedFile{Addr: 0x1000, Size: 0x1000}
	b := &MappedFile{Addr: 0x1800, Size: 0x1000}
	c := &MappedFile{Addr: 0x2000, Size: 0x1000}
	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatal("expecting overlap")
	}
	if a.Overlaps(c) {
		t.Fatal("adjacent mappings do not overlap")
	}
}

func TestMappedFileFileOff(t *testing.T) {
	m := &MappedFile{PageOff: 3, PageSize: 0x1000}
	if m.FileOff() != 0x3000 {
		t.Fatalf("got %#x, expecting 0x3000", m.FileOff())
	}
}

func TestMappedFileString(t *testing.T) {
	m := &MappedFile{Name: "/bin/crash", Addr: 0x400000, Size: 0x1000, Prot: PROT_READ | PROT_EXEC}
	if s := m.String(); s != "0x400000-0x401000 r-x /bin/crash" {
		t.Fatalf("got %q", s)
	}
	anon := &MappedFile{Addr: 0x600000, Size: 0x1000, Prot: PROT_READ | PROT_WRITE}
	if !anon.Anonymous() {
		t.Fatal("mapping with no name should be anonymous")
	}
	if s := anon.String(); s != "0x600000-0x601000 rw-" {
		t.Fatalf("got %q", s)
	}
}
