package models

import (
	"encoding/binary"
	"testing"
)

func packAuxv(pairs ...[2]uint64) []byte {
	var p []byte
	var tmp [16]byte
	for _, pair := range pairs {
		binary.LittleEndian.PutUint64(tmp[:], pair[0])
		binary.LittleEndian.PutUint64(tmp[8:], pair[1])
		p = append(p, tmp[:]...)
	}
	return p
}

func TestDecodeAuxv(t *testing.T) {
	p := packAuxv(
		[2]uint64{ELF_AT_PAGESZ, 4096},
		[2]uint64{ELF_AT_ENTRY, 0x401000},
		[2]uint64{ELF_AT_NULL, 0},
	)
	auxv, ok := DecodeAuxv(p)
	if !ok {
		t.Fatal("terminator not detected")
	}
	if len(auxv) != 2 {
		t.Fatalf("got %d entries, expecting 2", len(auxv))
	}
	if auxv[0].Type != ELF_AT_PAGESZ || auxv[0].Val != 4096 {
		t.Fatalf("bad entry: %#v", auxv[0])
	}
	if auxv[1].Type != ELF_AT_ENTRY || auxv[1].Val != 0x401000 {
		t.Fatalf("bad entry: %#v", auxv[1])
	}
}

func TestDecodeAuxvStopsAtNull(t *testing.T) {
	p := packAuxv(
		[2]uint64{ELF_AT_UID, 1000},
		[2]uint64{ELF_AT_NULL, 0},
		[2]uint64{ELF_AT_GID, 1000},
	)
	auxv, ok := DecodeAuxv(p)
	if !ok || len(auxv) != 1 {
		t.Fatalf("entries after the terminator leaked: %#v", auxv)
	}
}

func TestDecodeAuxvMissingTerminator(t *testing.T) {
	p := packAuxv([2]uint64{ELF_AT_UID, 1000})
	auxv, ok := DecodeAuxv(p)
	if ok {
		t.Fatal("missing terminator not reported")
	}
	if len(auxv) != 1 {
		t.Fatalf("got %d entries, expecting the decoded prefix", len(auxv))
	}
}

func TestAuxvName(t *testing.T) {
	if name := AuxvName(ELF_AT_PHDR); name != "AT_PHDR" {
		t.Fatalf("got %q", name)
	}
	if name := AuxvName(999); name != "AT_999" {
		t.Fatalf("got %q", name)
	}
}
