package x86_64

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/lunixbochs/struc"
)

func TestStrucSizes(t *testing.T) {
	cases := []struct {
		i    interface{}
		size int
	}{
		{&PrStatus{}, PrStatusSize},
		{&PrPsinfo{}, PrPsinfoSize},
		{&SigNote{}, 12},
		{&Regs{}, 216},
	}
	for _, c := range cases {
		size, err := struc.Sizeof(c.i)
		if err != nil {
			t.Fatal(err)
		}
		if size != c.size {
			t.Fatalf("%T packs to %d bytes, expecting %d", c.i, size, c.size)
		}
	}
}

func TestPrStatusRoundTrip(t *testing.T) {
	in := PrStatus{
		Info:    ElfSiginfo{Signo: 11, Code: 1, Errno: 0},
		Cursig:  11,
		Sigpend: 0x400,
		Sighold: 0x10000,
		Pid:     1234,
		Ppid:    1,
		Pgrp:    1234,
		Sid:     1000,
		Utime:   Timeval{Sec: 1, Usec: 500000},
		Stime:   Timeval{Sec: 2, Usec: 250000},
		Regs: Regs{
			Rax: 0x1122334455667788,
			Rip: 0x401000,
			Rsp: 0x7ffe00001000,
		},
		Fpvalid: 1,
	}
	var buf bytes.Buffer
	if err := struc.PackWithOrder(&buf, &in, binary.LittleEndian); err != nil {
		t.Fatal(err)
	}
	out, err := DecodePrStatus(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(&in, out) {
		t.Fatalf("prstatus did not round-trip:\n%#v\n%#v", in, *out)
	}
}

// pin the byte offsets against the kernel layout, independent of how
// the struct packs
func TestPrStatusLayout(t *testing.T) {
	desc := make([]byte, PrStatusSize)
	binary.LittleEndian.PutUint32(desc[0:], 11)                   // signo
	binary.LittleEndian.PutUint16(desc[12:], 11)                  // cursig
	binary.LittleEndian.PutUint32(desc[32:], 4321)                // pid
	binary.LittleEndian.PutUint64(desc[112:], 0xf15)              // r15
	binary.LittleEndian.PutUint64(desc[192:], 0x1122334455667788) // rax
	binary.LittleEndian.PutUint64(desc[240:], 0x401000)           // rip
	binary.LittleEndian.PutUint64(desc[264:], 0x7ffe00001000)     // rsp
	binary.LittleEndian.PutUint64(desc[280:], 0x7f0000002000)     // fs_base
	binary.LittleEndian.PutUint32(desc[328:], 1)                  // fpvalid
	st, err := DecodePrStatus(desc)
	if err != nil {
		t.Fatal(err)
	}
	if st.Info.Signo != 11 || st.Cursig != 11 || st.Pid != 4321 {
		t.Fatalf("status fields misplaced: %#v", st)
	}
	if st.Regs.R15 != 0xf15 || st.Regs.Rax != 0x1122334455667788 {
		t.Fatalf("registers misplaced: %#v", st.Regs)
	}
	if st.Regs.Rip != 0x401000 || st.Regs.Rsp != 0x7ffe00001000 || st.Regs.FsBase != 0x7f0000002000 {
		t.Fatalf("registers misplaced: %#v", st.Regs)
	}
	if st.Fpvalid != 1 {
		t.Fatal("fpvalid misplaced")
	}
}

// every register slot gets a distinct value so a single swapped pair
// anywhere in the order fails
func TestPrStatusRegisterOrder(t *testing.T) {
	desc := make([]byte, PrStatusSize)
	for i := 0; i < 27; i++ {
		binary.LittleEndian.PutUint64(desc[112+i*8:], 0xab00+uint64(i))
	}
	st, err := DecodePrStatus(desc)
	if err != nil {
		t.Fatal(err)
	}
	names := RegNames()
	for i, val := range st.Regs.Vals() {
		if val != 0xab00+uint64(i) {
			t.Fatalf("%s = %#x, expecting %#x", names[i], val, 0xab00+uint64(i))
		}
	}
	for i, name := range names {
		val, err := st.Regs.Reg(name)
		if err != nil {
			t.Fatal(err)
		}
		if val != 0xab00+uint64(i) {
			t.Fatalf("Reg(%q) = %#x, expecting %#x", name, val, 0xab00+uint64(i))
		}
	}
}

func TestPrStatusBadSize(t *testing.T) {
	if _, err := DecodePrStatus(make([]byte, 100)); err == nil {
		t.Fatal("undersized prstatus should fail")
	}
	if _, err := DecodePrStatus(make([]byte, PrStatusSize+4)); err == nil {
		t.Fatal("oversized prstatus should fail")
	}
}

func TestPrPsinfo(t *testing.T) {
	desc := make([]byte, PrPsinfoSize)
	// state, sname, nice
	desc[0] = 0
	desc[1] = 'R'
	desc[3] = 5
	binary.LittleEndian.PutUint32(desc[16:], 1000) // uid
	binary.LittleEndian.PutUint32(desc[24:], 4321) // pid
	copy(desc[40:], "crash\x00")
	copy(desc[56:], "./crash --fast\x00")
	ps, err := DecodePrPsinfo(desc)
	if err != nil {
		t.Fatal(err)
	}
	if ps.Sname != 'R' || ps.Nice != 5 || ps.Uid != 1000 || ps.Pid != 4321 {
		t.Fatalf("psinfo fields misplaced: %#v", ps)
	}
	if ps.Filename() != "crash" {
		t.Fatalf("got fname %q", ps.Filename())
	}
	if ps.Args() != "./crash --fast" {
		t.Fatalf("got args %q", ps.Args())
	}
}

func TestDecodeSiginfo(t *testing.T) {
	desc := make([]byte, SiginfoSize)
	binary.LittleEndian.PutUint32(desc[0:], 11) // signo
	binary.LittleEndian.PutUint32(desc[4:], 0)  // errno
	binary.LittleEndian.PutUint32(desc[8:], 1)  // code
	si, err := DecodeSiginfo(desc)
	if err != nil {
		t.Fatal(err)
	}
	if si.Signo != 11 || si.Errno != 0 || si.Code != 1 {
		t.Fatalf("siginfo fields misplaced: %#v", si)
	}
	if _, err := DecodeSiginfo(desc[:64]); err == nil {
		t.Fatal("undersized siginfo should fail")
	}
}

func BenchmarkDecodePrStatus(b *testing.B) {
	desc := make([]byte, PrStatusSize)
	for i := 0; i < 27; i++ {
		binary.LittleEndian.PutUint64(desc[112+i*8:], uint64(i))
	}
	b.SetBytes(PrStatusSize)
	for i := 0; i < b.N; i++ {
		if _, err := DecodePrStatus(desc); err != nil {
			b.Fatal(err)
		}
	}
}
