package models

import (
	"encoding/binary"
	"fmt"
)

const (
	ELF_AT_NULL = iota
	ELF_AT_IGNORE
	ELF_AT_EXECFD
	ELF_AT_PHDR
	ELF_AT_PHENT
	ELF_AT_PHNUM
	ELF_AT_PAGESZ
	ELF_AT_BASE
	ELF_AT_FLAGS
	ELF_AT_ENTRY
	ELF_AT_NOTELF
	ELF_AT_UID
	ELF_AT_EUID
	ELF_AT_GID
	ELF_AT_EGID
	ELF_AT_PLATFORM
	ELF_AT_HWCAP
	ELF_AT_CLKTCK       = 17
	ELF_AT_SECURE       = 23
	ELF_AT_RANDOM       = 25
	ELF_AT_HWCAP2       = 26
	ELF_AT_EXECFN       = 31
	ELF_AT_SYSINFO      = 32
	ELF_AT_SYSINFO_EHDR = 33
)

var auxvNames = map[uint64]string{
	ELF_AT_NULL:         "AT_NULL",
	ELF_AT_IGNORE:       "AT_IGNORE",
	ELF_AT_EXECFD:       "AT_EXECFD",
	ELF_AT_PHDR:         "AT_PHDR",
	ELF_AT_PHENT:        "AT_PHENT",
	ELF_AT_PHNUM:        "AT_PHNUM",
	ELF_AT_PAGESZ:       "AT_PAGESZ",
	ELF_AT_BASE:         "AT_BASE",
	ELF_AT_FLAGS:        "AT_FLAGS",
	ELF_AT_ENTRY:        "AT_ENTRY",
	ELF_AT_NOTELF:       "AT_NOTELF",
	ELF_AT_UID:          "AT_UID",
	ELF_AT_EUID:         "AT_EUID",
	ELF_AT_GID:          "AT_GID",
	ELF_AT_EGID:         "AT_EGID",
	ELF_AT_PLATFORM:     "AT_PLATFORM",
	ELF_AT_HWCAP:        "AT_HWCAP",
	ELF_AT_CLKTCK:       "AT_CLKTCK",
	ELF_AT_SECURE:       "AT_SECURE",
	ELF_AT_RANDOM:       "AT_RANDOM",
	ELF_AT_HWCAP2:       "AT_HWCAP2",
	ELF_AT_EXECFN:       "AT_EXECFN",
	ELF_AT_SYSINFO:      "AT_SYSINFO",
	ELF_AT_SYSINFO_EHDR: "AT_SYSINFO_EHDR",
}

func AuxvName(t uint64) string {
	if name, ok := auxvNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AT_%d", t)
}

type Elf64Auxv struct {
	Type, Val uint64
}

// DecodeAuxv reads little-endian type/value pairs up to the AT_NULL
// terminator, which is not included in the result. The second return
// is false when the terminator is missing.
func DecodeAuxv(p []byte) ([]Elf64Auxv, bool) {
	var auxv []Elf64Auxv
	for len(p) >= 16 {
		a := Elf64Auxv{
			Type: binary.LittleEndian.Uint64(p),
			Val:  binary.LittleEndian.Uint64(p[8:]),
		}
		if a.Type == ELF_AT_NULL {
			return auxv, true
		}
		auxv = append(auxv, a)
		p = p[16:]
	}
	return auxv, false
}
