package models

import (
	"fmt"
)

// MappedFile is one region of the crashed process's address space.
// Name is empty for anonymous memory. PageOff counts pages of PageSize
// bytes into the backing file, per the NT_FILE note encoding.
type MappedFile struct {
	Name       string
	Addr, Size uint64
	PageOff    uint64
	PageSize   uint64
	Prot       int
}

func (m *MappedFile) Contains(addr uint64) bool {
	return m.Addr <= addr && addr < m.Addr+m.Size
}

func (m *MappedFile) Overlaps(o *MappedFile) bool {
	return (m.Addr >= o.Addr && m.Addr < o.Addr+o.Size) ||
		(o.Addr >= m.Addr && o.Addr < m.Addr+m.Size)
}

func (m *MappedFile) Anonymous() bool {
	return m.Name == ""
}

func (m *MappedFile) FileOff() uint64 {
	return m.PageOff * m.PageSize
}

func (m *MappedFile) String() string {
	desc := fmt.Sprintf("0x%x-0x%x %s", m.Addr, m.Addr+m.Size, ProtString(m.Prot))
	if m.Name != "" {
		desc += fmt.Sprintf(" %s", m.Name)
	}
	return desc
}

type MappedFileAddrSort []*MappedFile

func (m MappedFileAddrSort) Len() int           { return len(m) }
func (m MappedFileAddrSort) Less(i, j int) bool { return m[i].Addr < m[j].Addr }
func (m MappedFileAddrSort) Swap(i, j int)      { m[i], m[j] = m[j], m[i] }
