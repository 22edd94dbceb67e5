package models

const (
	PROT_NONE  = 0
	PROT_READ  = 1
	PROT_WRITE = 2
	PROT_EXEC  = 4
	PROT_ALL   = 7
)

// ELF p_flags bit order differs from PROT_* (PF_X is the low bit)
const (
	PF_X = 1
	PF_W = 2
	PF_R = 4
)

func ProtFromFlags(flags uint32) int {
	prot := PROT_NONE
	if flags&PF_R != 0 {
		prot |= PROT_READ
	}
	if flags&PF_W != 0 {
		prot |= PROT_WRITE
	}
	if flags&PF_X != 0 {
		prot |= PROT_EXEC
	}
	return prot
}

func ProtString(prot int) string {
	prots := []int{PROT_READ, PROT_WRITE, PROT_EXEC}
	chars := []string{"r", "w", "x"}
	out := ""
	for i := range prots {
		if prot&prots[i] != 0 {
			out += chars[i]
		} else {
			out += "-"
		}
	}
	return out
}

// LoadSegment is one PT_LOAD entry. Size is the in-memory span; Filesz
// bytes starting at Off hold the dumped data and may be smaller than
// Size (or zero when the pages were not written out).
type LoadSegment struct {
	Addr   uint64
	Size   uint64
	Off    uint64
	Filesz uint64
	Prot   int
}

func (s *LoadSegment) ContainsVirt(addr uint64) bool {
	return s.Addr <= addr && addr < s.Addr+s.Size
}

func (s *LoadSegment) ContainsPhys(off uint64) bool {
	return s.Off <= off && off < s.Off+s.Filesz
}

type LoadSegmentAddrSort []*LoadSegment

func (s LoadSegmentAddrSort) Len() int           { return len(s) }
func (s LoadSegmentAddrSort) Less(i, j int) bool { return s[i].Addr < s[j].Addr }
func (s LoadSegmentAddrSort) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
