package coredump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/lunixbochs/coredump/loader"
	"github.com/lunixbochs/coredump/models"
)

// fileEntry is one row of the NT_FILE table: an address range and its
// backing path, with the file offset counted in pages.
type fileEntry struct {
	Start, End uint64
	PageOff    uint64
	Path       string
}

// decodeFileNote reads the two-part NT_FILE layout: count and page
// size, count (start, end, pgoff) triples, then exactly count
// NUL-terminated paths.
func decodeFileNote(desc []byte, off uint64) (uint64, []fileEntry, error) {
	if len(desc) < 16 {
		return 0, nil, errors.Wrapf(MalformedFileNote, "offset %#x: %d byte descriptor cannot hold the header", off, len(desc))
	}
	count := binary.LittleEndian.Uint64(desc)
	pageSize := binary.LittleEndian.Uint64(desc[8:])
	if count > uint64(len(desc)-16)/24 {
		return 0, nil, errors.Wrapf(MalformedFileNote, "offset %#x: %d entries do not fit in %d bytes", off, count, len(desc))
	}
	entries := make([]fileEntry, count)
	p := desc[16:]
	for i := range entries {
		entries[i].Start = binary.LittleEndian.Uint64(p)
		entries[i].End = binary.LittleEndian.Uint64(p[8:])
		entries[i].PageOff = binary.LittleEndian.Uint64(p[16:])
		p = p[24:]
	}
	for i := range entries {
		nul := bytes.IndexByte(p, 0)
		if nul < 0 {
			return 0, nil, errors.Wrapf(MalformedFileNote, "offset %#x: %d paths for %d entries", off, i, count)
		}
		entries[i].Path = string(p[:nul])
		p = p[nul+1:]
	}
	return pageSize, entries, nil
}

func makeSegments(phdrs []loader.ProgHeader) []*models.LoadSegment {
	var segs []*models.LoadSegment
	for _, ph := range phdrs {
		if ph.Type != loader.PT_LOAD {
			continue
		}
		segs = append(segs, &models.LoadSegment{
			Addr:   ph.Vaddr,
			Size:   ph.Memsz,
			Off:    ph.Off,
			Filesz: ph.Filesz,
			Prot:   models.ProtFromFlags(ph.Flags),
		})
	}
	return segs
}

// buildMappings produces one MappedFile per PT_LOAD. The path comes
// from the first NT_FILE entry covering the segment's start; further
// covering entries and source-data overlaps are diagnosed, not
// dropped.
func buildMappings(segs []*models.LoadSegment, pageSize uint64, files []fileEntry, diags *[]models.Diagnostic) []*models.MappedFile {
	used := make([]bool, len(files))
	var maps []*models.MappedFile
	for _, s := range segs {
		m := &models.MappedFile{
			Addr:     s.Addr,
			Size:     s.Size,
			PageSize: pageSize,
			Prot:     s.Prot,
		}
		matched := false
		for i, f := range files {
			if s.Addr < f.Start || s.Addr >= f.End {
				continue
			}
			if matched {
				*diags = append(*diags, models.Diagnostic{
					Off: s.Addr,
					Msg: fmt.Sprintf("mapping %#x-%#x also covered by %s", s.Addr, s.Addr+s.Size, f.Path),
				})
				continue
			}
			matched = true
			used[i] = true
			m.Name = f.Path
			m.PageOff = f.PageOff
			if pageSize > 0 {
				m.PageOff += (s.Addr - f.Start) / pageSize
			}
		}
		maps = append(maps, m)
	}
	for i, f := range files {
		if !used[i] {
			*diags = append(*diags, models.Diagnostic{
				Off: f.Start,
				Msg: fmt.Sprintf("file entry %s %#x-%#x matches no PT_LOAD", f.Path, f.Start, f.End),
			})
		}
	}
	sort.Sort(models.MappedFileAddrSort(maps))
	for i := 1; i < len(maps); i++ {
		if maps[i-1].Overlaps(maps[i]) {
			*diags = append(*diags, models.Diagnostic{
				Off: maps[i].Addr,
				Msg: fmt.Sprintf("mapping %#x-%#x overlaps %#x-%#x", maps[i].Addr, maps[i].Addr+maps[i].Size, maps[i-1].Addr, maps[i-1].Addr+maps[i-1].Size),
			})
		}
	}
	return maps
}
