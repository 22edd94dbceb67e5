package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/lunixbochs/coredump"
	"github.com/lunixbochs/coredump/arch/x86_64"
	"github.com/lunixbochs/coredump/models"
)

var gzipMagic = []byte{0x1f, 0x8b}
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
var snappyMagic = []byte{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50, 0x70, 0x59}

// readCore slurps a core file, looking through gzip, zstd, or framed
// snappy compression (systemd-coredump writes zstd by default).
func readCore(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	br := bufio.NewReader(f)
	head, _ := br.Peek(len(snappyMagic))
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "gzip open failed")
		}
		defer zr.Close()
		return ioutil.ReadAll(zr)
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "zstd open failed")
		}
		defer zr.Close()
		return ioutil.ReadAll(zr)
	case bytes.HasPrefix(head, snappyMagic):
		return ioutil.ReadAll(snappy.NewReader(br))
	}
	return ioutil.ReadAll(br)
}

var chHot = ansi.ColorCode("default+bu:default")

func colorPad(s, color string, pad int) string {
	length := len(s)
	s = color + s + ansi.Reset
	if length < pad {
		s = strings.Repeat(" ", pad-length) + s
	}
	return s
}

// column-wise register dump; rip and rsp are highlighted so they can
// be spotted in the grid
func printRegs(regs *x86_64.Regs, color bool) {
	names := x86_64.RegNames()
	vals := regs.Vals()
	cols := 4
	rows := (len(names) + cols - 1) / cols
	for i := 0; i < rows; i++ {
		var line []string
		for j := 0; j < cols; j++ {
			n := j*rows + i
			if n >= len(names) {
				continue
			}
			val := fmt.Sprintf("%016x", vals[n])
			if color && (names[n] == "rip" || names[n] == "rsp") {
				line = append(line, fmt.Sprintf(" %s 0x%s", colorPad(names[n], chHot, 8), chHot+val+ansi.Reset))
			} else {
				line = append(line, fmt.Sprintf(" %8s 0x%s", names[n], val))
			}
		}
		fmt.Println(strings.Join(line, ""))
	}
}

func sigName(sig int32) string {
	if sig == 0 {
		return "none"
	}
	if name := unix.SignalName(syscall.Signal(sig)); name != "" {
		return name
	}
	return fmt.Sprintf("signal %d", sig)
}

func printThread(i int, t *coredump.ThreadInfo, color bool) {
	fmt.Printf("thread %d: pid %d ppid %d sig %s", i, t.Pid, t.Ppid, sigName(int32(t.Cursig)))
	if t.Siginfo != nil {
		fmt.Printf(" (code %d)", t.Siginfo.Code)
	}
	if t.FpRegs != nil {
		fmt.Printf(" fp")
	}
	if t.XState != nil {
		fmt.Printf(" xstate")
	}
	fmt.Println()
	printRegs(&t.Regs, color)
}

func printMappings(core *coredump.CoreFile) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"start", "end", "prot", "offset", "path"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, m := range core.Mappings {
		table.Append([]string{
			fmt.Sprintf("0x%x", m.Addr),
			fmt.Sprintf("0x%x", m.Addr+m.Size),
			models.ProtString(m.Prot),
			fmt.Sprintf("0x%x", m.FileOff()),
			m.Name,
		})
	}
	table.Render()
}

func printAuxv(core *coredump.CoreFile) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"tag", "value"})
	table.SetAutoWrapText(false)
	for _, a := range core.Auxv {
		table.Append([]string{models.AuxvName(a.Type), fmt.Sprintf("0x%x", a.Val)})
	}
	table.Render()
}

func dumpMem(core *coredump.CoreFile, spec string) error {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return errors.Errorf("bad -read spec %q, expecting addr:len", spec)
	}
	addr, err := strconv.ParseUint(parts[0], 0, 64)
	if err != nil {
		return errors.Wrapf(err, "bad -read address %q", parts[0])
	}
	size, err := strconv.ParseUint(parts[1], 0, 64)
	if err != nil {
		return errors.Wrapf(err, "bad -read length %q", parts[1])
	}
	mem, err := core.MemRead(addr, size)
	if err != nil {
		return err
	}
	fmt.Print(hex.Dump(mem))
	return nil
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	if st, ok := err.(stackTracer); ok {
		for _, f := range st.StackTrace() {
			method := fmt.Sprintf("%n", f)
			fmt.Fprintf(os.Stderr, "  %s:%d %s()\n", f, f, method)
			if method == "main.main" {
				break
			}
		}
	}
}

func main() {
	fs := flag.NewFlagSet("args", flag.ExitOnError)
	mapsFlag := fs.Bool("maps", false, "print the memory mapping table")
	auxvFlag := fs.Bool("auxv", false, "print the auxiliary vector")
	jsonFlag := fs.Bool("json", false, "output the decoded core as JSON")
	noRegs := fs.Bool("noregs", false, "skip per-thread register dumps")
	noColor := fs.Bool("nocolor", false, "disable colors")
	readSpec := fs.String("read", "", "hex dump memory from the core image (addr:len, e.g. 0x400000:64)")
	fs.Usage = func() {
		fmt.Printf("Usage: %s [options] <core>\n", os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}

	p, err := readCore(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", fs.Arg(0), err)
		os.Exit(1)
	}
	core, err := coredump.Parse(p)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if *jsonFlag {
		out, err := json.Marshal(core)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		fmt.Printf("%s\n", out)
		return
	}

	color := isatty.IsTerminal(os.Stdout.Fd()) && !*noColor
	fmt.Printf("%s: x86-64 core, %d threads, %d mappings\n", fs.Arg(0), len(core.Threads), len(core.Mappings))
	if ps := core.Process; ps != nil {
		fmt.Printf("process: %s (pid %d ppid %d uid %d gid %d) args %q\n",
			ps.Filename(), ps.Pid, ps.Ppid, ps.Uid, ps.Gid, ps.Args())
	}
	for i, t := range core.Threads {
		if *noRegs {
			fmt.Printf("thread %d: pid %d sig %s\n", i, t.Pid, sigName(int32(t.Cursig)))
			continue
		}
		printThread(i, t, color)
	}
	if *mapsFlag {
		printMappings(core)
	}
	if *auxvFlag {
		printAuxv(core)
	}
	if *readSpec != "" {
		if err := dumpMem(core, *readSpec); err != nil {
			printError(err)
			os.Exit(1)
		}
	}
	if len(core.Diags) > 0 {
		fmt.Printf("%d diagnostics:\n", len(core.Diags))
		for i := range core.Diags {
			fmt.Printf("  %s\n", &core.Diags[i])
		}
	}
}
