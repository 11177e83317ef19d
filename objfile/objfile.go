// objfile.go - Object, entry and extern file I/O

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package objfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/intuitionamiga/asm15/assembler"
)

// File extensions
const (
	EXT_SOURCE   = ".as"
	EXT_EXPANDED = ".am"
	EXT_OBJECT   = ".ob"
	EXT_ENTRIES  = ".ent"
	EXT_EXTERNS  = ".ext"
)

// Object is the content of an .ob file read back from disk.
type Object struct {
	Code []assembler.Word
	Data []assembler.Word
}

// ---------------------------------------------------------------------
// Writers
// ---------------------------------------------------------------------

// WriteObject writes the .ob format: a "code data" count header, then one
// "address word" row per word with the word in five octal digits.
func WriteObject(w io.Writer, img *assembler.Image) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(img.Code), len(img.Data))
	for i, word := range img.Words() {
		fmt.Fprintf(bw, "%04d %s\n", assembler.BASE_ADDR+i, word.Octal())
	}
	return bw.Flush()
}

// WriteRefs writes one "name address" row per reference. It serves both the
// .ent and the .ext listing.
func WriteRefs(w io.Writer, refs []assembler.SymbolRef) error {
	bw := bufio.NewWriter(w)
	for _, r := range refs {
		fmt.Fprintf(bw, "%s %04d\n", r.Name, r.Address)
	}
	return bw.Flush()
}

// WriteExpanded writes macro-expanded source, one line per row.
func WriteExpanded(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		bw.WriteString(l)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ---------------------------------------------------------------------
// Reader
// ---------------------------------------------------------------------

// ReadObject parses an .ob file. Addresses must run consecutively from
// BASE_ADDR.
func ReadObject(r io.Reader) (*Object, error) {
	sc := bufio.NewScanner(r)
	lineNum := 0
	next := func() (string, bool) {
		for sc.Scan() {
			lineNum++
			if l := strings.TrimSpace(sc.Text()); l != "" {
				return l, true
			}
		}
		return "", false
	}

	header, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("reading object header: %w", err)
		}
		return nil, errors.New("empty object file")
	}
	counts := strings.Fields(header)
	if len(counts) != 2 {
		return nil, fmt.Errorf("line %d: invalid object header %q: want code and data counts", lineNum, header)
	}
	nCode, err := strconv.Atoi(counts[0])
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid object header %q: %w", lineNum, header, err)
	}
	nData, err := strconv.Atoi(counts[1])
	if err != nil {
		return nil, fmt.Errorf("line %d: invalid object header %q: %w", lineNum, header, err)
	}
	if nCode < 0 || nData < 0 || assembler.BASE_ADDR+nCode+nData > assembler.MEMORY_SIZE {
		return nil, fmt.Errorf("line %d: invalid word counts %d %d", lineNum, nCode, nData)
	}

	obj := &Object{}
	for i := 0; i < nCode+nData; i++ {
		row, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, fmt.Errorf("reading object: %w", err)
			}
			return nil, fmt.Errorf("object ends after %d of %d words", i, nCode+nData)
		}
		fields := strings.Fields(row)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected address and word, got %q", lineNum, row)
		}
		addr, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid address %q: %w", lineNum, fields[0], err)
		}
		if want := assembler.BASE_ADDR + i; addr != want {
			return nil, fmt.Errorf("line %d: address %04d out of sequence, expected %04d", lineNum, addr, want)
		}
		v, err := strconv.ParseUint(fields[1], 8, assembler.WORD_BITS)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid word %q: %w", lineNum, fields[1], err)
		}
		if i < nCode {
			obj.Code = append(obj.Code, assembler.Word(v))
		} else {
			obj.Data = append(obj.Data, assembler.Word(v))
		}
	}
	if extra, ok := next(); ok {
		return nil, fmt.Errorf("line %d: unexpected text after last word: %q", lineNum, extra)
	}
	return obj, sc.Err()
}

// Listing disassembles the object without symbol names.
func (o *Object) Listing() []string {
	return assembler.Disassemble(o.Code, o.Data, nil)
}

// ReadObjectFile opens and parses an .ob file.
func ReadObjectFile(path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	obj, err := ReadObject(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

// ---------------------------------------------------------------------
// Files on disk
// ---------------------------------------------------------------------

// BaseName strips a trailing .as from a command-line argument.
func BaseName(arg string) string {
	return strings.TrimSuffix(arg, EXT_SOURCE)
}

// OutputBase returns the path prefix for the outputs of base. With an empty
// outDir the outputs sit next to the source.
func OutputBase(base, outDir string) string {
	if outDir == "" {
		return base
	}
	return filepath.Join(outDir, filepath.Base(base))
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	glog.V(1).Infof("wrote %s", path)
	return nil
}

// removeStale deletes an output left over from an earlier run.
func removeStale(path string) error {
	err := os.Remove(path)
	if err == nil {
		glog.V(1).Infof("removed stale %s", path)
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// SaveExpanded writes base.am.
func SaveExpanded(base string, lines []string) (string, error) {
	path := base + EXT_EXPANDED
	return path, writeFile(path, func(w io.Writer) error {
		return WriteExpanded(w, lines)
	})
}

// SaveImage writes base.ob and, when they are not empty, base.ent and
// base.ext. An empty listing removes a file of the same name. It returns
// the paths written.
func SaveImage(base string, img *assembler.Image) ([]string, error) {
	var written []string

	obPath := base + EXT_OBJECT
	if err := writeFile(obPath, func(w io.Writer) error { return WriteObject(w, img) }); err != nil {
		return written, err
	}
	written = append(written, obPath)

	listings := []struct {
		ext  string
		refs []assembler.SymbolRef
	}{
		{EXT_ENTRIES, img.Entries},
		{EXT_EXTERNS, img.ExternalRefs()},
	}
	for _, l := range listings {
		path := base + l.ext
		if len(l.refs) == 0 {
			if err := removeStale(path); err != nil {
				return written, err
			}
			continue
		}
		if err := writeFile(path, func(w io.Writer) error { return WriteRefs(w, l.refs) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// RemoveExpanded deletes base.am, used when macro expansion failed.
func RemoveExpanded(base string) error {
	return removeStale(base + EXT_EXPANDED)
}

// RemoveOutputs deletes the .ob, .ent and .ext of base, used after a failed
// assembly so no stale image is left behind.
func RemoveOutputs(base string) error {
	for _, ext := range []string{EXT_OBJECT, EXT_ENTRIES, EXT_EXTERNS} {
		if err := removeStale(base + ext); err != nil {
			return err
		}
	}
	return nil
}
