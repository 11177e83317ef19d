// assembler.go

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

package assembler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang/glog"
)

// ---------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------

// Diagnostic is a single error or warning tied to a source line. Line 0
// marks a file-level problem.
type Diagnostic struct {
	File    string
	Line    int
	Msg     string
	Warning bool
}

func (d Diagnostic) String() string {
	level := "error"
	if d.Warning {
		level = "warning"
	}
	switch {
	case d.File != "" && d.Line > 0:
		return fmt.Sprintf("%s:%d: %s: %s", d.File, d.Line, level, d.Msg)
	case d.File != "":
		return fmt.Sprintf("%s: %s: %s", d.File, level, d.Msg)
	case d.Line > 0:
		return fmt.Sprintf("line %d: %s: %s", d.Line, level, d.Msg)
	}
	return fmt.Sprintf("%s: %s", level, d.Msg)
}

// Reporter receives diagnostics as they are produced. Warnings arrive with
// a "warning: " prefix on msg.
type Reporter interface {
	Report(file string, line int, msg string)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(file string, line int, msg string)

func (f ReporterFunc) Report(file string, line int, msg string) {
	f(file, line, msg)
}

// AssemblyError is returned when a file had at least one error. No image is
// produced in that case.
type AssemblyError struct {
	File        string
	Diagnostics []Diagnostic
}

func (e *AssemblyError) Error() string {
	var lines []string
	for _, d := range e.Diagnostics {
		if !d.Warning {
			lines = append(lines, d.String())
		}
	}
	return fmt.Sprintf("assembly errors:\n%s", strings.Join(lines, "\n"))
}

// Count returns the number of errors, warnings excluded.
func (e *AssemblyError) Count() int {
	n := 0
	for _, d := range e.Diagnostics {
		if !d.Warning {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------
// Image
// ---------------------------------------------------------------------

// SymbolRef is a (name, address) row of the entry and external listings.
type SymbolRef struct {
	Name    string
	Address int
}

// Image is the finished output of one source file. Code is addressed from
// BASE_ADDR, data follows code.
type Image struct {
	Code      []Word
	Data      []Word
	Entries   []SymbolRef
	Externals []*ExternalUsage
}

// Words returns code followed by data.
func (im *Image) Words() []Word {
	out := make([]Word, 0, len(im.Code)+len(im.Data))
	out = append(out, im.Code...)
	return append(out, im.Data...)
}

// DataAddr returns the address of the first data word.
func (im *Image) DataAddr() int {
	return BASE_ADDR + len(im.Code)
}

// ExternalRefs flattens the external usages into one row per reference,
// grouped by symbol in first-reference order.
func (im *Image) ExternalRefs() []SymbolRef {
	var out []SymbolRef
	for _, ext := range im.Externals {
		for _, addr := range ext.Addresses {
			out = append(out, SymbolRef{Name: ext.Name, Address: addr})
		}
	}
	return out
}

// ---------------------------------------------------------------------
// Assembler
// ---------------------------------------------------------------------

// Assembler runs macro expansion and both passes over a single source
// file. An Assembler is not safe for concurrent use; create one per file.
type Assembler struct {
	file      string
	reporter  Reporter
	symbols   *SymbolTable
	expansion *Expansion
	diags     []Diagnostic
	errors    int

	// labels of lines rejected by pass 1
	failedLabels map[string]bool

	// pass state
	ic, dc  int
	code    []Word
	data    []Word
	entries []SymbolRef
}

// NewAssembler creates an assembler for the named file. The name is only
// used in diagnostics.
func NewAssembler(file string) *Assembler {
	return &Assembler{
		file:    file,
		symbols: NewSymbolTable(),
	}
}

// SetReporter installs a sink that sees every diagnostic as it happens.
func (a *Assembler) SetReporter(r Reporter) {
	a.reporter = r
}

// Symbols returns the symbol table built by the last Assemble call.
func (a *Assembler) Symbols() *SymbolTable {
	return a.symbols
}

// Expansion returns the macro-expanded source of the last Assemble call.
func (a *Assembler) Expansion() *Expansion {
	return a.expansion
}

// Diagnostics returns every error and warning of the last run.
func (a *Assembler) Diagnostics() []Diagnostic {
	return a.diags
}

// GetWarnings returns any warnings generated during assembly.
func (a *Assembler) GetWarnings() []string {
	var out []string
	for _, d := range a.diags {
		if d.Warning {
			out = append(out, d.String())
		}
	}
	return out
}

// ErrorCount returns the number of errors of the last run.
func (a *Assembler) ErrorCount() int {
	return a.errors
}

func (a *Assembler) addDiagnostic(line int, msg string, warning bool) {
	d := Diagnostic{File: a.file, Line: line, Msg: msg, Warning: warning}
	a.diags = append(a.diags, d)
	if !warning {
		a.errors++
	}
	if a.reporter != nil {
		if warning {
			msg = "warning: " + msg
		}
		a.reporter.Report(a.file, line, msg)
	}
}

// sortDiagnostics orders diagnostics by source line, file-level ones last.
func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		li, lj := diags[i].Line, diags[j].Line
		if li == 0 || lj == 0 {
			return lj == 0 && li != 0
		}
		return li < lj
	})
}

func (a *Assembler) addError(line int, format string, args ...interface{}) {
	a.addDiagnostic(line, fmt.Sprintf(format, args...), false)
}

func (a *Assembler) addWarning(line int, format string, args ...interface{}) {
	a.addDiagnostic(line, fmt.Sprintf(format, args...), true)
}

func (a *Assembler) reset() {
	a.symbols = NewSymbolTable()
	a.expansion = nil
	a.diags = nil
	a.errors = 0
	a.failedLabels = make(map[string]bool)
	a.ic, a.dc = BASE_ADDR, 0
	a.code, a.data, a.entries = nil, nil, nil
}

// splitLines splits source text into lines, ignoring a final newline.
func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	lines := strings.Split(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Expand runs only the macro preprocessing sweep. Its diagnostics are
// reported like those of Assemble.
func (a *Assembler) Expand(source string) *Expansion {
	a.reset()
	a.expansion = ExpandMacros(splitLines(source))
	for _, d := range a.expansion.Diagnostics {
		a.addDiagnostic(d.Line, d.Msg, d.Warning)
	}
	return a.expansion
}

// Assemble takes source code as a string and returns the assembled image.
// Every problem in the file is reported; if any of them is an error the
// returned error is an *AssemblyError and the image is nil.
func (a *Assembler) Assemble(source string) (*Image, error) {
	exp := a.Expand(source)
	cls := NewClassifier(exp.MacroNames())

	a.firstPass(cls, exp.Lines)
	a.secondPass(cls, exp.Lines)

	if a.errors > 0 {
		glog.V(1).Infof("%s: %d error(s)", a.file, a.errors)
		sortDiagnostics(a.diags)
		return nil, &AssemblyError{File: a.file, Diagnostics: a.diags}
	}

	img := &Image{
		Code:      a.code,
		Data:      a.data,
		Entries:   a.entries,
		Externals: a.symbols.Externals(),
	}
	glog.V(1).Infof("%s: %d code words, %d data words, %d entries, %d externals",
		a.file, len(img.Code), len(img.Data), len(img.Entries), len(img.Externals))
	return img, nil
}
