// macro.go - Macro preprocessing

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
	"strings"

	"github.com/golang/glog"
)

// ---------------------------------------------------------------------
// Macro type
// ---------------------------------------------------------------------

// Macro holds a macro definition collected during preprocessing.
type Macro struct {
	Name string
	Body []string
	Line int
}

// SourceLine is one line of expanded source. Num is the line of the
// original source it came from; lines produced by a macro call carry the
// line of the call.
type SourceLine struct {
	Num  int
	Text string
}

// Expansion is the result of the preprocessing sweep.
type Expansion struct {
	Lines       []SourceLine
	Macros      []*Macro
	Diagnostics []Diagnostic
}

// MacroNames returns the names of all macros, in definition order.
func (e *Expansion) MacroNames() []string {
	names := make([]string, len(e.Macros))
	for i, m := range e.Macros {
		names[i] = m.Name
	}
	return names
}

// Texts returns the expanded lines without their line numbers.
func (e *Expansion) Texts() []string {
	out := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		out[i] = l.Text
	}
	return out
}

// HasErrors reports whether any diagnostic is an error.
func (e *Expansion) HasErrors() bool {
	for _, d := range e.Diagnostics {
		if !d.Warning {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------
// Comment stripping
// ---------------------------------------------------------------------

// stripComment removes a ; comment from a line, respecting quoted strings.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			inQuote = !inQuote
		} else if c == ';' && !inQuote {
			return line[:i]
		}
	}
	return line
}

// ---------------------------------------------------------------------
// Preprocessing: macro definition and expansion
// ---------------------------------------------------------------------

type expanderState int

const (
	stateScanning expanderState = iota
	stateInsideMacro
	stateSkippingMacro // body of a rejected definition
)

type expander struct {
	macros  map[string]*Macro
	out     *Expansion
	state   expanderState
	target  *Macro
	skipped int // line of the rejected macr
}

func (x *expander) errorf(line int, format string, args ...interface{}) {
	x.out.Diagnostics = append(x.out.Diagnostics, Diagnostic{Line: line, Msg: fmt.Sprintf(format, args...)})
}

// ExpandMacros removes every macr/endmacr block from lines and replaces
// each call line with the stored body. Comments and blank lines are
// dropped. Errors do not stop the sweep; the offending definition is
// skipped.
func ExpandMacros(lines []string) *Expansion {
	x := &expander{
		macros: make(map[string]*Macro),
		out:    &Expansion{},
	}
	for i, raw := range lines {
		x.line(i+1, raw)
	}
	switch x.state {
	case stateInsideMacro:
		x.errorf(x.target.Line, "macro '%s' is not terminated by endmacr", x.target.Name)
	case stateSkippingMacro:
		x.errorf(x.skipped, "macro definition is not terminated by endmacr")
	}
	glog.V(1).Infof("preprocess: %d source lines, %d expanded, %d macros", len(lines), len(x.out.Lines), len(x.out.Macros))
	return x.out
}

func (x *expander) line(num int, raw string) {
	raw = strings.TrimRight(raw, "\r\n")
	if len(raw) > MAX_LINE_LEN {
		x.errorf(num, "line exceeds %d characters", MAX_LINE_LEN)
	}
	text := strings.TrimRight(stripComment(raw), " \t\r\v\f")
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	first, rest := cutToken(trimmed)

	switch first {
	case "macr":
		x.define(num, rest)
		return
	case "endmacr":
		x.end(num, rest)
		return
	}

	switch x.state {
	case stateSkippingMacro:
		return
	case stateInsideMacro:
		if m := x.call(first, rest); m != nil {
			x.target.Body = append(x.target.Body, m.Body...)
			return
		}
		x.target.Body = append(x.target.Body, text)
		return
	}

	if m := x.call(first, rest); m != nil {
		glog.V(2).Infof("line %d: expanding macro '%s' (%d lines)", num, m.Name, len(m.Body))
		for _, body := range m.Body {
			x.out.Lines = append(x.out.Lines, SourceLine{Num: num, Text: body})
		}
		return
	}
	x.out.Lines = append(x.out.Lines, SourceLine{Num: num, Text: text})
}

// call returns the macro invoked by a line consisting of exactly one token.
func (x *expander) call(first, rest string) *Macro {
	if rest != "" {
		return nil
	}
	return x.macros[first]
}

func (x *expander) define(num int, rest string) {
	if x.state != stateScanning {
		x.errorf(num, "nested macro definition")
		return
	}
	x.state = stateSkippingMacro
	x.skipped = num
	if rest == "" {
		x.errorf(num, "missing macro name after 'macr'")
		return
	}
	name, extra := cutToken(rest)
	if extra != "" {
		x.errorf(num, "extra text after macro name '%s': '%s'", name, extra)
		return
	}
	if err := checkLabelSyntax(name); err != nil {
		x.errorf(num, "invalid macro name: %v", err)
		return
	}
	if prev, exists := x.macros[name]; exists {
		x.errorf(num, "macro '%s' already defined on line %d", name, prev.Line)
		return
	}
	x.state = stateInsideMacro
	x.target = &Macro{Name: name, Line: num}
}

func (x *expander) end(num int, rest string) {
	if rest != "" {
		x.errorf(num, "extra text after endmacr: '%s'", rest)
	}
	switch x.state {
	case stateScanning:
		x.errorf(num, "endmacr without macr")
	case stateInsideMacro:
		x.macros[x.target.Name] = x.target
		x.out.Macros = append(x.out.Macros, x.target)
		glog.V(2).Infof("line %d: macro '%s' defined (%d lines)", num, x.target.Name, len(x.target.Body))
	}
	x.state = stateScanning
	x.target = nil
}
