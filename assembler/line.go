// line.go

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
	"errors"
	"fmt"
	"strings"
)

// LineKind is the classification of a source line.
type LineKind int

const (
	LineEmpty LineKind = iota
	LineComment
	LineCode
	LineDirective
	LineDefinition
	LineUnknown
)

// Directive identifies a dot-directive.
type Directive int

const (
	DirNone Directive = iota
	DirData
	DirString
	DirEntry
	DirExtern
	DirDefine
)

var directiveNames = map[Directive]string{
	DirData:   ".data",
	DirString: ".string",
	DirEntry:  ".entry",
	DirExtern: ".extern",
	DirDefine: ".define",
}

func (d Directive) String() string {
	return directiveNames[d]
}

// ParsedLine is the result of classifying one line. A fresh value is
// produced for every call; nothing is shared between lines or passes.
type ParsedLine struct {
	Label     string
	Kind      LineKind
	Opcode    int // -1 unless Kind == LineCode
	Directive Directive
	Operands  []Operand
	Data      []int  // .data values
	Text      string // .string contents without quotes
	Symbol    string // .entry, .extern and .define name
	Value     int    // .define value
	Warning   string
	Err       error
}

// IsStorage reports whether the line reserves words in the data segment.
func (p *ParsedLine) IsStorage() bool {
	return p.Kind == LineDirective && (p.Directive == DirData || p.Directive == DirString)
}

// CodeSize returns the number of code words an instruction line emits.
func (p *ParsedLine) CodeSize() int {
	if p.Kind != LineCode {
		return 0
	}
	return 1 + operandWords(p.Operands)
}

// DataSize returns the number of data words a storage directive emits.
func (p *ParsedLine) DataSize() int {
	if p.Kind != LineDirective {
		return 0
	}
	switch p.Directive {
	case DirData:
		return len(p.Data)
	case DirString:
		return len(p.Text) + 1
	}
	return 0
}

// ---------------------------------------------------------------------
// Classifier
// ---------------------------------------------------------------------

// Classifier turns expanded source lines into ParsedLines. It only needs
// the macro names, so both passes classify identically.
type Classifier struct {
	macros map[string]bool
}

// NewClassifier creates a classifier that rejects the given macro names as
// labels.
func NewClassifier(macroNames []string) *Classifier {
	c := &Classifier{macros: make(map[string]bool, len(macroNames))}
	for _, n := range macroNames {
		c.macros[n] = true
	}
	return c
}

type directiveHandler func(c *Classifier, p *ParsedLine, args string) error

var directiveTable = map[string]directiveHandler{
	".data":   (*Classifier).parseData,
	".string": (*Classifier).parseString,
	".entry":  (*Classifier).parseLinkage,
	".extern": (*Classifier).parseLinkage,
	".define": (*Classifier).parseDefine,
}

var directiveByName = map[string]Directive{
	".data":   DirData,
	".string": DirString,
	".entry":  DirEntry,
	".extern": DirExtern,
	".define": DirDefine,
}

// cutToken splits s at its first run of whitespace.
func cutToken(s string) (string, string) {
	i := strings.IndexAny(s, " \t\r\n\v\f")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func (c *Classifier) checkName(name string) error {
	if err := checkLabelSyntax(name); err != nil {
		return err
	}
	if c.macros[name] {
		return fmt.Errorf("'%s' is a macro name", name)
	}
	return nil
}

// Classify parses a single line.
func (c *Classifier) Classify(line string) ParsedLine {
	p := ParsedLine{Opcode: -1}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		p.Kind = LineEmpty
		return p
	}
	if trimmed[0] == ';' {
		p.Kind = LineComment
		return p
	}

	first, rest := cutToken(trimmed)
	if colon := strings.IndexByte(first, ':'); colon >= 0 {
		if colon != len(first)-1 {
			return failed(p, fmt.Errorf("invalid label: '%s'", first))
		}
		label := first[:colon]
		if err := c.checkName(label); err != nil {
			return failed(p, fmt.Errorf("invalid label: %v", err))
		}
		p.Label = label
		if rest == "" {
			return failed(p, fmt.Errorf("label '%s' is not followed by an instruction or directive", label))
		}
		first, rest = cutToken(rest)
	}

	if op, ok := opcodeByName[first]; ok {
		p.Kind = LineCode
		p.Opcode = op.code
		operands, err := analyzeOperands(op, rest)
		if err != nil {
			return failed(p, err)
		}
		p.Operands = operands
		return p
	}

	if handler, ok := directiveTable[first]; ok {
		p.Kind = LineDirective
		p.Directive = directiveByName[first]
		if p.Directive == DirDefine {
			p.Kind = LineDefinition
		}
		if rest == "" {
			return failed(p, fmt.Errorf("missing operand for %s", first))
		}
		if err := handler(c, &p, rest); err != nil {
			return failed(p, err)
		}
		if p.Label != "" && !p.IsStorage() {
			p.Warning = fmt.Sprintf("label '%s' before %s is ignored", p.Label, first)
			p.Label = ""
		}
		return p
	}

	return failed(p, fmt.Errorf("unrecognized instruction or directive: '%s'", first))
}

func failed(p ParsedLine, err error) ParsedLine {
	if p.Kind == LineEmpty {
		p.Kind = LineUnknown
	}
	p.Err = err
	return p
}

// ---------------------------------------------------------------------
// Directive handlers
// ---------------------------------------------------------------------

func (c *Classifier) parseData(p *ParsedLine, args string) error {
	items := strings.Split(args, ",")
	for i, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			switch {
			case i == 0:
				return errors.New(".data list starts with a comma")
			case i == len(items)-1:
				return errors.New(".data list ends with a comma")
			default:
				return errors.New("two commas in a row in .data list")
			}
		}
		v, err := parseNumber(item, DATA_MIN, DATA_MAX)
		if errors.Is(err, errOutOfRange) {
			return fmt.Errorf("data value out of range (%d to %d): '%s'", DATA_MIN, DATA_MAX, item)
		}
		if err != nil {
			return fmt.Errorf("invalid data value: '%s'", item)
		}
		p.Data = append(p.Data, v)
	}
	return nil
}

func (c *Classifier) parseString(p *ParsedLine, args string) error {
	if args[0] != '"' {
		return errors.New(".string operand must start with '\"'")
	}
	end := strings.LastIndexByte(args, '"')
	if end == 0 {
		return errors.New(".string operand is not terminated")
	}
	if extra := strings.TrimSpace(args[end+1:]); extra != "" {
		return fmt.Errorf("extra text after string: '%s'", extra)
	}
	text := args[1:end]
	for i := 0; i < len(text); i++ {
		if text[i] < 0x20 || text[i] > 0x7E {
			return fmt.Errorf("non-printable character in string at offset %d", i)
		}
	}
	p.Text = text
	return nil
}

func (c *Classifier) parseLinkage(p *ParsedLine, args string) error {
	name, extra := cutToken(args)
	if extra != "" {
		return fmt.Errorf("extra text after %s operand: '%s'", p.Directive, extra)
	}
	if err := c.checkName(name); err != nil {
		return fmt.Errorf("invalid %s operand: %v", p.Directive, err)
	}
	p.Symbol = name
	return nil
}

func (c *Classifier) parseDefine(p *ParsedLine, args string) error {
	eq := strings.IndexByte(args, '=')
	if eq < 0 {
		return errors.New("'=' not found in .define")
	}
	name := strings.TrimSpace(args[:eq])
	if err := c.checkName(name); err != nil {
		return fmt.Errorf("invalid .define name: %v", err)
	}
	valueText, extra := cutToken(strings.TrimSpace(args[eq+1:]))
	if extra != "" {
		return fmt.Errorf("extra text after .define value: '%s'", extra)
	}
	v, err := parseNumber(valueText, IMMEDIATE_MIN, IMMEDIATE_MAX)
	if errors.Is(err, errOutOfRange) {
		return fmt.Errorf(".define value out of range (%d to %d): '%s'", IMMEDIATE_MIN, IMMEDIATE_MAX, valueText)
	}
	if err != nil {
		return fmt.Errorf("invalid .define value: '%s'", valueText)
	}
	p.Symbol = name
	p.Value = v
	return nil
}
