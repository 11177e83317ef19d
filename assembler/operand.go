// operand.go

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
	"strconv"
	"strings"
)

// Operand is a single instruction operand after addressing-mode analysis.
type Operand struct {
	Mode     Mode
	Value    int    // immediate literal
	Const    string // immediate given as a .define name
	Label    string // direct label
	Register int    // register number for both register modes
}

func (o Operand) String() string {
	switch o.Mode {
	case ModeImmediate:
		if o.Const != "" {
			return "#" + o.Const
		}
		return fmt.Sprintf("#%d", o.Value)
	case ModeDirect:
		return o.Label
	case ModeIndirectRegister:
		return fmt.Sprintf("*r%d", o.Register)
	case ModeDirectRegister:
		return fmt.Sprintf("r%d", o.Register)
	}
	return ""
}

// ---------------------------------------------------------------------
// Lexical helpers
// ---------------------------------------------------------------------

var (
	errInvalidNumber = errors.New("invalid number")
	errOutOfRange    = errors.New("out of range")
)

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

// checkLabelSyntax validates a symbol name: a letter followed by letters or
// digits, at most 31 characters, not a reserved word.
func checkLabelSyntax(name string) error {
	if name == "" {
		return errors.New("empty label")
	}
	if !isLetter(name[0]) {
		return fmt.Errorf("label '%s' must start with a letter", name)
	}
	for i := 1; i < len(name); i++ {
		if !isLetter(name[i]) && !isDigit(name[i]) {
			return fmt.Errorf("label '%s' contains invalid character '%c'", name, name[i])
		}
	}
	if len(name) > MAX_LABEL_LEN {
		return fmt.Errorf("label '%s' is longer than %d characters", name, MAX_LABEL_LEN)
	}
	if IsReserved(name) {
		return fmt.Errorf("'%s' is a reserved word", name)
	}
	return nil
}

// IsValidLabel reports whether name may be used as a label.
func IsValidLabel(name string) bool {
	return checkLabelSyntax(name) == nil
}

// parseNumber parses a signed decimal integer and checks it against
// [min, max].
func parseNumber(s string, min, max int) (int, error) {
	if s == "" {
		return 0, errInvalidNumber
	}
	digits := s
	if digits[0] == '+' || digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return 0, errInvalidNumber
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return 0, errInvalidNumber
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// Only range errors remain once the digits are checked.
		return 0, errOutOfRange
	}
	if v < min || v > max {
		return v, errOutOfRange
	}
	return v, nil
}

// parseRegister recognises r0..r7.
func parseRegister(s string) (int, bool) {
	if len(s) != 2 || s[0] != 'r' || s[1] < '0' || s[1] > '7' {
		return 0, false
	}
	return int(s[1] - '0'), true
}

// splitOperands splits an operand list on commas. Operand text never
// contains a comma.
func splitOperands(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ---------------------------------------------------------------------
// Operand analysis
// ---------------------------------------------------------------------

// parseOperand determines the addressing mode of one operand.
func parseOperand(text string) (Operand, error) {
	if text == "" {
		return Operand{}, errors.New("missing operand")
	}
	if i := strings.IndexFunc(text, func(r rune) bool { return r < 128 && isSpace(byte(r)) }); i >= 0 {
		return Operand{}, fmt.Errorf("extra text after operand '%s': '%s'", text[:i], strings.TrimSpace(text[i:]))
	}

	switch {
	case text[0] == '#':
		lit := text[1:]
		if lit != "" && isLetter(lit[0]) {
			if err := checkLabelSyntax(lit); err != nil {
				return Operand{}, fmt.Errorf("invalid immediate value '%s': %v", lit, err)
			}
			return Operand{Mode: ModeImmediate, Const: lit}, nil
		}
		v, err := parseNumber(lit, IMMEDIATE_MIN, IMMEDIATE_MAX)
		if errors.Is(err, errOutOfRange) {
			return Operand{}, fmt.Errorf("immediate value out of range (%d to %d): '%s'", IMMEDIATE_MIN, IMMEDIATE_MAX, lit)
		}
		if err != nil {
			return Operand{}, fmt.Errorf("invalid immediate value: '%s'", lit)
		}
		return Operand{Mode: ModeImmediate, Value: v}, nil

	case text[0] == '*':
		r, ok := parseRegister(text[1:])
		if !ok {
			return Operand{}, fmt.Errorf("invalid indirect register: '%s'", text)
		}
		return Operand{Mode: ModeIndirectRegister, Register: r}, nil
	}

	if r, ok := parseRegister(text); ok {
		return Operand{Mode: ModeDirectRegister, Register: r}, nil
	}
	if err := checkLabelSyntax(text); err != nil {
		return Operand{}, fmt.Errorf("invalid operand: %v", err)
	}
	return Operand{Mode: ModeDirect, Label: text}, nil
}

// analyzeOperands splits and classifies an instruction's operand text and
// validates count and addressing modes. The first problem found is
// returned.
func analyzeOperands(op *opcodeInfo, text string) ([]Operand, error) {
	parts := splitOperands(text)
	want := op.operandCount()
	if len(parts) < want {
		if len(parts) == 0 {
			return nil, fmt.Errorf("'%s' requires %d operand(s)", op.name, want)
		}
		return nil, fmt.Errorf("'%s' requires %d operands, found %d", op.name, want, len(parts))
	}
	if len(parts) > want {
		if want == 0 {
			return nil, fmt.Errorf("'%s' takes no operands", op.name)
		}
		return nil, fmt.Errorf("'%s' takes %d operand(s), found %d", op.name, want, len(parts))
	}

	operands := make([]Operand, 0, want)
	for i, p := range parts {
		o, err := parseOperand(p)
		if err != nil {
			return nil, err
		}
		allowed, slot := op.dst, "destination"
		if want == 2 && i == 0 {
			allowed, slot = op.src, "source"
		}
		if !allowed.has(o.Mode) {
			return nil, fmt.Errorf("%s addressing not allowed for %s operand of '%s'", o.Mode, slot, op.name)
		}
		operands = append(operands, o)
	}
	return operands, nil
}

// operandWords returns the number of extra words the operands occupy. Two
// register operands share one word.
func operandWords(operands []Operand) int {
	if len(operands) == 2 && operands[0].Mode.isRegister() && operands[1].Mode.isRegister() {
		return 1
	}
	return len(operands)
}
