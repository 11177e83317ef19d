// line_test.go

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
	"strings"
	"testing"
)

func TestAsm15_ParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		min     int
		max     int
		want    int
		wantErr error
	}{
		{"2047", IMMEDIATE_MIN, IMMEDIATE_MAX, 2047, nil},
		{"2048", IMMEDIATE_MIN, IMMEDIATE_MAX, 2048, errOutOfRange},
		{"-2048", IMMEDIATE_MIN, IMMEDIATE_MAX, -2048, nil},
		{"-2049", IMMEDIATE_MIN, IMMEDIATE_MAX, -2049, errOutOfRange},
		{"+12", IMMEDIATE_MIN, IMMEDIATE_MAX, 12, nil},
		{"8191", DATA_MIN, DATA_MAX, 8191, nil},
		{"8192", DATA_MIN, DATA_MAX, 8192, errOutOfRange},
		{"-8192", DATA_MIN, DATA_MAX, -8192, nil},
		{"99999999999999999999", DATA_MIN, DATA_MAX, 0, errOutOfRange},
		{"", DATA_MIN, DATA_MAX, 0, errInvalidNumber},
		{"-", DATA_MIN, DATA_MAX, 0, errInvalidNumber},
		{"1.5", DATA_MIN, DATA_MAX, 0, errInvalidNumber},
		{"0x10", DATA_MIN, DATA_MAX, 0, errInvalidNumber},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in, tt.min, tt.max)
		if err != tt.wantErr {
			t.Errorf("parseNumber(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestAsm15_LabelValidity(t *testing.T) {
	valid := []string{"A", "loop1", "MAIN", strings.Repeat("x", 31), "R1", "endm"}
	invalid := []string{"", "1abc", "a_b", "a-b", strings.Repeat("x", 32), "mov", "r0", "macr", ".data"}
	for _, s := range valid {
		if !IsValidLabel(s) {
			t.Errorf("%q should be a valid label: %v", s, checkLabelSyntax(s))
		}
	}
	for _, s := range invalid {
		if IsValidLabel(s) {
			t.Errorf("%q should be an invalid label", s)
		}
	}
}

func TestAsm15_ParseOperand(t *testing.T) {
	tests := []struct {
		in   string
		want Operand
	}{
		{"#5", Operand{Mode: ModeImmediate, Value: 5}},
		{"#-3", Operand{Mode: ModeImmediate, Value: -3}},
		{"#SIZE", Operand{Mode: ModeImmediate, Const: "SIZE"}},
		{"LOOP", Operand{Mode: ModeDirect, Label: "LOOP"}},
		{"*r3", Operand{Mode: ModeIndirectRegister, Register: 3}},
		{"r7", Operand{Mode: ModeDirectRegister, Register: 7}},
		{"r8", Operand{Mode: ModeDirect, Label: "r8"}},
	}
	for _, tt := range tests {
		got, err := parseOperand(tt.in)
		if err != nil {
			t.Errorf("parseOperand(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseOperand(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}

	for _, bad := range []string{"", "#", "#x-y", "*r9", "*LOOP", "1abc", "a b"} {
		if _, err := parseOperand(bad); err == nil {
			t.Errorf("parseOperand(%q) should fail", bad)
		}
	}
}

func TestAsm15_OperandWords(t *testing.T) {
	cls := NewClassifier(nil)
	tests := []struct {
		line string
		size int
	}{
		{"stop", 1},
		{"inc r1", 2},
		{"mov r1, r2", 2},
		{"mov *r1, r2", 2},
		{"mov #1, r2", 3},
		{"mov r1, X", 3},
		{"cmp X, Y", 3},
	}
	for _, tt := range tests {
		p := cls.Classify(tt.line)
		if p.Err != nil {
			t.Fatalf("%q: %v", tt.line, p.Err)
		}
		if p.CodeSize() != tt.size {
			t.Errorf("%q: CodeSize = %d, want %d", tt.line, p.CodeSize(), tt.size)
		}
	}
}

func TestAsm15_Classify(t *testing.T) {
	cls := NewClassifier([]string{"mymacro"})

	tests := []struct {
		line      string
		kind      LineKind
		label     string
		directive Directive
		dataSize  int
	}{
		{"", LineEmpty, "", DirNone, 0},
		{"   \t", LineEmpty, "", DirNone, 0},
		{"; note", LineComment, "", DirNone, 0},
		{"  ; note", LineComment, "", DirNone, 0},
		{"MAIN: mov #1, r2", LineCode, "MAIN", DirNone, 0},
		{"\tstop", LineCode, "", DirNone, 0},
		{"LEN: .data 1, -2 ,3", LineDirective, "LEN", DirData, 3},
		{"S: .string \"abc\"", LineDirective, "S", DirString, 4},
		{".string \"\"", LineDirective, "", DirString, 1},
		{".entry MAIN", LineDirective, "", DirEntry, 0},
		{"X: .extern EXT", LineDirective, "", DirExtern, 0},
		{".define SIZE = 8", LineDefinition, "", DirDefine, 0},
		{"bogus", LineUnknown, "", DirNone, 0},
	}
	for _, tt := range tests {
		p := cls.Classify(tt.line)
		if p.Kind != tt.kind {
			t.Errorf("%q: kind = %d, want %d (err %v)", tt.line, p.Kind, tt.kind, p.Err)
			continue
		}
		if p.Label != tt.label {
			t.Errorf("%q: label = %q, want %q", tt.line, p.Label, tt.label)
		}
		if p.Directive != tt.directive {
			t.Errorf("%q: directive = %s, want %s", tt.line, p.Directive, tt.directive)
		}
		if p.DataSize() != tt.dataSize {
			t.Errorf("%q: DataSize = %d, want %d", tt.line, p.DataSize(), tt.dataSize)
		}
	}
}

func TestAsm15_ClassifyDetails(t *testing.T) {
	cls := NewClassifier([]string{"mymacro"})

	p := cls.Classify("LEN: .data 1, -2 ,3")
	if len(p.Data) != 3 || p.Data[1] != -2 {
		t.Errorf("data = %v", p.Data)
	}

	p = cls.Classify(".define SIZE = -8")
	if p.Symbol != "SIZE" || p.Value != -8 {
		t.Errorf("define = %s %d", p.Symbol, p.Value)
	}

	p = cls.Classify("X: .extern EXT")
	if p.Symbol != "EXT" || p.Warning == "" {
		t.Errorf("extern = %q, warning %q", p.Symbol, p.Warning)
	}

	p = cls.Classify(".entry mymacro")
	if p.Err == nil || !strings.Contains(p.Err.Error(), "macro name") {
		t.Errorf(".entry of macro name: %v", p.Err)
	}

	p = cls.Classify("S: .string \"a \"b\" c\"")
	if p.Err != nil || p.Text != "a \"b\" c" {
		t.Errorf("string with inner quotes = %q, %v", p.Text, p.Err)
	}

	first := cls.Classify("mov #1, r2")
	second := cls.Classify("mov #1, r2")
	first.Operands[0].Value = 99
	if second.Operands[0].Value != 1 {
		t.Error("classifier results share state")
	}
}
