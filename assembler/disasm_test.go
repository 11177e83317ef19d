// disasm_test.go - asm15 Disassembler Tests

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

// TestAsm15_Dis_RoundTrip checks that every legal instruction word decodes
// back to its opcode and addressing modes.
func TestAsm15_Dis_RoundTrip(t *testing.T) {
	all := []Mode{ModeImmediate, ModeDirect, ModeIndirectRegister, ModeDirectRegister}
	for _, op := range opcodeTable {
		srcs := []Mode{ModeNone}
		dsts := []Mode{ModeNone}
		switch op.operandCount() {
		case 2:
			srcs, dsts = nil, nil
			for _, m := range all {
				if op.src.has(m) {
					srcs = append(srcs, m)
				}
				if op.dst.has(m) {
					dsts = append(dsts, m)
				}
			}
		case 1:
			dsts = nil
			for _, m := range all {
				if op.dst.has(m) {
					dsts = append(dsts, m)
				}
			}
		}
		for _, s := range srcs {
			for _, d := range dsts {
				w := encodeInstruction(op.code, s, d)
				got, ok := DecodeWord(w, BASE_ADDR)
				if !ok {
					t.Errorf("%s %s,%s: word %s does not decode", op.name, s, d, w.Octal())
					continue
				}
				if got.Opcode != op.code || got.Src != s || got.Dst != d || got.ARE != ARE_ABSOLUTE {
					t.Errorf("%s %s,%s: decoded %+v", op.name, s, d, got)
				}
			}
		}
	}
}

func TestAsm15_Dis_InvalidWords(t *testing.T) {
	tests := []struct {
		name string
		w    Word
	}{
		{"external tag", ARE_EXTERNAL},
		{"relocatable tag", encodeAddress(100)},
		{"two source modes", Word(3<<srcModeShift) | 1<<dstModeShift | ARE_ABSOLUTE},
		{"source without destination", Word(1<<srcModeShift) | ARE_ABSOLUTE},
	}
	for _, tt := range tests {
		if _, ok := DecodeWord(tt.w, BASE_ADDR); ok {
			t.Errorf("%s: %s decoded as an instruction", tt.name, tt.w.Octal())
		}
	}
}

func TestAsm15_Dis_Values(t *testing.T) {
	if v := DecodeValue(encodeImmediate(-2048)); v != -2048 {
		t.Errorf("DecodeValue(-2048) = %d", v)
	}
	if v := DecodeValue(encodeImmediate(2047)); v != 2047 {
		t.Errorf("DecodeValue(2047) = %d", v)
	}
	if a := DecodeAddress(encodeAddress(4000)); a != 4000 {
		t.Errorf("DecodeAddress(4000) = %d", a)
	}
	if v := DataValue(encodeData(-8192)); v != -8192 {
		t.Errorf("DataValue(-8192) = %d", v)
	}
	src, dst := DecodeRegisters(encodeRegisters(5, 6))
	if src != 5 || dst != 6 {
		t.Errorf("DecodeRegisters = %d, %d", src, dst)
	}
}

func TestAsm15_Dis_Listing(t *testing.T) {
	asm := NewAssembler("test.as")
	img, err := asm.Assemble(`.extern EXT
LEN: .data 1,-2
MAIN: mov #1, LEN
mov r1, *r2
jsr EXT
S: .string "ok"
stop
`)
	if err != nil {
		t.Fatal(err)
	}
	lines := img.Listing(NamesFor(asm.Symbols(), img))
	text := strings.Join(lines, "\n")

	for _, want := range []string{
		"0100: 00224    mov #1, LEN",
		"0103: 02044    mov r1, *r2",
		"0105: 64024    jsr EXT",
		"0106: 00001",
		"0107: 74004    stop",
		"0108: 00001    .data 1  ; LEN",
		"0109: 77776    .data -2",
		"0110: 00157    .data 111  ; S",
		"0111: 00153    .data 107  ; 'k'",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("listing missing %q\n%s", want, text)
		}
	}
	if len(lines) != len(img.Code)+len(img.Data) {
		t.Errorf("got %d lines for %d words", len(lines), len(img.Code)+len(img.Data))
	}
}

func TestAsm15_Dis_NoNames(t *testing.T) {
	img := assembleString(t, "jmp L\nL: prn #-5\n")
	lines := Disassemble(img.Code, img.Data, nil)
	if !strings.Contains(lines[0], "jmp 0102") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[2], "prn #-5") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestAsm15_Dis_Garbage(t *testing.T) {
	lines := Disassemble([]Word{ARE_EXTERNAL, encodeInstruction(OP_RTS, ModeNone, ModeNone)}, nil, nil)
	if len(lines) != 2 || !strings.Contains(lines[0], "not an instruction") || !strings.Contains(lines[1], "rts") {
		t.Errorf("lines = %q", lines)
	}
}
