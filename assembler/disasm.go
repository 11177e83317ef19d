// disasm.go - asm15 Disassembler

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
)

// ---------------------------------------------------------------------
// DecodedInstruction holds the decoded fields of an instruction word
// ---------------------------------------------------------------------

type DecodedInstruction struct {
	Addr   int
	Raw    Word
	Opcode int
	Src    Mode
	Dst    Mode
	ARE    Word
}

// decodeMode turns a one-hot mode field back into a Mode. An empty field
// is ModeNone; more than one bit set is invalid.
func decodeMode(field Word) (Mode, bool) {
	switch field & 0xF {
	case 0:
		return ModeNone, true
	case 1:
		return ModeImmediate, true
	case 2:
		return ModeDirect, true
	case 4:
		return ModeIndirectRegister, true
	case 8:
		return ModeDirectRegister, true
	}
	return ModeNone, false
}

// DecodeWord decodes an instruction word at the given address. ok is false
// when the word cannot be an instruction word.
func DecodeWord(w Word, addr int) (DecodedInstruction, bool) {
	w &= WORD_MASK
	d := DecodedInstruction{
		Addr:   addr,
		Raw:    w,
		Opcode: int(w >> opcodeShift),
		ARE:    w & 7,
	}
	src, okSrc := decodeMode(w >> srcModeShift)
	dst, okDst := decodeMode(w >> dstModeShift)
	d.Src, d.Dst = src, dst
	if !okSrc || !okDst || d.ARE != ARE_ABSOLUTE {
		return d, false
	}
	if src != ModeNone && dst == ModeNone {
		return d, false
	}
	return d, true
}

// DecodeRegisters extracts the source and destination register numbers of
// a register operand word.
func DecodeRegisters(w Word) (src, dst int) {
	return int(w>>srcRegShift) & 7, int(w>>dstRegShift) & 7
}

// DecodeValue extracts the signed 12-bit value or address of an operand
// word.
func DecodeValue(w Word) int {
	v := int(w&WORD_MASK) >> valueShift
	if v&0x800 != 0 {
		v -= 0x1000
	}
	return v
}

// DecodeAddress extracts the unsigned address of a relocatable operand
// word.
func DecodeAddress(w Word) int {
	return int(w&WORD_MASK) >> valueShift
}

// DataValue interprets a data word as a signed 15-bit number.
func DataValue(w Word) int {
	v := int(w & WORD_MASK)
	if v&0x4000 != 0 {
		v -= 0x8000
	}
	return v
}

// operandWordCount returns how many words follow an instruction word.
func (d DecodedInstruction) operandWordCount() int {
	n := 0
	if d.Src != ModeNone {
		n++
	}
	if d.Dst != ModeNone {
		n++
	}
	if d.Src.isRegister() && d.Dst.isRegister() {
		n = 1
	}
	return n
}

// ---------------------------------------------------------------------
// Operand formatting
// ---------------------------------------------------------------------

// Names maps addresses to symbol names for a listing. Labels is keyed by
// the symbol's address, Externals by the address of the referencing word.
type Names struct {
	Labels    map[int]string
	Externals map[int]string
}

func formatOperand(m Mode, w Word, isSource bool, addr int, names *Names) string {
	switch m {
	case ModeImmediate:
		return fmt.Sprintf("#%d", DecodeValue(w))
	case ModeDirect:
		if w&7 == ARE_EXTERNAL {
			if names != nil && names.Externals[addr] != "" {
				return names.Externals[addr]
			}
			return "<extern>"
		}
		target := DecodeAddress(w)
		if names != nil && names.Labels[target] != "" {
			return names.Labels[target]
		}
		return fmt.Sprintf("%04d", target)
	case ModeDirectRegister, ModeIndirectRegister:
		src, dst := DecodeRegisters(w)
		r := dst
		if isSource {
			r = src
		}
		if m == ModeIndirectRegister {
			return fmt.Sprintf("*r%d", r)
		}
		return fmt.Sprintf("r%d", r)
	}
	return "?"
}

// FormatInstruction renders an instruction and its operand words.
func FormatInstruction(d DecodedInstruction, operands []Word, names *Names) string {
	name := OpcodeName(d.Opcode)
	var parts []string
	switch {
	case d.Src.isRegister() && d.Dst.isRegister() && len(operands) == 1:
		parts = append(parts,
			formatOperand(d.Src, operands[0], true, d.Addr+1, names),
			formatOperand(d.Dst, operands[0], false, d.Addr+1, names))
	default:
		i := 0
		if d.Src != ModeNone && i < len(operands) {
			parts = append(parts, formatOperand(d.Src, operands[i], true, d.Addr+1+i, names))
			i++
		}
		if d.Dst != ModeNone && i < len(operands) {
			parts = append(parts, formatOperand(d.Dst, operands[i], false, d.Addr+1+i, names))
		}
	}
	if len(parts) == 0 {
		return name
	}
	return name + " " + strings.Join(parts, ", ")
}

// ---------------------------------------------------------------------
// Disassemble processes a code and data segment and returns formatted
// lines, one per word.
// ---------------------------------------------------------------------

func Disassemble(code, data []Word, names *Names) []string {
	var lines []string
	i := 0
	for i < len(code) {
		addr := BASE_ADDR + i
		d, ok := DecodeWord(code[i], addr)
		if !ok {
			lines = append(lines, fmt.Sprintf("%04d: %s    .word %s  ; not an instruction", addr, code[i].Octal(), code[i].Octal()))
			i++
			continue
		}
		n := d.operandWordCount()
		if i+1+n > len(code) {
			n = len(code) - i - 1
		}
		operands := code[i+1 : i+1+n]
		lines = append(lines, fmt.Sprintf("%04d: %s    %s", addr, code[i].Octal(), FormatInstruction(d, operands, names)))
		for j, w := range operands {
			lines = append(lines, fmt.Sprintf("%04d: %s", addr+1+j, w.Octal()))
		}
		i += 1 + n
	}

	dataAddr := BASE_ADDR + len(code)
	for j, w := range data {
		v := DataValue(w)
		line := fmt.Sprintf("%04d: %s    .data %d", dataAddr+j, w.Octal(), v)
		if names != nil && names.Labels[dataAddr+j] != "" {
			line += "  ; " + names.Labels[dataAddr+j]
		} else if v >= 0x20 && v <= 0x7E {
			line += fmt.Sprintf("  ; '%c'", rune(v))
		}
		lines = append(lines, line)
	}
	return lines
}

// NamesFor builds listing names from an assembled file's symbol table and
// image.
func NamesFor(t *SymbolTable, im *Image) *Names {
	n := &Names{Labels: make(map[int]string), Externals: make(map[int]string)}
	for _, s := range t.Symbols() {
		if s.Kind.IsDefined() {
			if _, taken := n.Labels[s.Address]; !taken {
				n.Labels[s.Address] = s.Name
			}
		}
	}
	for _, ref := range im.ExternalRefs() {
		n.Externals[ref.Address] = ref.Name
	}
	return n
}

// Listing returns the disassembly of the image.
func (im *Image) Listing(names *Names) []string {
	return Disassemble(im.Code, im.Data, names)
}
