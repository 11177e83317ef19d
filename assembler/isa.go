// isa.go

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

asm15 Word Encoding (15 bits, bit 14 most significant):

Instruction word:
  Bits 11-14: Opcode (4 bits)
  Bits 7-10:  Source addressing mode, one-hot (bit 7 + mode)
  Bits 3-6:   Destination addressing mode, one-hot (bit 3 + mode)
  Bits 0-2:   ARE (A=4, R=2, E=1)

Operand words:
  Immediate:        value << 3 | A
  Direct, internal: address << 3 | R
  Direct, external: E
  Register(s):      src << 6 | dst << 3 | A   (two registers share a word)

Addressing modes:
  0 immediate         #5, #SIZE
  1 direct            LABEL
  2 indirect register *r3
  3 direct register   r3

Memory: code from address 100, data follows code, 4096 words total.
*/

package assembler

import "fmt"

// ---------------------------------------------------------------------
// Opcode constants
// ---------------------------------------------------------------------
const (
	OP_MOV  = 0
	OP_CMP  = 1
	OP_ADD  = 2
	OP_SUB  = 3
	OP_LEA  = 4
	OP_CLR  = 5
	OP_NOT  = 6
	OP_INC  = 7
	OP_DEC  = 8
	OP_JMP  = 9
	OP_BNE  = 10
	OP_RED  = 11
	OP_PRN  = 12
	OP_JSR  = 13
	OP_RTS  = 14
	OP_STOP = 15
)

// ARE field
const (
	ARE_EXTERNAL    Word = 1
	ARE_RELOCATABLE Word = 2
	ARE_ABSOLUTE    Word = 4
)

// Word layout
const (
	WORD_BITS = 15
	WORD_MASK = 1<<WORD_BITS - 1

	opcodeShift  = 11
	srcModeShift = 7
	dstModeShift = 3
	srcRegShift  = 6
	dstRegShift  = 3
	valueShift   = 3
)

// Memory map
const (
	BASE_ADDR   = 100
	MEMORY_SIZE = 4096
)

// Literal ranges
const (
	IMMEDIATE_MIN = -2048
	IMMEDIATE_MAX = 2047
	DATA_MIN      = -8192
	DATA_MAX      = 8191
)

// Source limits
const (
	MAX_LABEL_LEN = 31
	MAX_LINE_LEN  = 80
)

// Word is a single 15-bit machine word.
type Word uint16

// Octal renders the word as five base-8 digits.
func (w Word) Octal() string {
	return fmt.Sprintf("%05o", uint16(w)&WORD_MASK)
}

// Mode is an operand addressing mode. The numeric value selects the
// one-hot bit in the instruction word.
type Mode int

const (
	ModeNone             Mode = -1
	ModeImmediate        Mode = 0
	ModeDirect           Mode = 1
	ModeIndirectRegister Mode = 2
	ModeDirectRegister   Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeImmediate:
		return "immediate"
	case ModeDirect:
		return "direct"
	case ModeIndirectRegister:
		return "indirect register"
	case ModeDirectRegister:
		return "direct register"
	}
	return "none"
}

// isRegister reports whether the mode carries a register number.
func (m Mode) isRegister() bool {
	return m == ModeDirectRegister || m == ModeIndirectRegister
}

// modeSet is a bitmask of permitted addressing modes.
type modeSet uint8

func modes(ms ...Mode) modeSet {
	var s modeSet
	for _, m := range ms {
		s |= 1 << uint(m)
	}
	return s
}

func (s modeSet) has(m Mode) bool {
	return m >= 0 && s&(1<<uint(m)) != 0
}

// ---------------------------------------------------------------------
// Opcode table
// ---------------------------------------------------------------------

// opcodeInfo describes an instruction's operands. A zero src set means the
// instruction takes no source operand; a zero dst set means no operands.
type opcodeInfo struct {
	name string
	code int
	src  modeSet
	dst  modeSet
}

func (o *opcodeInfo) operandCount() int {
	switch {
	case o.src != 0:
		return 2
	case o.dst != 0:
		return 1
	}
	return 0
}

var (
	allModes   = modes(ModeImmediate, ModeDirect, ModeIndirectRegister, ModeDirectRegister)
	writeModes = modes(ModeDirect, ModeIndirectRegister, ModeDirectRegister)
	jumpModes  = modes(ModeDirect, ModeIndirectRegister)
)

var opcodeTable = [16]opcodeInfo{
	{"mov", OP_MOV, allModes, writeModes},
	{"cmp", OP_CMP, allModes, allModes},
	{"add", OP_ADD, allModes, writeModes},
	{"sub", OP_SUB, allModes, writeModes},
	{"lea", OP_LEA, modes(ModeDirect), writeModes},
	{"clr", OP_CLR, 0, writeModes},
	{"not", OP_NOT, 0, writeModes},
	{"inc", OP_INC, 0, writeModes},
	{"dec", OP_DEC, 0, writeModes},
	{"jmp", OP_JMP, 0, jumpModes},
	{"bne", OP_BNE, 0, jumpModes},
	{"red", OP_RED, 0, writeModes},
	{"prn", OP_PRN, 0, allModes},
	{"jsr", OP_JSR, 0, jumpModes},
	{"rts", OP_RTS, 0, 0},
	{"stop", OP_STOP, 0, 0},
}

var opcodeByName = func() map[string]*opcodeInfo {
	m := make(map[string]*opcodeInfo, len(opcodeTable))
	for i := range opcodeTable {
		m[opcodeTable[i].name] = &opcodeTable[i]
	}
	return m
}()

// OpcodeName returns the mnemonic for an opcode number.
func OpcodeName(op int) string {
	if op < 0 || op >= len(opcodeTable) {
		return fmt.Sprintf("op%d", op)
	}
	return opcodeTable[op].name
}

// ---------------------------------------------------------------------
// Reserved words
// ---------------------------------------------------------------------

var reservedWords = func() map[string]bool {
	m := map[string]bool{
		".data": true, ".string": true, ".entry": true, ".extern": true,
		".define": true, "macr": true, "endmacr": true,
	}
	for _, o := range opcodeTable {
		m[o.name] = true
	}
	for r := 0; r < 8; r++ {
		m[fmt.Sprintf("r%d", r)] = true
	}
	return m
}()

// IsReserved reports whether name is a mnemonic, directive, macro keyword
// or register name.
func IsReserved(name string) bool {
	return reservedWords[name]
}

// ---------------------------------------------------------------------
// Encoding helpers
// ---------------------------------------------------------------------

// encodeInstruction builds the first word of an instruction.
func encodeInstruction(opcode int, src, dst Mode) Word {
	w := Word(opcode) << opcodeShift
	if src != ModeNone {
		w |= 1 << (srcModeShift + uint(src))
	}
	if dst != ModeNone {
		w |= 1 << (dstModeShift + uint(dst))
	}
	return (w | ARE_ABSOLUTE) & WORD_MASK
}

func encodeImmediate(v int) Word {
	return (Word(v<<valueShift) | ARE_ABSOLUTE) & WORD_MASK
}

func encodeAddress(addr int) Word {
	return (Word(addr<<valueShift) | ARE_RELOCATABLE) & WORD_MASK
}

func encodeExternal() Word {
	return ARE_EXTERNAL
}

// encodeRegisters packs register numbers into a shared operand word. Pass
// -1 for an absent slot.
func encodeRegisters(src, dst int) Word {
	w := ARE_ABSOLUTE
	if src >= 0 {
		w |= Word(src) << srcRegShift
	}
	if dst >= 0 {
		w |= Word(dst) << dstRegShift
	}
	return w & WORD_MASK
}

func encodeData(v int) Word {
	return Word(v) & WORD_MASK
}
