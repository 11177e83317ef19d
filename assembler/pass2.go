// pass2.go

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

import "github.com/golang/glog"

// ---------------------------------------------------------------------
// Pass 2: code generation
// ---------------------------------------------------------------------

func (a *Assembler) secondPass(cls *Classifier, lines []SourceLine) {
	glog.V(1).Infof("%s: pass 2", a.file)
	a.code, a.data = nil, nil

	for _, l := range lines {
		p := cls.Classify(l.Text)
		if p.Err != nil {
			// Already reported by pass 1.
			continue
		}
		switch {
		case p.Kind == LineCode:
			a.assembleInstruction(&p, l.Num)
		case p.IsStorage():
			a.assembleStorage(&p)
		}
	}

	if a.errors == 0 && BASE_ADDR+len(a.code) != a.ic {
		a.addError(0, "internal error: pass 2 emitted %d code words, pass 1 counted %d",
			len(a.code), a.ic-BASE_ADDR)
	}
	if a.errors == 0 && len(a.data) != a.dc {
		a.addError(0, "internal error: pass 2 emitted %d data words, pass 1 counted %d",
			len(a.data), a.dc)
	}
}

// assembleInstruction emits the instruction word followed by its operand
// words.
func (a *Assembler) assembleInstruction(p *ParsedLine, line int) {
	start := len(a.code)
	ops := p.Operands

	src, dst := ModeNone, ModeNone
	switch len(ops) {
	case 1:
		dst = ops[0].Mode
	case 2:
		src, dst = ops[0].Mode, ops[1].Mode
	}
	a.code = append(a.code, encodeInstruction(p.Opcode, src, dst))

	if len(ops) == 2 && src.isRegister() && dst.isRegister() {
		a.code = append(a.code, encodeRegisters(ops[0].Register, ops[1].Register))
	} else {
		for i, o := range ops {
			isSource := len(ops) == 2 && i == 0
			a.code = append(a.code, a.operandWord(o, isSource, line))
		}
	}

	if emitted := len(a.code) - start; emitted != p.CodeSize() {
		a.addError(line, "internal error: '%s' emitted %d words, expected %d", OpcodeName(p.Opcode), emitted, p.CodeSize())
	}
	if glog.V(2) {
		glog.Infof("%s:%d: %04d %s %v", a.file, line, BASE_ADDR+start, OpcodeName(p.Opcode), a.code[start:])
	}
}

// operandWord encodes a single operand. The word's address is the current
// end of the code segment, which is where external references are
// recorded.
func (a *Assembler) operandWord(o Operand, isSource bool, line int) Word {
	switch o.Mode {
	case ModeImmediate:
		v := o.Value
		if o.Const != "" {
			c := a.symbols.Constant(o.Const)
			if c == nil {
				a.addError(line, "undefined constant: '%s'", o.Const)
				return 0
			}
			v = c.Value
		}
		return encodeImmediate(v)

	case ModeDirect:
		sym := a.symbols.Lookup(o.Label)
		if sym == nil {
			if !a.failedLabels[o.Label] {
				a.addError(line, "undefined symbol: '%s'", o.Label)
			}
			return 0
		}
		switch {
		case sym.Kind == KindExternal:
			a.symbols.RecordExternalUsage(sym.Name, BASE_ADDR+len(a.code))
			return encodeExternal()
		case sym.Kind.IsDefined():
			return encodeAddress(sym.Address)
		}
		// Unresolved .entry placeholder, reported at the end of pass 1.
		return 0

	case ModeDirectRegister, ModeIndirectRegister:
		if isSource {
			return encodeRegisters(o.Register, -1)
		}
		return encodeRegisters(-1, o.Register)
	}
	return 0
}

// assembleStorage appends .data values or .string characters plus the
// terminating zero to the data segment.
func (a *Assembler) assembleStorage(p *ParsedLine) {
	switch p.Directive {
	case DirData:
		for _, v := range p.Data {
			a.data = append(a.data, encodeData(v))
		}
	case DirString:
		for i := 0; i < len(p.Text); i++ {
			a.data = append(a.data, encodeData(int(p.Text[i])))
		}
		a.data = append(a.data, 0)
	}
}
