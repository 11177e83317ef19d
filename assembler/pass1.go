// pass1.go

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
// Pass 1: symbol collection, address calculation
// ---------------------------------------------------------------------

func (a *Assembler) firstPass(cls *Classifier, lines []SourceLine) {
	glog.V(1).Infof("%s: pass 1 over %d lines", a.file, len(lines))
	a.ic, a.dc = BASE_ADDR, 0

	for _, l := range lines {
		p := cls.Classify(l.Text)
		if p.Err != nil {
			a.addError(l.Num, "%v", p.Err)
			if p.Label != "" && (p.Kind == LineCode || p.Kind == LineUnknown || p.IsStorage()) {
				a.failedLabels[p.Label] = true
			}
			continue
		}
		if p.Warning != "" {
			a.addWarning(l.Num, "%s", p.Warning)
		}

		switch p.Kind {
		case LineCode:
			a.defineLabel(p.Label, KindCode, a.ic, l.Num, 0)
			a.ic += p.CodeSize()

		case LineDirective:
			switch p.Directive {
			case DirData, DirString:
				a.defineLabel(p.Label, KindData, a.dc, l.Num, p.DataSize())
				a.dc += p.DataSize()
			case DirEntry:
				a.declareEntry(p.Symbol, l.Num)
			case DirExtern:
				a.declareExtern(p.Symbol, l.Num)
			}

		case LineDefinition:
			if err := a.symbols.Define(p.Symbol, p.Value, l.Num); err != nil {
				a.addError(l.Num, "%v", err)
			}
		}
	}

	a.closeFirstPass()
}

// defineLabel binds a label to the current counter, resolving a pending
// .entry of the same name.
func (a *Assembler) defineLabel(name string, kind Kind, addr, line, size int) {
	if name == "" {
		return
	}
	sym := a.symbols.Lookup(name)
	if sym == nil {
		if _, err := a.symbols.Insert(name, kind, addr, line, size); err != nil {
			a.addError(line, "%v", err)
		}
		return
	}

	switch sym.Kind {
	case KindEntryPending:
		entryKind := KindEntryCode
		if kind == KindData {
			entryKind = KindEntryData
		}
		if err := a.symbols.PromotePendingEntry(sym, entryKind, addr, line, size); err != nil {
			a.addError(line, "%v", err)
		}
	case KindExternal:
		a.addError(line, "symbol '%s' is declared external on line %d and cannot be defined here", name, sym.Line)
	default:
		a.addError(line, "redefinition of symbol '%s' (first defined on line %d)", name, sym.Line)
	}
}

func (a *Assembler) declareEntry(name string, line int) {
	sym := a.symbols.Lookup(name)
	if sym == nil {
		if _, err := a.symbols.Insert(name, KindEntryPending, 0, line, 0); err != nil {
			a.addError(line, "%v", err)
		}
		return
	}

	switch sym.Kind {
	case KindCode, KindData:
		if err := a.symbols.MarkEntry(sym); err != nil {
			a.addError(line, "%v", err)
		}
	case KindEntryPending, KindEntryCode, KindEntryData:
		a.addWarning(line, "duplicate .entry for '%s'", name)
	case KindExternal:
		a.addError(line, "symbol '%s' is declared external on line %d and cannot be an entry", name, sym.Line)
	}
}

func (a *Assembler) declareExtern(name string, line int) {
	sym := a.symbols.Lookup(name)
	if sym == nil {
		if _, err := a.symbols.Insert(name, KindExternal, 0, line, 0); err != nil {
			a.addError(line, "%v", err)
		}
		return
	}

	switch sym.Kind {
	case KindExternal:
		a.addWarning(line, "duplicate .extern for '%s'", name)
	case KindEntryPending:
		a.addError(line, "symbol '%s' is declared .entry on line %d and cannot be external", name, sym.Line)
	default:
		a.addError(line, "symbol '%s' is defined on line %d and cannot be external", name, sym.Line)
	}
}

// closeFirstPass checks for unresolved entries, moves data symbols behind
// the code and collects the entry listing.
func (a *Assembler) closeFirstPass() {
	for _, sym := range a.symbols.Pending() {
		a.addError(sym.Line, "entry symbol '%s' is never defined", sym.Name)
	}

	for _, sym := range a.symbols.Symbols() {
		if sym.Kind.IsData() {
			sym.Address += a.ic
		}
		if sym.Kind.IsEntry() {
			a.entries = append(a.entries, SymbolRef{Name: sym.Name, Address: sym.Address})
		}
	}

	if end := a.ic + a.dc; end > MEMORY_SIZE {
		a.addError(0, "program needs %d words, memory holds %d (code ends at %d, %d data words)",
			end, MEMORY_SIZE, a.ic, a.dc)
	}

	glog.V(1).Infof("%s: pass 1 done, ic=%d dc=%d, %d symbols", a.file, a.ic, a.dc, len(a.symbols.Symbols()))
}
