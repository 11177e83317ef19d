// symtab.go

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

import "fmt"

// ---------------------------------------------------------------------
// Symbol kinds
// ---------------------------------------------------------------------

// Kind classifies a symbol table entry.
type Kind int

const (
	KindCode Kind = iota
	KindData
	KindEntryPending // .entry seen before the defining label
	KindEntryCode
	KindEntryData
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindData:
		return "data"
	case KindEntryPending:
		return "entry (pending)"
	case KindEntryCode:
		return "entry code"
	case KindEntryData:
		return "entry data"
	case KindExternal:
		return "external"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsEntry reports whether the symbol is exported through the .ent listing.
func (k Kind) IsEntry() bool {
	return k == KindEntryCode || k == KindEntryData
}

// IsData reports whether the symbol lives in the data segment.
func (k Kind) IsData() bool {
	return k == KindData || k == KindEntryData
}

// IsDefined reports whether the symbol has a concrete address in this file.
func (k Kind) IsDefined() bool {
	return k == KindCode || k == KindData || k.IsEntry()
}

// Symbol is a label known to the assembler.
type Symbol struct {
	Name    string
	Kind    Kind
	Address int
	Line    int // source line of the definition or declaration
	Size    int // words reserved by a data label
}

// ExternalUsage lists every code address that references an external
// symbol, in the order the references were emitted.
type ExternalUsage struct {
	Name      string
	Addresses []int
}

// Constant is a name bound by .define.
type Constant struct {
	Name  string
	Value int
	Line  int
}

// ---------------------------------------------------------------------
// SymbolTable
// ---------------------------------------------------------------------

// SymbolTable owns the symbols, constants and external usages of one file.
// Symbols keep their insertion order.
type SymbolTable struct {
	symbols   []*Symbol
	byName    map[string]*Symbol
	constants map[string]*Constant
	externals []*ExternalUsage
	extByName map[string]*ExternalUsage
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		byName:    make(map[string]*Symbol),
		constants: make(map[string]*Constant),
		extByName: make(map[string]*ExternalUsage),
	}
}

// Lookup returns the named symbol or nil.
func (t *SymbolTable) Lookup(name string) *Symbol {
	return t.byName[name]
}

// Insert adds a new symbol. The name must not already be in use.
func (t *SymbolTable) Insert(name string, kind Kind, addr, line, size int) (*Symbol, error) {
	if _, exists := t.byName[name]; exists {
		return nil, fmt.Errorf("symbol '%s' already defined", name)
	}
	if _, exists := t.constants[name]; exists {
		return nil, fmt.Errorf("'%s' is already defined as a constant", name)
	}
	sym := &Symbol{Name: name, Kind: kind, Address: addr, Line: line, Size: size}
	t.symbols = append(t.symbols, sym)
	t.byName[name] = sym
	return sym, nil
}

// PromotePendingEntry resolves an .entry placeholder once its defining
// label is seen. kind must be KindEntryCode or KindEntryData.
func (t *SymbolTable) PromotePendingEntry(sym *Symbol, kind Kind, addr, line, size int) error {
	if sym.Kind != KindEntryPending {
		return fmt.Errorf("symbol '%s' is not a pending entry", sym.Name)
	}
	if !kind.IsEntry() {
		return fmt.Errorf("cannot promote '%s' to %s", sym.Name, kind)
	}
	sym.Kind = kind
	sym.Address = addr
	sym.Line = line
	sym.Size = size
	return nil
}

// MarkEntry exports an already defined code or data symbol.
func (t *SymbolTable) MarkEntry(sym *Symbol) error {
	switch sym.Kind {
	case KindCode:
		sym.Kind = KindEntryCode
	case KindData:
		sym.Kind = KindEntryData
	default:
		return fmt.Errorf("symbol '%s' is %s and cannot be made an entry", sym.Name, sym.Kind)
	}
	return nil
}

// Define binds a .define constant.
func (t *SymbolTable) Define(name string, value, line int) error {
	if c, exists := t.constants[name]; exists {
		return fmt.Errorf("constant '%s' already defined on line %d", name, c.Line)
	}
	if _, exists := t.byName[name]; exists {
		return fmt.Errorf("'%s' is already defined as a symbol", name)
	}
	t.constants[name] = &Constant{Name: name, Value: value, Line: line}
	return nil
}

// Constant returns the named .define constant or nil.
func (t *SymbolTable) Constant(name string) *Constant {
	return t.constants[name]
}

// Symbols returns the symbols in insertion order.
func (t *SymbolTable) Symbols() []*Symbol {
	return t.symbols
}

// Pending returns every symbol still waiting for its .entry definition.
func (t *SymbolTable) Pending() []*Symbol {
	var out []*Symbol
	for _, s := range t.symbols {
		if s.Kind == KindEntryPending {
			out = append(out, s)
		}
	}
	return out
}

// FindExternal returns the usage record for an external symbol, or nil if
// it has not been referenced yet.
func (t *SymbolTable) FindExternal(name string) *ExternalUsage {
	return t.extByName[name]
}

// RecordExternalUsage appends addr to the usage list of name, creating the
// record on first use.
func (t *SymbolTable) RecordExternalUsage(name string, addr int) *ExternalUsage {
	ext := t.extByName[name]
	if ext == nil {
		ext = &ExternalUsage{Name: name}
		t.externals = append(t.externals, ext)
		t.extByName[name] = ext
	}
	ext.Addresses = append(ext.Addresses, addr)
	return ext
}

// Externals returns the usage records in first-reference order.
func (t *SymbolTable) Externals() []*ExternalUsage {
	return t.externals
}
