package node

import (
	"fmt"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// symbolTable is the process-wide, append-only debug string table for node
// kinds: a process-wide, append-only symbol table for node kind names
// (debug strings), the only global, immutable after startup. Mirrors
// cgra.sideNames/cgra.sideNamesMu exactly: a mutex-guarded slice
// grown lazily, read far more often than written.
var (
	kindNames   = []string{}
	kindNamesMu sync.RWMutex
	titleCaser  = cases.Title(language.English)
)

func init() {
	for _, k := range []string{
		"Literal", "Proxy", "Input", "Output", "Op", "Mux",
		"Register", "Clock", "Reset", "Memory", "MemReadPort", "MemWritePort",
	} {
		registerKindName(k)
	}
}

func registerKindName(name string) int {
	kindNamesMu.Lock()
	defer kindNamesMu.Unlock()
	kindNames = append(kindNames, name)
	return len(kindNames) - 1
}

// canonicalize title-cases a user-supplied debug name (the kind names
// registered in init are already written in their canonical form and are
// stored as given), the same way core/emu.go's toTitleCase normalizes CGRA
// direction names before using them as map keys.
func canonicalize(name string) string {
	return titleCaser.String(name)
}

func kindName(k Kind) string {
	kindNamesMu.RLock()
	defer kindNamesMu.RUnlock()
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// CanonicalOpcodeName canonicalizes a user-facing opcode spelling (e.g.
// "add", "ADD", "Add" all collapse to "Add") before it is used as a debug
// label or map key, exactly the role toTitleCase plays for CGRA directions.
func CanonicalOpcodeName(name string) string {
	return canonicalize(name)
}
