package parser

import (
	"sync"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// Unicode versions with assigned-code-point tables, oldest first. A level
// whose character database is not listed uses the closest older table.
var unicodeTables = []struct {
	version int
	name    string
}{
	{41, "4.1.0"},
	{50, "5.0.0"},
	{51, "5.1.0"},
	{52, "5.2.0"},
	{60, "6.0.0"},
	{61, "6.1.0"},
	{62, "6.2.0"},
	{63, "6.3.0"},
	{70, "7.0.0"},
	{80, "8.0.0"},
	{90, "9.0.0"},
	{100, "10.0.0"},
	{110, "11.0.0"},
	{120, "12.0.0"},
	{130, "13.0.0"},
	{150, "15.0.0"},
}

var assignedCache sync.Map

// assignedFor returns the code points assigned in the given Unicode
// version (major*10+minor).
func assignedFor(version int) *unicode.RangeTable {
	if t, ok := assignedCache.Load(version); ok {
		return t.(*unicode.RangeTable)
	}
	name := unicodeTables[0].name
	for _, ut := range unicodeTables {
		if ut.version <= version {
			name = ut.name
		}
	}
	t := rangetable.Assigned(name)
	if t == nil {
		// Older toolchains lack the newest table.
		t = rangetable.Assigned("13.0.0")
	}
	assignedCache.Store(version, t)
	return t
}

// identChars decides identifier legality for one Unicode version.
type identChars struct {
	assigned *unicode.RangeTable
}

func newIdentChars(version int) identChars {
	return identChars{assigned: assignedFor(version)}
}

func (c identChars) isAssigned(r rune) bool {
	if r < 0x80 || c.assigned == nil {
		return true
	}
	return unicode.Is(c.assigned, r)
}

func (c identChars) isStart(r rune) bool {
	if r < 0x80 {
		return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_' || r == '$'
	}
	return c.isAssigned(r) && isJavaIdentifierStart(r)
}

func (c identChars) isPart(r rune) bool {
	if r < 0x80 {
		return c.isStart(r) || r >= '0' && r <= '9' || isIdentifierIgnorable(r)
	}
	return c.isAssigned(r) && (isJavaIdentifierStart(r) ||
		unicode.In(r, unicode.Nd, unicode.Mn, unicode.Mc) ||
		isIdentifierIgnorable(r))
}

// isIdentifierCandidate reports whether r is an identifier character in the
// newest supported Unicode version. Such a character inside an identifier
// is reported rather than ending the identifier.
func isIdentifierCandidate(r rune) bool {
	return isJavaIdentifierStart(r) || unicode.In(r, unicode.Nd, unicode.Mn, unicode.Mc) ||
		isIdentifierIgnorable(r)
}

func isJavaIdentifierStart(r rune) bool {
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Sc, unicode.Pc)
}

func isIdentifierIgnorable(r rune) bool {
	return r >= 0 && r <= 8 || r >= 0x0e && r <= 0x1b || r >= 0x7f && r <= 0x9f ||
		r >= 0x80 && unicode.Is(unicode.Cf, r)
}
