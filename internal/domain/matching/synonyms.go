package matching

import (
	"sort"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// GAME SYNONYM TABLE
// Maps every alias of a game to its single canonical name. Built once per
// profile load from the reference worksheet: first column canonical name,
// remaining columns comma-separated aliases. The first registration of an
// alias wins, so each alias resolves to exactly one canonical name.
// ══════════════════════════════════════════════════════════════════════════════

// SynonymTable resolves game aliases to canonical names.
type SynonymTable struct {
	rows      [][]string
	canonical map[string]string   // alias -> canonical
	aliases   map[string][]string // canonical -> aliases, canonical first
}

// NewSynonymTable builds a table from reference rows. Rows with an empty
// first cell are skipped; duplicate aliases keep their first canonical.
func NewSynonymTable(rows [][]string) *SynonymTable {
	t := &SynonymTable{
		rows:      rows,
		canonical: make(map[string]string),
		aliases:   make(map[string][]string),
	}

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		t.register(name, name)
		for _, cell := range row[1:] {
			for _, alias := range strings.FieldsFunc(cell, isAliasSeparator) {
				t.register(name, strings.TrimSpace(alias))
			}
		}
	}

	return t
}

func isAliasSeparator(r rune) bool {
	return r == ',' || r == '、' || r == '，'
}

func (t *SynonymTable) register(canonical, alias string) {
	if alias == "" {
		return
	}
	if _, taken := t.canonical[alias]; taken {
		return
	}
	t.canonical[alias] = canonical
	t.aliases[canonical] = append(t.aliases[canonical], alias)
}

// CanonicalOf resolves a game name to its canonical form. Names outside the
// table are their own canonical name, so untabled sheet columns still match
// by exact mention.
func (t *SynonymTable) CanonicalOf(name string) string {
	if c, ok := t.canonical[strings.TrimSpace(name)]; ok {
		return c
	}
	return strings.TrimSpace(name)
}

// AliasesOf returns every known alias of a game, canonical name first. For
// names outside the table the name itself is the only alias.
func (t *SynonymTable) AliasesOf(name string) []string {
	c := t.CanonicalOf(name)
	if list, ok := t.aliases[c]; ok {
		return list
	}
	if c == "" {
		return nil
	}
	return []string{c}
}

// Canonicals returns all canonical names in sorted order.
func (t *SynonymTable) Canonicals() []string {
	names := make([]string, 0, len(t.aliases))
	for c := range t.aliases {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of canonical entries.
func (t *SynonymTable) Len() int {
	return len(t.aliases)
}

// Rows returns the source rows, so the table can be cached and rebuilt.
func (t *SynonymTable) Rows() [][]string {
	return t.rows
}
