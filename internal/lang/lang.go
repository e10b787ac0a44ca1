// Package lang resolves human-readable language names and short codes to
// backend-specific language tags.
//
// Different translation backends use different tag vocabularies (plain
// ISO 639-1 codes versus script-qualified tags), so each backend gets its
// own immutable Table constructed once and passed explicitly.
package lang

import (
	"fmt"
	"sort"
	"strings"
)

// entry declares one language for a backend table.
type entry struct {
	name string // full human-readable name, lowercase
	code string // short code accepted as an alias
	tag  string // backend-internal tag
}

// Table is an immutable, case-insensitive mapping from language names and
// short codes to a backend's internal language tags.
type Table struct {
	backend string
	tags    map[string]string // normalized name/code -> tag
	display map[string]string // tag -> display name
	names   []string          // sorted full names, for listings
}

// newTable builds a Table from entries. Both the full name and the short
// code resolve to the tag.
func newTable(backend string, entries []entry) *Table {
	t := &Table{
		backend: backend,
		tags:    make(map[string]string, len(entries)*2),
		display: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		t.tags[e.name] = e.tag
		t.tags[e.code] = e.tag
		t.display[e.tag] = capitalize(e.name)
		t.names = append(t.names, e.name)
	}
	sort.Strings(t.names)
	return t
}

// Normalize lowercases and trims a language name or code for lookup.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Backend returns the name of the backend this table belongs to.
func (t *Table) Backend() string {
	return t.backend
}

// Resolve maps a human-readable name or short code to the backend tag.
// The lookup is case-insensitive and ignores surrounding whitespace.
// Returns ErrUnsupported naming the offending input when absent.
func (t *Table) Resolve(nameOrCode string) (string, error) {
	tag, ok := t.tags[Normalize(nameOrCode)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, nameOrCode)
	}
	return tag, nil
}

// DisplayName returns a human-readable name for a backend tag.
// Falls back to the tag itself for unknown tags.
func (t *Table) DisplayName(tag string) string {
	if name, ok := t.display[tag]; ok {
		return name
	}
	return tag
}

// Names returns the full language names in sorted order.
// Short codes are excluded; this feeds CLI listings and the web form.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// capitalize uppercases the first byte of an ASCII name.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ISO639 returns the table for backends addressed by plain two-letter
// ISO 639-1 codes (M2M100-style vocabularies).
func ISO639() *Table {
	return newTable("iso639", []entry{
		{"arabic", "ar", "ar"},
		{"chinese", "zh", "zh"},
		{"english", "en", "en"},
		{"french", "fr", "fr"},
		{"german", "de", "de"},
		{"japanese", "ja", "ja"},
		{"korean", "ko", "ko"},
		{"portuguese", "pt", "pt"},
		{"russian", "ru", "ru"},
		{"spanish", "es", "es"},
	})
}

// Scripted returns the table for backends addressed by script-qualified
// tags (NLLB/FLORES-style vocabularies).
func Scripted() *Table {
	return newTable("scripted", []entry{
		{"arabic", "ar", "arb_Arab"},
		{"chinese", "zh", "zho_Hans"},
		{"english", "en", "eng_Latn"},
		{"french", "fr", "fra_Latn"},
		{"german", "de", "deu_Latn"},
		{"japanese", "ja", "jpn_Jpan"},
		{"korean", "ko", "kor_Hang"},
		{"portuguese", "pt", "por_Latn"},
		{"russian", "ru", "rus_Cyrl"},
		{"spanish", "es", "spa_Latn"},
	})
}
