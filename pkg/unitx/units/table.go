// Package units holds the unit table and the unit algebra.
//
// A Table maps unit symbols to a conversion category and a Rule. It is
// loaded once (from YAML) and is read-only afterwards, so a single Table can
// be shared by any number of interpreters.
package units

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed default_units.yaml
var defaultUnits []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Entry is one unit symbol in the table.
type Entry struct {
	Symbol   string
	Category string
	Rule     Rule
}

// Category is a group of mutually convertible units.
type Category struct {
	ID      string
	Names   map[string]string // base language ("en", "ja") -> display name
	Symbols []string          // in file order
}

// Table is an immutable unit lookup table.
type Table struct {
	baseLanguage string
	entries      map[string]Entry
	categories   map[string]*Category
	order        []string // category ids in file order
}

type tableFile struct {
	BaseLanguage string         `yaml:"base_language"`
	Categories   []categoryFile `yaml:"categories"`
}

type categoryFile struct {
	ID    string            `yaml:"id"`
	Names map[string]string `yaml:"names"`
	Units yaml.Node         `yaml:"units"`
}

// Default returns the table embedded in the binary. It is parsed once and
// shared.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultUnits)
		if err != nil {
			panic(fmt.Sprintf("units: embedded table is invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// DefaultSource returns the YAML of the embedded table.
func DefaultSource() []byte {
	return append([]byte(nil), defaultUnits...)
}

// Load reads a YAML unit table from r.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML unit table. Every symbol must belong to exactly one
// category.
func Parse(data []byte) (*Table, error) {
	var file tableFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse unit table: %w", err)
	}

	t := &Table{
		baseLanguage: file.BaseLanguage,
		entries:      make(map[string]Entry),
		categories:   make(map[string]*Category),
	}
	if t.baseLanguage == "" {
		t.baseLanguage = "en"
	}

	for _, cf := range file.Categories {
		if cf.ID == "" {
			return nil, fmt.Errorf("unit table: category with empty id")
		}
		if _, dup := t.categories[cf.ID]; dup {
			return nil, fmt.Errorf("unit table: duplicate category %q", cf.ID)
		}
		if cf.Units.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("unit table: category %q: units must be a mapping", cf.ID)
		}

		cat := &Category{ID: cf.ID, Names: cf.Names}
		for i := 0; i+1 < len(cf.Units.Content); i += 2 {
			key, val := cf.Units.Content[i], cf.Units.Content[i+1]
			symbol := key.Value

			var rule Rule
			if err := val.Decode(&rule); err != nil {
				return nil, fmt.Errorf("unit table: %s: %w", symbol, err)
			}
			if rule.Scale == 0 {
				return nil, fmt.Errorf("unit table: line %d: unit %q has zero scale", key.Line, symbol)
			}
			if prev, dup := t.entries[symbol]; dup {
				return nil, fmt.Errorf("unit table: line %d: duplicate unit %q (already in %q)",
					key.Line, symbol, prev.Category)
			}

			t.entries[symbol] = Entry{Symbol: symbol, Category: cf.ID, Rule: rule}
			cat.Symbols = append(cat.Symbols, symbol)
		}

		t.categories[cf.ID] = cat
		t.order = append(t.order, cf.ID)
	}

	return t, nil
}

// Lookup returns the entry for symbol.
func (t *Table) Lookup(symbol string) (Entry, bool) {
	e, ok := t.entries[symbol]
	return e, ok
}

// CategoryOf returns the category id for symbol. Symbols missing from the
// table form a category of their own, named after the symbol.
func (t *Table) CategoryOf(symbol string) string {
	if e, ok := t.entries[symbol]; ok {
		return e.Category
	}
	return "?" + symbol
}

// Category returns the category with the given id.
func (t *Table) Category(id string) (*Category, bool) {
	c, ok := t.categories[id]
	return c, ok
}

// Categories returns all categories in file order.
func (t *Table) Categories() []*Category {
	out := make([]*Category, len(t.order))
	for i, id := range t.order {
		out[i] = t.categories[id]
	}
	return out
}

// Symbols returns every known symbol, sorted.
func (t *Table) Symbols() []string {
	out := make([]string, 0, len(t.entries))
	for s := range t.entries {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of symbols.
func (t *Table) Len() int {
	return len(t.entries)
}

// CategoryName returns the display name of a category in the language
// closest to tag, falling back to the table's base language and then the id.
func (t *Table) CategoryName(id string, tag language.Tag) string {
	cat, ok := t.categories[id]
	if !ok {
		if len(id) > 1 && id[0] == '?' {
			return "unknown"
		}
		return id
	}
	base, _ := tag.Base()
	if name, ok := cat.Names[base.String()]; ok {
		return name
	}
	if name, ok := cat.Names[t.baseLanguage]; ok {
		return name
	}
	return id
}

// Describe renders the categories of u for messages, e.g. "length/time".
func (t *Table) Describe(u Unit, tag language.Tag) string {
	if u.IsEmpty() {
		return "dimensionless"
	}
	name := func(syms []string) string {
		var b bytes.Buffer
		for i, s := range syms {
			if i > 0 {
				b.WriteString("*")
			}
			b.WriteString(t.CategoryName(t.CategoryOf(s), tag))
		}
		return b.String()
	}
	out := name(u.Numer)
	if out == "" {
		out = "1"
	}
	if len(u.Denom) > 0 {
		out += "/" + name(u.Denom)
	}
	return out
}
