// Package help describes the unit table and the language itself. It backs
// `unitx describe` and the REPL's :help command.
package help

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/units"
)

// TopicResult represents the help output for a topic
type TopicResult struct {
	Kind        string          `json:"kind"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Base        string          `json:"base,omitempty"`
	Units       []UnitEntry     `json:"units,omitempty"`
	Categories  []CategoryEntry `json:"categories,omitempty"`
	Keywords    []KeywordInfo   `json:"keywords,omitempty"`
	Operators   []OperatorInfo  `json:"operators,omitempty"`
}

// UnitEntry describes one unit symbol.
type UnitEntry struct {
	Symbol string  `json:"symbol"`
	Kind   string  `json:"kind"`
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset,omitempty"`
}

// CategoryEntry summarises one category.
type CategoryEntry struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Base    string   `json:"base,omitempty"`
	Symbols []string `json:"symbols"`
}

// KeywordInfo describes a statement keyword.
type KeywordInfo struct {
	Name        string `json:"name"`
	Syntax      string `json:"syntax"`
	Description string `json:"description"`
}

// OperatorInfo describes an operator.
type OperatorInfo struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

var keywords = []KeywordInfo{
	{"def", "def name(a, b=expr) { ... }", "declare a function; defaults are evaluated once"},
	{"rep", "rep(i, n) stmt", "repeat over 0..n-1 or over the elements of a list"},
	{"if", "if (cond) stmt [else stmt]", "run one branch"},
	{"print", "print(a, b, ...)", "print values with their units"},
	{"dump", "dump(a, b, ...)", "print values prefixed with their names"},
	{"assert", "assert expr", "stop with an AssertionError when expr is falsy"},
	{"return", "return [expr]", "return from a function"},
	{"break", "break", "leave the innermost rep"},
	{"continue", "continue", "start the next iteration of the innermost rep"},
	{"---", "---", "print a border line verbatim (3 to 10 dashes)"},
}

var operators = []OperatorInfo{
	{"+ -", "add, subtract; units must share a category and the right side is rescaled"},
	{"* /", "multiply, divide; units combine into compound units"},
	{"%", "floored modulo; additive unit rules"},
	{"== != < <= > >=", "compare; numbers are rescaled before comparison"},
	{"&& || !", "logical and, or, not"},
	{"= += -= *= /= %=", "assign; pending conversions are applied and dropped"},
	{"++ --", "increment, decrement (prefix or postfix)"},
	{"{u}", "annotate with unit u"},
	{"{a->b}", "convert from a to b when read"},
	{"{a->b/c->d}", "convert numerator and denominator"},
	{"{@}", "strip the unit"},
}

// DescribeTopic returns help information for topic. Topics are "units",
// "keywords", "operators", a category id or a unit symbol.
func DescribeTopic(topic string, table *units.Table, tag language.Tag) (*TopicResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("no topic specified (try: units, keywords, operators, length, km)")
	}
	if table == nil {
		table = units.Default()
	}

	switch topic {
	case "units", "categories":
		return describeCategories(table, tag), nil
	case "keywords":
		return &TopicResult{Kind: "keyword-list", Name: "keywords", Keywords: keywords}, nil
	case "operators":
		return &TopicResult{Kind: "operator-list", Name: "operators", Operators: operators}, nil
	}

	if cat, ok := table.Category(topic); ok {
		return describeCategory(table, cat, tag), nil
	}
	if e, ok := table.Lookup(topic); ok {
		return describeUnit(table, e, tag), nil
	}

	return nil, unknownTopicError(topic, table)
}

func describeCategories(table *units.Table, tag language.Tag) *TopicResult {
	result := &TopicResult{Kind: "category-list", Name: "units"}
	for _, cat := range table.Categories() {
		result.Categories = append(result.Categories, CategoryEntry{
			ID:      cat.ID,
			Name:    table.CategoryName(cat.ID, tag),
			Base:    baseSymbol(table, cat),
			Symbols: cat.Symbols,
		})
	}
	return result
}

func describeCategory(table *units.Table, cat *units.Category, tag language.Tag) *TopicResult {
	result := &TopicResult{
		Kind:     "category",
		Name:     cat.ID,
		Category: table.CategoryName(cat.ID, tag),
		Base:     baseSymbol(table, cat),
	}
	for _, sym := range cat.Symbols {
		e, _ := table.Lookup(sym)
		result.Units = append(result.Units, unitEntry(e))
	}
	return result
}

func describeUnit(table *units.Table, e units.Entry, tag language.Tag) *TopicResult {
	cat, _ := table.Category(e.Category)
	return &TopicResult{
		Kind:     "unit",
		Name:     e.Symbol,
		Category: table.CategoryName(e.Category, tag),
		Base:     baseSymbol(table, cat),
		Units:    []UnitEntry{unitEntry(e)},
	}
}

func unitEntry(e units.Entry) UnitEntry {
	return UnitEntry{
		Symbol: e.Symbol,
		Kind:   e.Rule.Kind.String(),
		Scale:  e.Rule.Scale,
		Offset: e.Rule.Offset,
	}
}

// baseSymbol is the first unit of cat whose rule is the identity.
func baseSymbol(table *units.Table, cat *units.Category) string {
	if cat == nil {
		return ""
	}
	for _, sym := range cat.Symbols {
		if e, ok := table.Lookup(sym); ok && e.Rule.IsLinear() && e.Rule.Scale == 1 {
			return sym
		}
	}
	return ""
}

func unknownTopicError(topic string, table *units.Table) error {
	candidates := []string{"units", "keywords", "operators"}
	for _, cat := range table.Categories() {
		candidates = append(candidates, cat.ID)
	}
	candidates = append(candidates, table.Symbols()...)
	sort.Strings(candidates)

	if match := uerrors.FindClosestMatch(topic, candidates); match != "" {
		return fmt.Errorf("unknown topic %q (did you mean %q?)", topic, match)
	}
	return fmt.Errorf("unknown topic %q (try: units, keywords, operators)", topic)
}
