package help

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FormatText formats a TopicResult for terminal output with the given width
func FormatText(result *TopicResult, width int) string {
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder

	switch result.Kind {
	case "category-list":
		formatCategoryListText(&sb, result, width)
	case "category":
		formatCategoryText(&sb, result)
	case "unit":
		formatUnitText(&sb, result)
	case "keyword-list":
		formatKeywordListText(&sb, result)
	case "operator-list":
		formatOperatorListText(&sb, result)
	default:
		sb.WriteString(fmt.Sprintf("Unknown result kind: %s\n", result.Kind))
	}

	return sb.String()
}

// FormatJSON formats a TopicResult as JSON
func FormatJSON(result *TopicResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

func formatCategoryListText(sb *strings.Builder, result *TopicResult, width int) {
	sb.WriteString("Unit categories:\n")

	maxLen := 0
	for _, c := range result.Categories {
		if len(c.ID) > maxLen {
			maxLen = len(c.ID)
		}
	}

	for _, c := range result.Categories {
		prefix := fmt.Sprintf("  %-*s  ", maxLen, c.ID)
		if c.Name != c.ID {
			prefix += "(" + c.Name + ") "
		}
		sb.WriteString(wrapWords(prefix, c.Symbols, width))
	}
}

func formatCategoryText(sb *strings.Builder, result *TopicResult) {
	fmt.Fprintf(sb, "Category: %s", result.Name)
	if result.Category != result.Name {
		fmt.Fprintf(sb, " (%s)", result.Category)
	}
	sb.WriteString("\n")
	if result.Base != "" {
		fmt.Fprintf(sb, "Base unit: %s\n", result.Base)
	}
	sb.WriteString("\nUnits:\n")
	writeUnits(sb, result.Units, result.Base)
}

func formatUnitText(sb *strings.Builder, result *TopicResult) {
	fmt.Fprintf(sb, "Unit: %s\n", result.Name)
	fmt.Fprintf(sb, "Category: %s\n", result.Category)
	writeUnits(sb, result.Units, result.Base)
}

func writeUnits(sb *strings.Builder, list []UnitEntry, base string) {
	maxLen := 0
	for _, u := range list {
		if len(u.Symbol) > maxLen {
			maxLen = len(u.Symbol)
		}
	}
	for _, u := range list {
		fmt.Fprintf(sb, "  %-*s  %s\n", maxLen, u.Symbol, ruleText(u, base))
	}
}

// ruleText renders a unit's rule, e.g. "1 km = 1000 m" or
// "x C = x*1 + 273.15 K".
func ruleText(u UnitEntry, base string) string {
	if base == "" {
		base = "base"
	}
	if u.Kind == "affine" {
		return fmt.Sprintf("x %s = x*%s + %s %s", u.Symbol, num(u.Scale), num(u.Offset), base)
	}
	return fmt.Sprintf("1 %s = %s %s", u.Symbol, num(u.Scale), base)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatKeywordListText(sb *strings.Builder, result *TopicResult) {
	sb.WriteString("Keywords:\n")
	maxLen := 0
	for _, k := range result.Keywords {
		if len(k.Syntax) > maxLen {
			maxLen = len(k.Syntax)
		}
	}
	for _, k := range result.Keywords {
		fmt.Fprintf(sb, "  %-*s  %s\n", maxLen, k.Syntax, k.Description)
	}
}

func formatOperatorListText(sb *strings.Builder, result *TopicResult) {
	sb.WriteString("Operators:\n")
	maxLen := 0
	for _, op := range result.Operators {
		if len(op.Symbol) > maxLen {
			maxLen = len(op.Symbol)
		}
	}
	for _, op := range result.Operators {
		fmt.Fprintf(sb, "  %-*s  %s\n", maxLen, op.Symbol, op.Description)
	}
}

// wrapWords writes prefix followed by words, wrapping at width and
// indenting continuation lines to the prefix.
func wrapWords(prefix string, words []string, width int) string {
	var sb strings.Builder
	indent := strings.Repeat(" ", len([]rune(prefix)))
	line := prefix
	lineLen := len([]rune(prefix))
	first := true

	for _, w := range words {
		wl := len([]rune(w))
		if !first && lineLen+1+wl > width {
			sb.WriteString(line + "\n")
			line = indent + w
			lineLen = len([]rune(indent)) + wl
			continue
		}
		if first {
			line += w
			lineLen += wl
			first = false
		} else {
			line += " " + w
			lineLen += 1 + wl
		}
	}
	sb.WriteString(line + "\n")
	return sb.String()
}
