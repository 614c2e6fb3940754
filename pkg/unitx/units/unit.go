package units

import (
	"sort"
	"strings"
)

// Unit is the annotation carried by a value: numerator and denominator
// symbol lists plus optional conversion sources, one per side.
//
// A source is only set by a literal such as {km->m}; it is consumed the first
// time the value is resolved and never survives an assignment.
type Unit struct {
	Numer       []string
	Denom       []string
	SourceNumer string
	SourceDenom string
}

// None is the empty unit.
var None = Unit{}

// Of builds a unit from single numerator and denominator symbols. Empty
// strings leave that side empty.
func Of(numer, denom string) Unit {
	var u Unit
	if numer != "" {
		u.Numer = []string{numer}
	}
	if denom != "" {
		u.Denom = []string{denom}
	}
	return u
}

// Converting returns a unit carrying conversion sources, as written in
// {src->numer/srcDenom->denom}.
func Converting(sourceNumer, numer, sourceDenom, denom string) Unit {
	u := Of(numer, denom)
	u.SourceNumer = sourceNumer
	u.SourceDenom = sourceDenom
	return u
}

// IsEmpty reports whether the unit has no symbols.
func (u Unit) IsEmpty() bool {
	return len(u.Numer) == 0 && len(u.Denom) == 0
}

// HasSource reports whether a conversion is pending.
func (u Unit) HasSource() bool {
	return u.SourceNumer != "" || u.SourceDenom != ""
}

// WithoutSource returns a copy with the conversion sources cleared.
func (u Unit) WithoutSource() Unit {
	return Unit{Numer: clone(u.Numer), Denom: clone(u.Denom)}
}

// IsSingle reports whether the unit is exactly one numerator symbol.
func (u Unit) IsSingle() bool {
	return len(u.Numer) == 1 && len(u.Denom) == 0
}

// Equal compares symbol multisets, ignoring order and sources.
func (u Unit) Equal(o Unit) bool {
	return sameMultiset(u.Numer, o.Numer) && sameMultiset(u.Denom, o.Denom)
}

// String renders the unit as it is printed after a number: "m", "m/s",
// "N*m", "1/s". The empty unit renders as "".
func (u Unit) String() string {
	if u.IsEmpty() {
		return ""
	}
	numer := strings.Join(u.Numer, "*")
	if numer == "" {
		numer = "1"
	}
	if len(u.Denom) == 0 {
		return numer
	}
	return numer + "/" + strings.Join(u.Denom, "*")
}

// Notation renders the unit in annotation syntax, sources included, e.g.
// "{km->m/h->s}".
func (u Unit) Notation() string {
	side := func(src string, syms []string) string {
		s := strings.Join(syms, "*")
		if src != "" {
			return src + "->" + s
		}
		return s
	}
	out := side(u.SourceNumer, u.Numer)
	if len(u.Denom) > 0 {
		if out == "" {
			out = "1"
		}
		out += "/" + side(u.SourceDenom, u.Denom)
	}
	return "{" + out + "}"
}

// Multiply combines units for '*': numerators and denominators are
// concatenated then matching symbols cancel.
func Multiply(a, b Unit) Unit {
	numer := append(clone(a.Numer), b.Numer...)
	denom := append(clone(a.Denom), b.Denom...)
	return cancel(numer, denom)
}

// Divide combines units for '/': the right operand is inverted, then
// multiplied.
func Divide(a, b Unit) Unit {
	return Multiply(a, Unit{Numer: b.Denom, Denom: b.Numer})
}

// CombineMultiplicative returns the unit of a*b, or of a/b when op is "/".
func CombineMultiplicative(a, b Unit, op string) Unit {
	if op == "/" {
		return Divide(a, b)
	}
	return Multiply(a, b)
}

func cancel(numer, denom []string) Unit {
	var keptNumer []string
	remaining := clone(denom)
	for _, n := range numer {
		idx := indexOf(remaining, n)
		if idx < 0 {
			keptNumer = append(keptNumer, n)
			continue
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	if len(remaining) == 0 {
		remaining = nil
	}
	return Unit{Numer: keptNumer, Denom: remaining}
}

func clone(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func sameMultiset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := clone(a), clone(b)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
