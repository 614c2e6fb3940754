package units

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// MismatchError reports two units from different categories.
type MismatchError struct {
	Left, Right Unit
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("incompatible units %q and %q", e.Left.String(), e.Right.String())
}

// UnknownUnitError reports a symbol missing from the table where a
// conversion needs its rule.
type UnknownUnitError struct {
	Symbol string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Symbol)
}

// OffsetError reports an affine unit used where only a scale makes sense:
// in a denominator, in a compound unit or on a complex number.
type OffsetError struct {
	Symbol string
	Where  string
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("unit %q has an offset and cannot be used %s", e.Symbol, e.Where)
}

const (
	WhereDenominator = "in a denominator"
	WhereCompound    = "in a compound unit"
	WhereComplex     = "with a complex number"
)

// Signature returns the dimension of u: the sorted category ids of the
// numerator and denominator.
func (t *Table) Signature(u Unit) string {
	cats := func(syms []string) string {
		ids := make([]string, len(syms))
		for i, s := range syms {
			ids[i] = t.CategoryOf(s)
		}
		sort.Strings(ids)
		return strings.Join(ids, "*")
	}
	return cats(u.Numer) + "/" + cats(u.Denom)
}

// Compatible reports whether a and b measure the same dimension.
func (t *Table) Compatible(a, b Unit) bool {
	return t.Signature(a) == t.Signature(b)
}

// CombineAdditive returns the unit of a+b (or a-b, or a comparison). A
// dimensionless side takes the other side's unit; otherwise the categories
// must agree and the left unit wins.
func (t *Table) CombineAdditive(a, b Unit) (Unit, error) {
	switch {
	case b.IsEmpty():
		return a.WithoutSource(), nil
	case a.IsEmpty():
		return b.WithoutSource(), nil
	case !t.Compatible(a, b):
		return None, &MismatchError{Left: a.WithoutSource(), Right: b.WithoutSource()}
	}
	return a.WithoutSource(), nil
}

// Rescale expresses v, measured in from, in the compatible unit to. Single
// symbols use the full rule so that offsets apply; compound units use the
// ratio of their scales.
func (t *Table) Rescale(v float64, from, to Unit) (float64, error) {
	if from.IsEmpty() || to.IsEmpty() || from.Equal(to) {
		return v, nil
	}
	if from.IsSingle() && to.IsSingle() {
		src, okSrc := t.Lookup(from.Numer[0])
		dst, okDst := t.Lookup(to.Numer[0])
		if !okSrc || !okDst {
			return v, nil
		}
		base := src.Rule.ToBase(v)
		return tidy(dst.Rule.FromBase(base), base), nil
	}
	fs, err := t.scale(from)
	if err != nil {
		return 0, err
	}
	ts, err := t.scale(to)
	if err != nil {
		return 0, err
	}
	return tidy(v*fs/ts, 0), nil
}

// RescaleFactor is the multiplier taking values in from to values in to. It
// fails for affine units, which have no single factor.
func (t *Table) RescaleFactor(from, to Unit) (float64, error) {
	if from.IsEmpty() || to.IsEmpty() || from.Equal(to) {
		return 1, nil
	}
	fs, err := t.scale(from)
	if err != nil {
		return 0, err
	}
	ts, err := t.scale(to)
	if err != nil {
		return 0, err
	}
	return fs / ts, nil
}

// scale is the product of numerator scales over the product of denominator
// scales. Unknown symbols count as 1; they only ever meet themselves.
func (t *Table) scale(u Unit) (float64, error) {
	s := 1.0
	for _, sym := range u.Numer {
		if e, ok := t.Lookup(sym); ok {
			if !e.Rule.IsLinear() {
				return 0, &OffsetError{Symbol: sym, Where: WhereCompound}
			}
			s *= e.Rule.Scale
		}
	}
	for _, sym := range u.Denom {
		if e, ok := t.Lookup(sym); ok {
			if !e.Rule.IsLinear() {
				return 0, &OffsetError{Symbol: sym, Where: WhereDenominator}
			}
			s /= e.Rule.Scale
		}
	}
	return s, nil
}

// Convert applies the pending conversions of u to v. The numerator goes
// through the base unit with the full rule; the denominator only rescales.
func (t *Table) Convert(v float64, u Unit) (float64, error) {
	if u.SourceNumer != "" && len(u.Numer) == 1 {
		src, dst, err := t.pair(u.SourceNumer, u.Numer[0])
		if err != nil {
			return 0, err
		}
		base := src.Rule.ToBase(v)
		v = tidy(dst.Rule.FromBase(base), base)
	}
	if u.SourceDenom != "" && len(u.Denom) == 1 {
		mul, div, err := t.denomScales(u.SourceDenom, u.Denom[0])
		if err != nil {
			return 0, err
		}
		v = tidy(v*mul/div, 0)
	}
	return v, nil
}

// ConvertComplex is Convert for complex values. Only linear rules apply.
func (t *Table) ConvertComplex(c complex128, u Unit) (complex128, error) {
	if u.SourceNumer != "" && len(u.Numer) == 1 {
		src, dst, err := t.pair(u.SourceNumer, u.Numer[0])
		if err != nil {
			return 0, err
		}
		if !src.Rule.IsLinear() {
			return 0, &OffsetError{Symbol: src.Symbol, Where: WhereComplex}
		}
		if !dst.Rule.IsLinear() {
			return 0, &OffsetError{Symbol: dst.Symbol, Where: WhereComplex}
		}
		c *= complex(src.Rule.Scale/dst.Rule.Scale, 0)
	}
	if u.SourceDenom != "" && len(u.Denom) == 1 {
		mul, div, err := t.denomScales(u.SourceDenom, u.Denom[0])
		if err != nil {
			return 0, err
		}
		c = c * complex(mul, 0) / complex(div, 0)
	}
	return complex(tidy(real(c), 0), tidy(imag(c), 0)), nil
}

func (t *Table) pair(from, to string) (Entry, Entry, error) {
	src, ok := t.Lookup(from)
	if !ok {
		return Entry{}, Entry{}, &UnknownUnitError{Symbol: from}
	}
	dst, ok := t.Lookup(to)
	if !ok {
		return Entry{}, Entry{}, &UnknownUnitError{Symbol: to}
	}
	if src.Category != dst.Category {
		return Entry{}, Entry{}, &MismatchError{Left: Of(from, ""), Right: Of(to, "")}
	}
	return src, dst, nil
}

// denomScales converts a per-unit quantity: 1 m/s is 3600 m/h, so values
// are multiplied by scale(to) and divided by scale(from).
func (t *Table) denomScales(from, to string) (mul, div float64, err error) {
	src, dst, err := t.pair(from, to)
	if err != nil {
		return 0, 0, err
	}
	if !src.Rule.IsLinear() {
		return 0, 0, &OffsetError{Symbol: src.Symbol, Where: WhereDenominator}
	}
	if !dst.Rule.IsLinear() {
		return 0, 0, &OffsetError{Symbol: dst.Symbol, Where: WhereDenominator}
	}
	return dst.Rule.Scale, src.Rule.Scale, nil
}

// tidy drops the float noise a conversion leaves behind. Results are rounded
// to 15 significant digits, and a result that is only cancellation residue
// relative to mag becomes zero.
func tidy(f, mag float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	if math.Abs(f) < math.Abs(mag)*1e-12 {
		return 0
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', 15, 64), 64)
	if err != nil {
		return f
	}
	return r
}

// Integral returns f as an int64 when it is a whole number in range.
func Integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
