package units

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/floats/scalar"
)

func near(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, 1e-9, 1e-12)
}

func TestDefaultTable(t *testing.T) {
	table := Default()

	for _, sym := range []string{"m", "cm", "km", "s", "h", "B", "MB", "C", "F", "時", "分"} {
		_, ok := table.Lookup(sym)
		assert.True(t, ok, "default table should know %q", sym)
	}

	assert.Equal(t, "length", table.CategoryOf("km"))
	assert.Equal(t, "time", table.CategoryOf("分"))
	assert.Equal(t, "?furlong", table.CategoryOf("furlong"))

	c, ok := table.Lookup("C")
	require.True(t, ok)
	assert.Equal(t, Affine, c.Rule.Kind)
	assert.False(t, c.Rule.IsLinear())

	cats := table.Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, "length", cats[0].ID)
	assert.Equal(t, "m", cats[0].Symbols[0])
}

func TestCategoryNames(t *testing.T) {
	table := Default()

	assert.Equal(t, "length", table.CategoryName("length", language.English))
	assert.Equal(t, "長さ", table.CategoryName("length", language.Japanese))
	assert.Equal(t, "length", table.CategoryName("length", language.French), "falls back to base language")
	assert.Equal(t, "unknown", table.CategoryName("?furlong", language.English))

	assert.Equal(t, "length/time", table.Describe(Of("m", "s"), language.English))
	assert.Equal(t, "dimensionless", table.Describe(None, language.English))
}

func TestParseTable(t *testing.T) {
	src := `
base_language: ja
categories:
  - id: money
    names: {ja: お金}
    units:
      yen: 1
      man: 10000
  - id: heat
    units:
      K: 1
      C: {scale: 1, offset: 273.15}
      X: {scale: 2}
`
	table, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, 5, table.Len())
	assert.Equal(t, []string{"C", "K", "X", "man", "yen"}, table.Symbols())
	assert.Equal(t, "お金", table.CategoryName("money", language.English))

	x, _ := table.Lookup("X")
	assert.Equal(t, Linear, x.Rule.Kind, "mapping without offset is linear")
	assert.Equal(t, 2.0, x.Rule.Scale)
}

func TestParseTableErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		contains string
	}{
		{"duplicate symbol", "categories:\n  - id: a\n    units: {x: 1}\n  - id: b\n    units: {x: 2}\n", "duplicate unit \"x\""},
		{"zero scale", "categories:\n  - id: a\n    units: {x: 0}\n", "zero scale"},
		{"empty id", "categories:\n  - units: {x: 1}\n", "empty id"},
		{"duplicate category", "categories:\n  - id: a\n    units: {x: 1}\n  - id: a\n    units: {y: 1}\n", "duplicate category"},
		{"missing scale", "categories:\n  - id: a\n    units: {x: {offset: 3}}\n", "missing 'scale'"},
		{"bad scale", "categories:\n  - id: a\n    units: {x: big}\n", "must be a number"},
		{"units not mapping", "categories:\n  - id: a\n    units: [x]\n", "must be a mapping"},
		{"unknown field", "categories:\n  - id: a\n    colour: red\n    units: {x: 1}\n", "colour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestRule(t *testing.T) {
	r := AffineRule(1, 273.15)
	assert.True(t, near(373.15, r.ToBase(100)))
	assert.True(t, near(100, r.FromBase(r.ToBase(100))))

	l := LinearRule(1000)
	assert.Equal(t, 5000.0, l.ToBase(5))
	assert.Equal(t, 5.0, l.FromBase(5000))
}

func TestConvert(t *testing.T) {
	table := Default()

	tests := []struct {
		name string
		v    float64
		unit Unit
		want float64
	}{
		{"m to cm", 500, Converting("m", "cm", "", ""), 50000},
		{"km to m", 5, Converting("km", "m", "", ""), 5000},
		{"C to F", 100, Converting("C", "F", "", ""), 212},
		{"F to C", 32, Converting("F", "C", "", ""), 0},
		{"per second to per hour", 1, Converting("", "m", "s", "h"), 3600},
		{"both sides", 36, Converting("km", "m", "h", "s"), 10},
		{"hours to minutes in Japanese", 2, Converting("時", "分", "", ""), 120},
		{"no source", 7, Of("m", ""), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Convert(tt.v, tt.unit)
			require.NoError(t, err)
			assert.True(t, near(tt.want, got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestConvertExact(t *testing.T) {
	table := Default()

	tests := []struct {
		v    float64
		unit Unit
		want float64
	}{
		{100, Converting("C", "F", "", ""), 212},
		{32, Converting("F", "C", "", ""), 0},
		{1, Converting("in", "cm", "", ""), 2.54},
		{36, Converting("km", "m", "h", "s"), 10},
	}
	for _, tt := range tests {
		got, err := table.Convert(tt.v, tt.unit)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v%s", tt.v, tt.unit.Notation())
	}

	got, err := table.Rescale(212, Of("F", ""), Of("C", ""))
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	assert.Equal(t, 1e-20, tidy(1e-20, 0), "small values are not residue on their own")
}

func TestConvertRoundTrip(t *testing.T) {
	table := Default()
	pairs := [][2]string{{"m", "ft"}, {"kg", "lb"}, {"C", "F"}, {"MB", "KB"}, {"day", "min"}}

	for _, p := range pairs {
		for _, v := range []float64{0, 1, -40, 12.5, 1e6} {
			there, err := table.Convert(v, Converting(p[0], p[1], "", ""))
			require.NoError(t, err)
			back, err := table.Convert(there, Converting(p[1], p[0], "", ""))
			require.NoError(t, err)
			assert.True(t, near(v, back), "%v %s -> %s -> %s gave %v", v, p[0], p[1], p[0], back)
		}
	}
}

func TestConvertErrors(t *testing.T) {
	table := Default()

	_, err := table.Convert(1, Converting("m", "s", "", ""))
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "m", mismatch.Left.String())
	assert.Equal(t, "s", mismatch.Right.String())

	_, err = table.Convert(1, Converting("m", "furlong", "", ""))
	var unknown *UnknownUnitError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "furlong", unknown.Symbol)

	_, err = table.Convert(1, Converting("", "m", "C", "K"))
	var offset *OffsetError
	require.True(t, errors.As(err, &offset))
	assert.Equal(t, "C", offset.Symbol)
	assert.Equal(t, WhereDenominator, offset.Where)

	_, err = table.ConvertComplex(complex(1, 1), Converting("C", "K", "", ""))
	require.True(t, errors.As(err, &offset))
	assert.Equal(t, WhereComplex, offset.Where)

	c, err := table.ConvertComplex(complex(1, 2), Converting("km", "m", "", ""))
	require.NoError(t, err)
	assert.Equal(t, complex(1000, 2000), c)
}

func TestUnitAlgebra(t *testing.T) {
	assert.Equal(t, "m/s", Divide(Of("m", ""), Of("s", "")).String())
	assert.Equal(t, "m", Multiply(Of("m", "s"), Of("s", "")).String())
	assert.Equal(t, "1/s", Divide(None, Of("s", "")).String())
	assert.Equal(t, "", Divide(Of("m", ""), Of("m", "")).String())
	assert.Equal(t, "N*m", Multiply(Of("N", ""), Of("m", "")).String())
	assert.Equal(t, "m/s*s", Divide(Of("m", "s"), Of("s", "")).String())

	u := Converting("km", "m", "h", "s")
	assert.True(t, u.HasSource())
	assert.False(t, u.WithoutSource().HasSource())
	assert.Equal(t, "{km->m/h->s}", u.Notation())
	assert.Equal(t, "m/s", u.String())

	assert.True(t, Multiply(Of("a", ""), Of("b", "")).Equal(Multiply(Of("b", ""), Of("a", ""))))
}

func TestCombineAdditive(t *testing.T) {
	table := Default()

	u, err := table.CombineAdditive(Of("m", ""), Of("cm", ""))
	require.NoError(t, err)
	assert.Equal(t, "m", u.String())

	u, err = table.CombineAdditive(None, Of("cm", ""))
	require.NoError(t, err)
	assert.Equal(t, "cm", u.String())

	u, err = table.CombineAdditive(Of("km", "h"), Of("m", "s"))
	require.NoError(t, err)
	assert.Equal(t, "km/h", u.String())

	u, err = table.CombineAdditive(Of("apple", ""), Of("apple", ""))
	require.NoError(t, err)
	assert.Equal(t, "apple", u.String())

	_, err = table.CombineAdditive(Of("m", ""), Of("s", ""))
	var mismatch *MismatchError
	assert.True(t, errors.As(err, &mismatch))

	_, err = table.CombineAdditive(Of("apple", ""), Of("pear", ""))
	assert.Error(t, err, "unknown symbols are their own categories")
}

func TestRescale(t *testing.T) {
	table := Default()

	v, err := table.Rescale(50, Of("cm", ""), Of("m", ""))
	require.NoError(t, err)
	assert.True(t, near(0.5, v))

	v, err = table.Rescale(0, Of("C", ""), Of("K", ""))
	require.NoError(t, err)
	assert.True(t, near(273.15, v))

	v, err = table.Rescale(1, Of("m", "s"), Of("km", "h"))
	require.NoError(t, err)
	assert.True(t, near(3.6, v))

	f, err := table.RescaleFactor(Of("m", "s"), Of("km", "h"))
	require.NoError(t, err)
	assert.True(t, near(3.6, f))

	_, err = table.Rescale(1, Of("C", "s"), Of("K", "s"))
	var offset *OffsetError
	assert.True(t, errors.As(err, &offset))
}

func TestIntegral(t *testing.T) {
	n, ok := Integral(50000)
	assert.True(t, ok)
	assert.Equal(t, int64(50000), n)

	_, ok = Integral(0.5)
	assert.False(t, ok)
	_, ok = Integral(1e300)
	assert.False(t, ok)
}
