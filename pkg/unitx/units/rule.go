package units

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleKind tags the variant held by a Rule.
type RuleKind int

const (
	// Linear rules scale into the category's base unit: base = v * Scale.
	Linear RuleKind = iota
	// Affine rules also shift: base = v * Scale + Offset (temperatures).
	Affine
)

func (k RuleKind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Affine:
		return "affine"
	}
	return fmt.Sprintf("RuleKind(%d)", int(k))
}

// Rule converts a value between a unit and its category's base unit.
type Rule struct {
	Kind   RuleKind
	Scale  float64
	Offset float64
}

// LinearRule returns a rule that only scales.
func LinearRule(scale float64) Rule {
	return Rule{Kind: Linear, Scale: scale}
}

// AffineRule returns a rule that scales then shifts.
func AffineRule(scale, offset float64) Rule {
	return Rule{Kind: Affine, Scale: scale, Offset: offset}
}

// ToBase converts v from this unit to the base unit.
func (r Rule) ToBase(v float64) float64 {
	if r.Kind == Affine {
		return v*r.Scale + r.Offset
	}
	return v * r.Scale
}

// FromBase converts v from the base unit to this unit.
func (r Rule) FromBase(v float64) float64 {
	if r.Kind == Affine {
		return (v - r.Offset) / r.Scale
	}
	return v / r.Scale
}

// IsLinear reports whether the rule has no offset.
func (r Rule) IsLinear() bool {
	return r.Kind == Linear || r.Offset == 0
}

// UnmarshalYAML accepts either a bare number (a linear scale) or a mapping
// with 'scale' and an optional 'offset'.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var scale float64
		if err := value.Decode(&scale); err != nil {
			return fmt.Errorf("line %d: unit scale must be a number: %w", value.Line, err)
		}
		*r = LinearRule(scale)
		return nil

	case yaml.MappingNode:
		var raw struct {
			Scale  *float64 `yaml:"scale"`
			Offset float64  `yaml:"offset"`
		}
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		if raw.Scale == nil {
			return fmt.Errorf("line %d: unit rule is missing 'scale'", value.Line)
		}
		if raw.Offset == 0 {
			*r = LinearRule(*raw.Scale)
		} else {
			*r = AffineRule(*raw.Scale, raw.Offset)
		}
		return nil
	}

	return fmt.Errorf("line %d: unit rule must be a number or a mapping", value.Line)
}
