package generator

import (
	"math"
	"strings"

	"github.com/getmockd/specmock/pkg/schema"
)

// StringStrategy produces strings honoring format, property name and length.
type StringStrategy struct{}

// Name implements Strategy.
func (StringStrategy) Name() string { return "string" }

// CanHandle implements Strategy.
func (StringStrategy) CanHandle(n *schema.Node) bool { return n.Type == schema.TypeString }

// Produce implements Strategy.
func (StringStrategy) Produce(n *schema.Node, w Walker) (any, error) {
	s := ""
	if n.Format != "" {
		s = stringByFormat(n.Format, w)
	}
	if s == "" && w.PropertyName() != "" {
		s = stringByFieldName(w.PropertyName(), w)
	}
	if s == "" {
		s = "string"
	}
	return fitLength(s, n.MinLength, n.MaxLength), nil
}

// fitLength pads or truncates s to satisfy minLength/maxLength. Padding
// stops at maxPadLength.
func fitLength(s string, minLen, maxLen *int) string {
	if minLen != nil {
		if target := min(*minLen, maxPadLength); len(s) < target {
			s += strings.Repeat("x", target-len(s))
		}
	}
	if maxLen != nil && *maxLen >= 0 && len(s) > *maxLen {
		s = s[:*maxLen]
	}
	return s
}

// NumberStrategy produces numbers and integers at the lower bound of the
// declared range, or zero when the range allows it. A number with an
// exclusive lower bound takes the midpoint of the open interval.
type NumberStrategy struct{}

// Name implements Strategy.
func (NumberStrategy) Name() string { return "number" }

// CanHandle implements Strategy.
func (NumberStrategy) CanHandle(n *schema.Node) bool {
	return n.Type == schema.TypeNumber || n.Type == schema.TypeInteger
}

// Produce implements Strategy.
func (NumberStrategy) Produce(n *schema.Node, _ Walker) (any, error) {
	if n.Type == schema.TypeInteger {
		return integerInRange(n), nil
	}
	return numberInRange(n), nil
}

func integerInRange(n *schema.Node) int64 {
	v := 0.0
	if n.Minimum != nil {
		v = math.Ceil(*n.Minimum)
		if n.ExclusiveMinimum && v == *n.Minimum {
			v++
		}
	}
	if n.Maximum != nil {
		hi := math.Floor(*n.Maximum)
		if n.ExclusiveMaximum && hi == *n.Maximum {
			hi--
		}
		if v > hi {
			v = hi
		}
	}
	return int64(v)
}

func numberInRange(n *schema.Node) float64 {
	lo, hi := n.Minimum, n.Maximum
	v := 0.0
	if lo != nil {
		v = *lo
		if n.ExclusiveMinimum {
			if hi != nil {
				return (*lo + *hi) / 2
			}
			v = *lo + 1
		}
	}
	if hi != nil && (v > *hi || (n.ExclusiveMaximum && v >= *hi)) {
		switch {
		case lo != nil:
			v = (*lo + *hi) / 2
		case n.ExclusiveMaximum:
			v = *hi - 1
		default:
			v = *hi
		}
	}
	return v
}

// BooleanStrategy always produces true.
type BooleanStrategy struct{}

// Name implements Strategy.
func (BooleanStrategy) Name() string { return "boolean" }

// CanHandle implements Strategy.
func (BooleanStrategy) CanHandle(n *schema.Node) bool { return n.Type == schema.TypeBoolean }

// Produce implements Strategy.
func (BooleanStrategy) Produce(*schema.Node, Walker) (any, error) { return true, nil }

// NullStrategy produces null for the "null" type.
type NullStrategy struct{}

// Name implements Strategy.
func (NullStrategy) Name() string { return "null" }

// CanHandle implements Strategy.
func (NullStrategy) CanHandle(n *schema.Node) bool { return n.Type == schema.TypeNull }

// Produce implements Strategy.
func (NullStrategy) Produce(*schema.Node, Walker) (any, error) { return nil, nil }
