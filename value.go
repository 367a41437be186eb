package tilepaint

import "fmt"

// ValueKind identifies the type of an evaluated paint value.
type ValueKind uint8

// Value kind constants.
const (
	// KindNumber is a scalar numeric value (width, opacity, blur).
	KindNumber ValueKind = iota

	// KindColor is an RGBA color value.
	KindColor
)

// String returns a human-readable name for the value kind.
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindColor:
		return "Color"
	default:
		return "Unknown"
	}
}

// Value is an evaluated paint property value: either a number or a
// color. It is a closed tagged variant; only the field matching Kind
// is meaningful.
type Value struct {
	Kind   ValueKind
	Number float64
	Color  Color
}

// NumberValue wraps a scalar as a paint value.
func NumberValue(v float64) Value {
	return Value{Kind: KindNumber, Number: v}
}

// ColorValue wraps a color as a paint value.
func ColorValue(c Color) Value {
	return Value{Kind: KindColor, Color: c}
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.Kind {
	case KindColor:
		return fmt.Sprintf("rgba(%g, %g, %g, %g)", v.Color.R, v.Color.G, v.Color.B, v.Color.A)
	default:
		return fmt.Sprintf("%g", v.Number)
	}
}
