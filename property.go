package tilepaint

// BindKind classifies how a paint property value varies.
type BindKind uint8

// Bind kind constants.
const (
	// BindConstant is a single fixed value per layer.
	BindConstant BindKind = iota

	// BindSource is a per-feature, zoom-independent value.
	BindSource

	// BindComposite is a per-feature, zoom-dependent value.
	BindComposite
)

// String returns a human-readable name for the bind kind.
func (k BindKind) String() string {
	switch k {
	case BindConstant:
		return "Constant"
	case BindSource:
		return "Source"
	case BindComposite:
		return "Composite"
	default:
		return "Unknown"
	}
}

// CrossFadedPattern is a {from, to} pair of pattern image names used
// by constant cross-faded properties during a zoom transition.
type CrossFadedPattern struct {
	From string
	To   string
}

// PropertyValue is the declarative value of one paint property as
// owned by the style layer. It is a read-only input to the binding
// machinery.
//
// Exactly one value source is meaningful for a given Kind/CrossFaded
// combination:
//
//	Constant, normal       -> Constant
//	Constant, cross-faded  -> ConstantPattern
//	Source/Composite       -> Expression (or Pattern when cross-faded)
type PropertyValue struct {
	// Kind classifies how the value varies.
	Kind BindKind

	// DataDriven reports that the property's schema permits
	// per-feature values. Constant-valued data-driven properties
	// still bind, as shader uniforms; properties that are not
	// data-driven capable are never bound at all.
	DataDriven bool

	// CrossFaded marks pattern properties that blend between two
	// scaled variants during zoom transitions.
	CrossFaded bool

	// UseIntegerZoom floors the zoom used for the draw-time
	// interpolation factor of composite values.
	UseIntegerZoom bool

	// Constant is the fixed value for constant, non-pattern
	// properties.
	Constant Value

	// ConstantPattern is the fixed pattern pair for constant
	// cross-faded properties.
	ConstantPattern CrossFadedPattern

	// Expression evaluates source and composite values.
	Expression Expression

	// Pattern evaluates pattern names for cross-faded composite
	// properties.
	Pattern PatternExpression
}

// ConstantProperty returns a data-driven-capable property fixed to a
// constant value.
func ConstantProperty(v Value) PropertyValue {
	return PropertyValue{Kind: BindConstant, DataDriven: true, Constant: v}
}

// FixedProperty returns a property whose schema does not permit
// per-feature values. It never receives a binder.
func FixedProperty(v Value) PropertyValue {
	return PropertyValue{Kind: BindConstant, Constant: v}
}

// SourceProperty returns a per-feature, zoom-independent property.
func SourceProperty(e Expression) PropertyValue {
	return PropertyValue{Kind: BindSource, DataDriven: true, Expression: e}
}

// CompositeProperty returns a per-feature, zoom-dependent property.
func CompositeProperty(e Expression, useIntegerZoom bool) PropertyValue {
	return PropertyValue{
		Kind:           BindComposite,
		DataDriven:     true,
		UseIntegerZoom: useIntegerZoom,
		Expression:     e,
	}
}

// CrossFadedConstantProperty returns a constant pattern property
// blending from one image to another.
func CrossFadedConstantProperty(from, to string) PropertyValue {
	return PropertyValue{
		Kind:            BindConstant,
		DataDriven:      true,
		CrossFaded:      true,
		ConstantPattern: CrossFadedPattern{From: from, To: to},
	}
}

// CrossFadedCompositeProperty returns a per-feature pattern property.
func CrossFadedCompositeProperty(p PatternExpression) PropertyValue {
	return PropertyValue{
		Kind:       BindComposite,
		DataDriven: true,
		CrossFaded: true,
		Pattern:    p,
	}
}

// IsConstant reports whether the property holds a single fixed value.
func (p PropertyValue) IsConstant() bool {
	return p.Kind == BindConstant
}
