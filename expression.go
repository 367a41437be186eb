package tilepaint

// EvaluationParams carries the global state visible to an expression
// during evaluation.
type EvaluationParams struct {
	// Zoom is the zoom level the expression is evaluated at.
	Zoom float64
}

// FeatureState is an opaque bag of externally managed per-feature
// state (hover, selection, and similar). The store diffing lives
// outside tilepaint; binders only ever receive the state for ids that
// changed.
type FeatureState map[string]any

// FeatureStates maps stringified feature ids to their current state.
type FeatureStates map[string]FeatureState

// Expression evaluates a paint property for one feature.
//
// Evaluation semantics (interpolation curves, property lookup, type
// coercion) are owned by the style engine; tilepaint only calls
// Evaluate and stores the result.
type Expression interface {
	// Kind returns the value kind the expression produces. It is
	// fixed for the lifetime of the expression and drives packed
	// buffer layout selection.
	Kind() ValueKind

	// IsStateDependent reports whether re-evaluating with feature
	// state can change the result. Binders whose expression is not
	// state dependent are skipped during feature-state updates.
	IsStateDependent() bool

	// Evaluate computes the property value for feature at params.Zoom.
	// state may be nil when no feature state applies.
	Evaluate(params EvaluationParams, feature *Feature, state FeatureState) Value
}

// PatternExpression evaluates a pattern image name for one feature.
// Cross-faded binders resolve the returned name through the image
// atlas.
type PatternExpression interface {
	// IsStateDependent reports whether re-evaluating with feature
	// state can change the result.
	IsStateDependent() bool

	// Evaluate returns the pattern image name for feature at
	// params.Zoom.
	Evaluate(params EvaluationParams, feature *Feature, state FeatureState) string
}
