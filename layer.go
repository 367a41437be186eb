package tilepaint

// Layer is the paint-relevant slice of a style layer: its identity,
// its geometry type, and the declarative values of its paint
// properties.
type Layer struct {
	// ID uniquely identifies the layer within its style.
	ID string

	// Type is the layer's geometry type ("fill", "line", "symbol",
	// "fill-extrusion", ...). It drives the mechanical attribute name
	// transform: the "<type>-" prefix is stripped from property names.
	Type string

	// Paint maps paint property names to their declared values.
	Paint map[string]PropertyValue

	// PaintOverrides holds runtime overrides for constant-bound
	// properties, e.g. a symbol's text color overridden by a format
	// section. An override replaces the constant at uniform-set time
	// without rebuilding binders.
	PaintOverrides map[string]Value
}

// PaintProperty returns the declared value of a paint property.
func (l *Layer) PaintProperty(name string) (PropertyValue, bool) {
	v, ok := l.Paint[name]
	return v, ok
}

// ConstantValue returns the effective constant value of a property:
// the runtime override when present, the declared constant otherwise.
func (l *Layer) ConstantValue(name string) Value {
	if v, ok := l.PaintOverrides[name]; ok {
		return v
	}
	return l.Paint[name].Constant
}
