package program

import (
	"fmt"
	"strings"

	"github.com/gogpu/tilepaint"
)

// attributeNameExceptions lists properties whose shader attribute
// name differs from the mechanical transform, and the pattern
// properties that need two names. Everything else strips the
// "<layerType>-" prefix and maps "-" to "_".
var attributeNameExceptions = map[string][]string{
	"text-opacity":           {"opacity"},
	"icon-opacity":           {"opacity"},
	"text-color":             {"fill_color"},
	"icon-color":             {"fill_color"},
	"text-halo-color":        {"halo_color"},
	"icon-halo-color":        {"halo_color"},
	"text-halo-blur":         {"halo_blur"},
	"icon-halo-blur":         {"halo_blur"},
	"text-halo-width":        {"halo_width"},
	"icon-halo-width":        {"halo_width"},
	"line-gap-width":         {"gapwidth"},
	"line-pattern":           {"pattern_to", "pattern_from"},
	"fill-pattern":           {"pattern_to", "pattern_from"},
	"fill-extrusion-pattern": {"pattern_to", "pattern_from"},
}

// PaintAttributeNames resolves a paint property to its shader
// attribute base names. Most properties map to a single name; pattern
// properties map to two. The returned names carry no "a_"/"u_"
// prefix.
func PaintAttributeNames(property, layerType string) []string {
	if names, ok := attributeNameExceptions[property]; ok {
		return names
	}
	name := strings.TrimPrefix(property, layerType+"-")
	return []string{strings.ReplaceAll(name, "-", "_")}
}

// patternComponents is the packed layout width of one pattern
// attribute: the content rectangle as tl.x, tl.y, br.x, br.y.
const patternComponents = 4

// PackedComponents returns the packed-float layout width for one
// attribute of a data-driven property. Pattern (cross-faded)
// properties always use the fixed four-component rectangle layout
// regardless of value kind.
//
// An unknown (kind, mode) pair indicates a style/schema mismatch and
// panics; it must not be silently tolerated.
func PackedComponents(kind tilepaint.ValueKind, mode tilepaint.BindKind, crossFaded bool) int {
	if crossFaded {
		return patternComponents
	}
	switch {
	case kind == tilepaint.KindColor && mode == tilepaint.BindSource:
		return 2
	case kind == tilepaint.KindColor && mode == tilepaint.BindComposite:
		return 4
	case kind == tilepaint.KindNumber && mode == tilepaint.BindSource:
		return 1
	case kind == tilepaint.KindNumber && mode == tilepaint.BindComposite:
		return 2
	}
	panic(fmt.Sprintf("program: no packed layout for %v %v", kind, mode))
}
