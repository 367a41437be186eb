package tilepaint

// CrossfadeParameters describes the blend between two pattern scales
// during a zoom transition. FromScale is 2 while zooming in (the
// outgoing pattern is the double-scale one) and 0.5 while zooming out;
// ToScale is always 1. T is the blend fraction in [0, 1].
type CrossfadeParameters struct {
	FromScale float64
	ToScale   float64
	T         float64
}

// CrossfadeForZoom returns the cross-fade parameters for an
// in-progress zoom transition. fraction is the progress of the
// transition in [0, 1]; zoomingIn selects the transition direction.
func CrossfadeForZoom(fraction float64, zoomingIn bool) CrossfadeParameters {
	p := CrossfadeParameters{FromScale: 0.5, ToScale: 1, T: clamp01(fraction)}
	if zoomingIn {
		p.FromScale = 2
	}
	return p
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
