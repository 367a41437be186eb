package program

import (
	"math"

	"github.com/gogpu/tilepaint"
)

// packUint8Pair combines two 8-bit values into a single float the
// shader can split back apart. The result stays exactly
// representable in a float32 mantissa (max 65535).
func packUint8Pair(a, b float64) float32 {
	return float32(math.Floor(clampByte(a))*256 + math.Floor(clampByte(b)))
}

// PackColor encodes a color as two packed floats: (r, g) and (b, a),
// each channel pair combined via packUint8Pair. A color therefore
// always occupies twice as many floats as channel pairs.
func PackColor(c tilepaint.Color) [2]float32 {
	return [2]float32{
		packUint8Pair(255*c.R, 255*c.G),
		packUint8Pair(255*c.B, 255*c.A),
	}
}

// clampByte clamps v to the [0, 255] range.
func clampByte(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
