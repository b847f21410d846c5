package umath

import "math"

// Some functions that only operate on basic types, that are useful

func Clamp(f, min, max float64) float64 {
	if f < min { return min }
	if f > max { return max }
	return f
}

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]. Note this is the *display*
// encode, used when dumping linear planes as viewable images; the
// unprocessing pipeline's own gamma inversion is a plain power law.
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}
