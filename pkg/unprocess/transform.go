package unprocess

import(
	"fmt"
	"math"

	"github.com/abworrall/unprocess/pkg/umath"
)

// The colorimetric stages. Each takes a (channel, row, col) image and
// returns a fresh one in the same layout; they run in the reverse
// order of a real camera's processing pipeline (tone curve first,
// gains last), since we're undoing it.

// InverseSmoothstep approximately inverts a global tone mapping
// curve. Cameras roll off highlights and shadows with something close
// to the smoothstep cubic y = 3x^2 - 2x^3, which inverts analytically:
// x = 0.5 - sin(asin(1 - 2y) / 3). Input is clamped to [0,1] first,
// since asin wants its argument in [-1,1].
func InverseSmoothstep(im *Image) *Image {
	out := im.NewFromThis()
	for i, v := range im.values {
		v = umath.Clamp(v, 0.0, 1.0)
		out.values[i] = 0.5 - math.Sin(math.Asin(1.0-2.0*v)/3.0)
	}
	return out
}

// GammaExpansion converts from gamma to linear space via x^2.2. The
// base is floored at 1e-8 to keep the power law well-behaved at zero.
func GammaExpansion(im *Image) *Image {
	out := im.NewFromThis()
	for i, v := range im.values {
		if v < 1e-8 { v = 1e-8 }
		out.values[i] = math.Pow(v, 2.2)
	}
	return out
}

// ApplyCCM applies a color correction matrix to every pixel.
func ApplyCCM(im *Image, ccm umath.Mat3) (*Image, error) {
	if im.chans != 3 {
		return nil, fmt.Errorf("%w: ApplyCCM wants 3 channels, got %d", ErrShape, im.chans)
	}

	out := im.NewFromThis()
	for y:=0; y<im.height; y++ {
		for x:=0; x<im.width; x++ {
			out.SetPixel(y, x, ccm.Apply(im.Pixel(y, x)))
		}
	}
	return out, nil
}

// SafeInvertGains inverts white balance and brightening, while
// protecting highlights. Naively dividing out the gains would darken
// pixels that the camera had clipped to white, leaving ugly gray
// blotches where specular highlights were. So we compute a per-pixel
// mask that ramps up as the pixel's mean channel value passes 0.9,
// and blend the effective gain back toward 1 under that mask. An
// artifact-avoidance heuristic, not physics.
func SafeInvertGains(im *Image, rgbGain, redGain, blueGain float64) (*Image, error) {
	if im.chans != 3 {
		return nil, fmt.Errorf("%w: SafeInvertGains wants 3 channels, got %d", ErrShape, im.chans)
	}
	if rgbGain <= 0 || redGain <= 0 || blueGain <= 0 {
		return nil, fmt.Errorf("%w: gains (%f, %f, %f) must be positive", ErrDomain, rgbGain, redGain, blueGain)
	}

	gains := umath.Vec3{1.0 / redGain, 1.0, 1.0 / blueGain}
	for c:=0; c<3; c++ { gains[c] /= rgbGain }

	inflection := 0.9

	out := im.NewFromThis()
	for y:=0; y<im.height; y++ {
		for x:=0; x<im.width; x++ {
			p := im.Pixel(y, x)
			gray := (p[0] + p[1] + p[2]) / 3.0
			mask := umath.Clamp((gray-inflection)/(1.0-inflection), 0.0, 1.0)
			mask = mask * mask

			for c:=0; c<3; c++ {
				safeGain := mask + (1.0-mask)*gains[c]
				if gains[c] > safeGain { safeGain = gains[c] }
				out.Set(c, y, x, p[c]*safeGain)
			}
		}
	}
	return out, nil
}
