package unprocess

import(
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/abworrall/unprocess/pkg/umath"
)

var(
	// XYZ -> camera-native CCMs measured from four real sensors.
	// Downstream benchmarks expect these exact values, so don't
	// "improve" them.
	xyz2cams = []umath.Mat3{
		{ 1.0234, -0.2969, -0.2266,
		 -0.5625,  1.6328, -0.0469,
		 -0.0703,  0.2188,  0.6406},
		{ 0.4913, -0.0541, -0.0202,
		 -0.6130,  1.3513,  0.2906,
		 -0.1564,  0.2151,  0.7183},
		{ 0.8380, -0.2630, -0.0639,
		 -0.2887,  1.0725,  0.2496,
		 -0.0627,  0.1427,  0.5438},
		{ 0.6596, -0.2079, -0.0562,
		 -0.4782,  1.3016,  0.1933,
		 -0.0970,  0.1581,  0.5181},
	}

	// Translates linear sRGB(D65) to XYZ
	// http://www.brucelindbloom.com/index.html?Eqn_RGB_XYZ_Matrix.html
	RGBToXYZ = umath.Mat3{
		0.4124564, 0.3575761, 0.1804375,
		0.2126729, 0.7151522, 0.0721750,
		0.0193339, 0.1191920, 0.9503041,
	}
)

// A CameraModel is everything a downstream re-processing step needs
// to undo what the unprocessing pipeline did: the color correction
// matrix in both directions, and the white balance / brightening
// gains. Built fresh per pipeline invocation, never mutated after.
type CameraModel struct {
	Cam2Rgb  umath.Mat3 `yaml:"cam2rgb,flow"`
	Rgb2Cam  umath.Mat3 `yaml:"rgb2cam,flow"`
	RgbGain  float64    `yaml:"rgb_gain"`
	RedGain  float64    `yaml:"red_gain"`
	BlueGain float64    `yaml:"blue_gain"`
}

// RandomCCM generates a random RGB -> camera color correction matrix,
// as a convex combination of the four reference sensors. The weights
// span many orders of magnitude, so in practice one sensor usually
// dominates. Each row of the result is normalized to sum to 1, which
// keeps neutral grays neutral.
func RandomCCM(src rand.Source) umath.Mat3 {
	u := distuv.Uniform{Min: 1e-8, Max: 1e8, Src: src}

	xyz2cam := umath.Mat3{}
	weightSum := 0.0
	for _, m := range xyz2cams {
		w := u.Rand()
		xyz2cam = xyz2cam.Add(m.Scale(w))
		weightSum += w
	}
	xyz2cam = xyz2cam.Scale(1.0 / weightSum)

	rgb2cam := xyz2cam.Mult(RGBToXYZ)
	return rgb2cam.RowNormalize()
}

// RandomGains generates random gains for brightening and white
// balance. The rgb gain models brightening as division by a random
// factor centred below 1, so it has a long upper tail - deliberately
// left unclamped to match the reference distribution. We only
// resample if the draw is non-positive (an 8-sigma event), since that
// would flip the gain's sign rather than merely make it large.
func RandomGains(cfg Config, src rand.Source) (rgbGain, redGain, blueGain float64) {
	n := distuv.Normal{Mu: 0.8, Sigma: 0.1, Src: src}
	s := n.Rand()
	for s <= 0 { s = n.Rand() }
	rgbGain = cfg.RgbGainRatio / s

	redGain  = distuv.Uniform{Min: cfg.RedGainRange[0], Max: cfg.RedGainRange[1], Src: src}.Rand()
	blueGain = distuv.Uniform{Min: cfg.BlueGainRange[0], Max: cfg.BlueGainRange[1], Src: src}.Rand()
	return rgbGain, redGain, blueGain
}

// RandomNoiseLevels generates a (shot, read) noise pair from a
// log-log linear distribution: log read noise tracks log shot noise
// along an empirically fitted line, plus log-normal scatter. This is
// how the two correlate in real sensors.
func RandomNoiseLevels(src rand.Source) (shotNoise, readNoise float64) {
	logShot := distuv.Uniform{Min: math.Log(0.0001), Max: math.Log(0.012), Src: src}.Rand()
	logRead := 2.18*logShot + 1.20 + distuv.Normal{Mu: 0.0, Sigma: 0.26, Src: src}.Rand()
	return math.Exp(logShot), math.Exp(logRead)
}

// RandomNoiseLevelsKPN is an alternate sampler where the two levels
// are independent. It pairs with the raw-sigma noise convention
// (read_noise_exponent other than 2), not the squared one.
func RandomNoiseLevelsKPN(src rand.Source) (sigmaShot, sigmaRead float64) {
	sigmaShot = math.Pow(10, distuv.Uniform{Min: -4.0, Max: -2.0, Src: src}.Rand())
	sigmaRead = math.Pow(10, distuv.Uniform{Min: -3.0, Max: -1.5, Src: src}.Rand())
	return sigmaShot, sigmaRead
}

// RandomCameraModel draws a full camera model: CCM (both directions)
// plus gains. The fixed reference CCMs and positive weights mean the
// inversion should never actually fail, but if it does we want an
// error, not NaNs.
func RandomCameraModel(cfg Config, src rand.Source) (CameraModel, error) {
	rgb2cam := RandomCCM(src)
	cam2rgb, err := rgb2cam.Inverse()
	if err != nil {
		return CameraModel{}, fmt.Errorf("%w: rgb2cam:\n%s", ErrSingular, rgb2cam)
	}

	rgbGain, redGain, blueGain := RandomGains(cfg, src)

	return CameraModel{
		Cam2Rgb:  cam2rgb,
		Rgb2Cam:  rgb2cam,
		RgbGain:  rgbGain,
		RedGain:  redGain,
		BlueGain: blueGain,
	}, nil
}
