package unprocess

import(
	"fmt"

	"golang.org/x/exp/rand"
)

// The orchestrator. Unprocessing inverts the usual camera processing
// order: tone curve, then gamma, then color correction, then white
// balance / brightening, then the Bayer mosaic. All the randomness
// comes from the caller-owned rand.Source, so independent images can
// be unprocessed in parallel with one Source each, and a fixed seed
// replays the same camera model.

// Unprocess converts an sRGB image into an approximation of raw
// sensor data: a mosaiced 4-channel linear image plus the camera
// model needed to reverse the transform. Noise is NOT added here; see
// AddNoise.
func Unprocess(im *Image, cfg Config, src rand.Source) (*Image, CameraModel, error) {
	out, meta, err := UnprocessGT(im, cfg, src)
	if err != nil {
		return nil, meta, err
	}

	out, err = Mosaic(out)
	return out, meta, err
}

// UnprocessGT is Unprocess without the mosaic step - a full
// resolution 3-channel linear image, for use as the clean training
// target paired with a mosaiced/noisy input.
func UnprocessGT(im *Image, cfg Config, src rand.Source) (*Image, CameraModel, error) {
	meta, err := RandomCameraModel(cfg, src)
	if err != nil {
		return nil, meta, err
	}

	out, _, err := UnprocessWithMeta(im, meta)
	return out, meta, err
}

// UnprocessWithMeta runs the same chain as UnprocessGT but with a
// caller-supplied camera model instead of sampling a new one. This is
// how you generate a second image (say, a different exposure of the
// same scene) consistent with a previously drawn camera. Given the
// same model and input it is fully deterministic.
func UnprocessWithMeta(im *Image, meta CameraModel) (*Image, CameraModel, error) {
	if im.chans != 3 {
		return nil, meta, fmt.Errorf("%w: unprocess wants 3 channels, got %d", ErrShape, im.chans)
	}

	// Approximately inverts global tone mapping.
	out := InverseSmoothstep(im)
	// Inverts gamma compression.
	out = GammaExpansion(out)
	// Inverts color correction.
	out, err := ApplyCCM(out, meta.Rgb2Cam)
	if err != nil {
		return nil, meta, err
	}
	// Approximately inverts white balance and brightening.
	out, err = SafeInvertGains(out, meta.RgbGain, meta.RedGain, meta.BlueGain)
	if err != nil {
		return nil, meta, err
	}
	// Clips saturated pixels.
	out = out.Clamp(0.0, 1.0)

	if !out.AllFinite() {
		return nil, meta, fmt.Errorf("%w: non-finite pixels after unprocessing %s", ErrDomain, out.Stats())
	}
	return out, meta, nil
}
