package unprocess

import(
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// AddNoise adds heteroscedastic Gaussian noise: per-pixel variance is
// image*shotNoise + readNoise^readNoiseExponent, i.e. a Poisson-like
// term proportional to the signal plus a constant read-noise floor.
// Use exponent 2 with RandomNoiseLevels (which samples variances) or
// another convention with RandomNoiseLevelsKPN (which samples sigmas).
//
// Note the orchestrator never calls this - the surrounding pipeline
// decides when and whether to add noise, typically right after
// unprocessing the mosaiced image.
func AddNoise(im *Image, shotNoise, readNoise, readNoiseExponent float64, src rand.Source) (*Image, error) {
	if shotNoise < 0 || readNoise < 0 {
		return nil, fmt.Errorf("%w: noise levels (%g, %g) must be non-negative", ErrDomain, shotNoise, readNoise)
	}

	n := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: src}
	floor := math.Pow(readNoise, readNoiseExponent)

	out := im.NewFromThis()
	for i, v := range im.values {
		variance := v*shotNoise + floor
		if variance < 0 { variance = 0 } // -ve pixels can push it just below zero
		out.values[i] = v + n.Rand()*math.Sqrt(variance)
	}
	return out, nil
}

// AddNoiseSeeded is AddNoise with a fixed read-noise exponent of 2
// and an explicit integer counter as the RNG seed, so the same count
// always produces bit-identical output. For reproducible fixtures.
func AddNoiseSeeded(im *Image, shotNoise, readNoise float64, count int) (*Image, error) {
	return AddNoise(im, shotNoise, readNoise, 2.0, rand.NewSource(uint64(count)))
}
