package unprocess

import(
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func constImage(chans, h, w int, v float64) *Image {
	im := NewImage(chans, h, w)
	for i := range im.values {
		im.values[i] = v
	}
	return im
}

func TestAddNoiseSeededIsDeterministic(t *testing.T) {
	im := constImage(4, 4, 4, 0.5)

	a, err := AddNoiseSeeded(im, 0.01, 0.0005, 42)
	require.NoError(t, err)
	b, err := AddNoiseSeeded(im, 0.01, 0.0005, 42)
	require.NoError(t, err)

	// Same counter, bit-identical field
	assert.Equal(t, a.values, b.values)

	c, err := AddNoiseSeeded(im, 0.01, 0.0005, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a.values, c.values)
}

func TestAddNoiseActuallyPerturbs(t *testing.T) {
	im := constImage(4, 4, 4, 0.5)

	out, err := AddNoise(im, 0.01, 0.0005, 2.0, rand.NewSource(7))
	require.NoError(t, err)

	assert.NotEqual(t, im.values, out.values)
	assert.True(t, out.AllFinite())
}

func TestAddNoiseZeroLevelsIsIdentity(t *testing.T) {
	im := constImage(3, 4, 4, 0.5)

	out, err := AddNoise(im, 0.0, 0.0, 2.0, rand.NewSource(8))
	require.NoError(t, err)
	assert.Equal(t, im.values, out.values)
}

func TestAddNoiseRejectsNegativeLevels(t *testing.T) {
	im := constImage(3, 2, 2, 0.5)

	_, err := AddNoise(im, -0.01, 0.0005, 2.0, rand.NewSource(9))
	assert.ErrorIs(t, err, ErrDomain)

	_, err = AddNoise(im, 0.01, -0.0005, 2.0, rand.NewSource(9))
	assert.ErrorIs(t, err, ErrDomain)
}

func TestAddNoiseVarianceFloorGuard(t *testing.T) {
	// A slightly negative pixel with tiny read noise pushes the
	// variance below zero; it must be floored, not become NaN.
	im := constImage(3, 2, 2, -0.001)

	out, err := AddNoise(im, 0.01, 0.0, 2.0, rand.NewSource(10))
	require.NoError(t, err)
	assert.True(t, out.AllFinite())
}
