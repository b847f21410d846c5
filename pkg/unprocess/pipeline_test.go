package unprocess

import(
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestUnprocessEndToEnd(t *testing.T) {
	im := constImage(3, 4, 4, 0.5)

	out, meta, err := Unprocess(im, NewConfig(), rand.NewSource(11))
	require.NoError(t, err)

	assert.Equal(t, 4, out.Chans())
	assert.Equal(t, 2, out.Dy())
	assert.Equal(t, 2, out.Dx())
	assert.True(t, out.AllFinite())
	for _, v := range out.values {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}

	// The metadata record must be fully populated and self-consistent
	assert.Greater(t, meta.RgbGain, 0.0)
	assert.GreaterOrEqual(t, meta.RedGain, 1.9)
	assert.LessOrEqual(t, meta.RedGain, 2.4)
	assert.GreaterOrEqual(t, meta.BlueGain, 1.5)
	assert.LessOrEqual(t, meta.BlueGain, 1.9)

	prod := meta.Cam2Rgb.Mult(meta.Rgb2Cam)
	identity := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	for i:=0; i<9; i++ {
		assert.InDelta(t, identity[i], prod[i], 1e-9)
	}
}

func TestUnprocessGTKeepsResolution(t *testing.T) {
	im := constImage(3, 6, 8, 0.5)

	out, _, err := UnprocessGT(im, NewConfig(), rand.NewSource(12))
	require.NoError(t, err)

	assert.Equal(t, 3, out.Chans())
	assert.Equal(t, 6, out.Dy())
	assert.Equal(t, 8, out.Dx())
	for _, v := range out.values {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestUnprocessWithMetaIsDeterministic(t *testing.T) {
	im := constImage(3, 4, 4, 0.3)

	meta, err := RandomCameraModel(NewConfig(), rand.NewSource(13))
	require.NoError(t, err)

	a, metaA, err := UnprocessWithMeta(im, meta)
	require.NoError(t, err)
	b, metaB, err := UnprocessWithMeta(im, meta)
	require.NoError(t, err)

	// No hidden randomness beyond the explicit camera model
	assert.Equal(t, a.values, b.values)
	assert.Equal(t, metaA, metaB)
	assert.Equal(t, meta, metaA)
}

func TestUnprocessWithMetaMatchesGT(t *testing.T) {
	im := constImage(3, 4, 4, 0.7)
	cfg := NewConfig()

	gt, meta, err := UnprocessGT(im, cfg, rand.NewSource(14))
	require.NoError(t, err)

	replay, _, err := UnprocessWithMeta(im, meta)
	require.NoError(t, err)

	assert.Equal(t, gt.values, replay.values)
}

func TestUnprocessRejectsOddDimensions(t *testing.T) {
	im := constImage(3, 5, 4, 0.5)

	_, _, err := Unprocess(im, NewConfig(), rand.NewSource(15))
	assert.ErrorIs(t, err, ErrShape)
}

func TestUnprocessRejectsWrongChannelCount(t *testing.T) {
	im := constImage(1, 4, 4, 0.5)

	_, _, err := Unprocess(im, NewConfig(), rand.NewSource(16))
	assert.ErrorIs(t, err, ErrShape)
}

func TestUnprocessLeavesInputUntouched(t *testing.T) {
	im := constImage(3, 4, 4, 0.5)
	orig := im.Copy()

	_, _, err := Unprocess(im, NewConfig(), rand.NewSource(17))
	require.NoError(t, err)

	assert.Equal(t, orig.values, im.values)
}
