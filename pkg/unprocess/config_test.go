package unprocess

import(
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, 1.0, c.RgbGainRatio)
	assert.Equal(t, [2]float64{1.9, 2.4}, c.RedGainRange)
	assert.Equal(t, [2]float64{1.5, 1.9}, c.BlueGainRange)
	assert.NoError(t, c.FinalizeConfig())
}

func TestLoadConfigOverrides(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "unprocess.yaml")
	contents := "rgbgainratio: 0.5\nredgainrange: [2.0, 2.2]\n"
	require.NoError(t, os.WriteFile(fname, []byte(contents), 0644))

	c, err := LoadConfig(fname)
	require.NoError(t, err)

	assert.Equal(t, 0.5, c.RgbGainRatio)
	assert.Equal(t, [2]float64{2.0, 2.2}, c.RedGainRange)
	// Unmentioned fields keep their defaults
	assert.Equal(t, [2]float64{1.5, 1.9}, c.BlueGainRange)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFinalizeConfigRejectsBadRanges(t *testing.T) {
	c := NewConfig()
	c.RgbGainRatio = 0
	assert.ErrorIs(t, c.FinalizeConfig(), ErrDomain)

	c = NewConfig()
	c.RedGainRange = [2]float64{2.4, 1.9} // reversed
	assert.ErrorIs(t, c.FinalizeConfig(), ErrDomain)

	c = NewConfig()
	c.BlueGainRange = [2]float64{-1.0, 1.9}
	assert.ErrorIs(t, c.FinalizeConfig(), ErrDomain)
}
