package unprocess

import(
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

/* Example config file ...

rgbgainratio: 1.0
redgainrange: [1.9, 2.4]
bluegainrange: [1.5, 1.9]

*/

// Config holds the tunable parts of the camera-model sampler. The
// zero value is useless; start from NewConfig, whose defaults match
// the reference distributions.
type Config struct {
	RgbGainRatio  float64    `yaml:"rgbgainratio"`
	RedGainRange  [2]float64 `yaml:"redgainrange,flow"`
	BlueGainRange [2]float64 `yaml:"bluegainrange,flow"`
}

func NewConfig() Config {
	return Config{
		RgbGainRatio:  1.0,
		RedGainRange:  [2]float64{1.9, 2.4},
		BlueGainRange: [2]float64{1.5, 1.9},
	}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	if contents, err := os.ReadFile(filename); err != nil {
		return c, fmt.Errorf("read '%s': %v", filename, err)
	} else if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}

	return c, c.FinalizeConfig()
}

// FinalizeConfig does sanity checks on the sampling ranges
func (c Config)FinalizeConfig() error {
	if c.RgbGainRatio <= 0 {
		return fmt.Errorf("%w: rgbgainratio %f must be positive", ErrDomain, c.RgbGainRatio)
	}
	for _, r := range [][2]float64{c.RedGainRange, c.BlueGainRange} {
		if r[0] <= 0 || r[1] < r[0] {
			return fmt.Errorf("%w: gain range %v must be positive and ordered", ErrDomain, r)
		}
	}
	return nil
}
