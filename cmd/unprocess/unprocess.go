package main

import(
	"flag"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr/codec/rgbe"
	"golang.org/x/exp/rand"
	"golang.org/x/image/tiff"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/unprocess/pkg/unprocess"
)

var(
	fSeed uint64
	fConfigFile string
	fGroundTruth bool
	fAddNoise bool
	fDebugPlanes bool
)

func init() {
	flag.Uint64Var(&fSeed, "seed", 1, "RNG seed for the camera model sampler")
	flag.StringVar(&fConfigFile, "config", "", "yaml file overriding the sampling ranges")
	flag.BoolVar(&fGroundTruth, "gt", false, "skip the mosaic, write the linear ground truth as RGBE")
	flag.BoolVar(&fAddNoise, "noise", false, "add shot+read noise to the mosaiced output")
	flag.BoolVar(&fDebugPlanes, "debugplanes", false, "also dump each Bayer plane as an annotated PNG")
	flag.Parse()

	log.Printf("unprocess starting\n")
}

func main() {
	cfg := unprocess.NewConfig()
	if fConfigFile != "" {
		var err error
		if cfg, err = unprocess.LoadConfig(fConfigFile); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	src := rand.NewSource(fSeed)

	for _, arg := range flag.Args() {
		if err := unprocessFile(arg, cfg, src); err != nil {
			log.Fatalf("%s: %v", arg, err)
		}
	}
}

func unprocessFile(filename string, cfg unprocess.Config, src rand.Source) error {
	im, err := loadImage(filename)
	if err != nil {
		return err
	}
	log.Printf("loaded %s %s", filename, im.Stats())

	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	if fGroundTruth {
		out, meta, err := unprocess.UnprocessGT(im, cfg, src)
		if err != nil {
			return err
		}
		if err := writeHDR(out, base+"-gt.hdr"); err != nil {
			return err
		}
		return writeMetadata(meta, base+"-meta.yaml")
	}

	raw, meta, err := unprocess.Unprocess(im, cfg, src)
	if err != nil {
		return err
	}

	if fAddNoise {
		shot, read := unprocess.RandomNoiseLevels(src)
		log.Printf("adding noise, shot=%g read=%g", shot, read)
		if raw, err = unprocess.AddNoise(raw, shot, read, 2.0, src); err != nil {
			return err
		}
	}

	log.Printf("unprocessed %s", raw.Stats())

	for c:=0; c<raw.Chans(); c++ {
		name := fmt.Sprintf("%s-plane%d.tiff", base, c)
		if err := writePlaneTIFF(raw, c, name); err != nil {
			return err
		}
		if fDebugPlanes {
			raw.WritePlanePNG(c, fmt.Sprintf("%s plane %d", filepath.Base(base), c), fmt.Sprintf("%s-plane%d.png", base, c))
		}
	}

	return writeMetadata(meta, base+"-meta.yaml")
}

func loadImage(filename string) (*unprocess.Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode '%s': %v", filename, err)
	}
	return unprocess.FromImage(img), nil
}

// writePlaneTIFF writes one Bayer plane as a 16-bit grayscale TIFF,
// linear values, no gamma - downstream tools expect raw-ish data.
func writePlaneTIFF(im *unprocess.Image, c int, filename string) error {
	img := image.NewGray16(image.Rectangle{Max: image.Point{im.Dx(), im.Dy()}})
	for y:=0; y<im.Dy(); y++ {
		for x:=0; x<im.Dx(); x++ {
			v := im.Get(c, y, x)
			if v < 0 { v = 0 }
			if v > 1 { v = 1 }
			img.SetGray16(x, y, color.Gray16{Y: uint16(v * 65535.0)})
		}
	}

	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()

	return tiff.Encode(writer, img, &tiff.Options{Compression: tiff.Deflate})
}

func writeHDR(im *unprocess.Image, filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()

	return rgbe.Encode(writer, im)
}

func writeMetadata(meta unprocess.CameraModel, filename string) error {
	b, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %v", err)
	}
	return os.WriteFile(filename, b, 0644)
}
