package unprocess

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/unprocess/pkg/umath"
)

// An Image is a planar grid of float64 samples, indexed
// (channel, row, col). Inputs to the pipeline have 3 channels (R, G,
// B) with values nominally in [0,1]; after mosaicing there are 4
// channels (the RGGB planes) at half resolution. Every pipeline stage
// returns a fresh Image, so callers can hang on to intermediates.
type Image struct {
	chans, height, width int
	values               []float64
}

func NewImage(chans, height, width int) *Image {
	return &Image{
		chans:  chans,
		height: height,
		width:  width,
		values: make([]float64, chans*height*width),
	}
}

func (im *Image)NewFromThis() *Image            { return NewImage(im.chans, im.height, im.width) }
func (im *Image)Chans() int                     { return im.chans }
func (im *Image)Dx() int                        { return im.width }
func (im *Image)Dy() int                        { return im.height }
func (im *Image)Get(c, y, x int) float64        { return im.values[(c*im.height+y)*im.width + x] }
func (im *Image)Set(c, y, x int, v float64)     { im.values[(c*im.height+y)*im.width + x] = v }

func (im *Image)Copy() *Image {
	out := im.NewFromThis()
	copy(out.values, im.values)
	return out
}

// Pixel returns the 3-vector at (y,x); only meaningful on a 3-channel image.
func (im *Image)Pixel(y, x int) umath.Vec3 {
	return umath.Vec3{im.Get(0, y, x), im.Get(1, y, x), im.Get(2, y, x)}
}

func (im *Image)SetPixel(y, x int, v umath.Vec3) {
	im.Set(0, y, x, v[0])
	im.Set(1, y, x, v[1])
	im.Set(2, y, x, v[2])
}

func (im *Image)Clamp(min, max float64) *Image {
	out := im.NewFromThis()
	for i, v := range im.values {
		out.values[i] = umath.Clamp(v, min, max)
	}
	return out
}

func (im *Image)AllFinite() bool {
	for _, v := range im.values {
		if math.IsNaN(v) || math.IsInf(v, 0) { return false }
	}
	return true
}

func (im *Image)Stats() string {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0 ; i<len(im.values) ; i++ {
		if im.values[i] > max { max = im.values[i] }
		if im.values[i] < min { min = im.values[i] }
	}
	return fmt.Sprintf("im[%dx%dx%d, vals{%f,%f}]", im.chans, im.height, im.width, min, max)
}

// FromImage maps a decoded image into a 3-channel planar buffer,
// treating the input channels as [0, 0xFFFF].
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	im := NewImage(3, b.Dy(), b.Dx())

	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			r, g, b2, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			im.Set(0, y, x, float64(r)/float64(0xFFFF))
			im.Set(1, y, x, float64(g)/float64(0xFFFF))
			im.Set(2, y, x, float64(b2)/float64(0xFFFF))
		}
	}
	return im
}

// A 3-channel Image implements image.Image and hdr.Image, so HDR
// codecs (e.g. RGBE) can consume the linear output directly. The
// views are undefined for mosaiced 4-channel buffers.

func (im *Image)ColorModel() color.Model       { return hdrcolor.RGBModel }
func (im *Image)Bounds() image.Rectangle       { return image.Rectangle{Max: image.Point{im.width, im.height}} }
func (im *Image)At(x, y int) color.Color       { return im.HDRAt(x, y) }
func (im *Image)HDRAt(x, y int) hdrcolor.Color { return hdrcolor.RGB{R: im.Get(0, y, x), G: im.Get(1, y, x), B: im.Get(2, y, x)} }
func (im *Image)Size() int                     { return im.width * im.height }

// ToImage renders a 3-channel buffer as a standard 16-bit image,
// clamping to [0,1]. No gamma is applied; the caller decides whether
// the data is for viewing or further processing.
func (im *Image)ToImage() image.Image {
	img := image.NewRGBA64(im.Bounds())
	for y:=0; y<im.height; y++ {
		for x:=0; x<im.width; x++ {
			p := im.Pixel(y, x)
			p.FloorAt(0.0)
			p.CeilingAt(1.0)
			img.Set(x, y, color.RGBA64{
				uint16(p[0] * 65535.0),
				uint16(p[1] * 65535.0),
				uint16(p[2] * 65535.0),
				0xFFFF,
			})
		}
	}
	return img
}

// WritePlanePNG saves one plane as a simple grayscale, normalized to
// the range of values in the plane, and gamma encoded to look normal
// for human vision. Debugging aid.
func (im *Image)WritePlanePNG(c int, title, filename string) error {
	if c < 0 || c >= im.chans {
		return fmt.Errorf("%w: plane %d of %d", ErrShape, c, im.chans)
	}

	min, max := math.MaxFloat64, -math.MaxFloat64
	for y:=0; y<im.height; y++ {
		for x:=0; x<im.width; x++ {
			if v := im.Get(c, y, x); v > max { max = v }
			if v := im.Get(c, y, x); v < min { min = v }
		}
	}
	if max <= min { max = min + 1 } // flat plane, avoid div by zero

	img := image.NewRGBA64(image.Rectangle{Max: image.Point{im.width, im.height}})
	for y:=0; y<im.height; y++ {
		for x:=0; x<im.width; x++ {
			gray := umath.GammaExpand_F64((im.Get(c, y, x) - min) / (max - min))
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 50, 50)
	return dc.SavePNG(filename)
}
