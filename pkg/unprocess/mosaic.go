package unprocess

import "fmt"

// Mosaic extracts RGGB Bayer planes from an RGB image, modeling a
// single-sensor color filter array read out without demosaicing.
//
// RGGB layout (row-major, 0-indexed):
//
//	(even row, even col) = R
//	(even row, odd  col) = G  (Gr)
//	(odd  row, even col) = G  (Gb)
//	(odd  row, odd  col) = B
//
// The 2x2 cells become 4 channels at half resolution, so height and
// width must be even.
func Mosaic(im *Image) (*Image, error) {
	if im.chans != 3 {
		return nil, fmt.Errorf("%w: Mosaic wants 3 channels, got %d", ErrShape, im.chans)
	}
	if im.height%2 != 0 || im.width%2 != 0 {
		return nil, fmt.Errorf("%w: Mosaic wants even dimensions, got %dx%d", ErrShape, im.height, im.width)
	}

	out := NewImage(4, im.height/2, im.width/2)
	for y:=0; y<out.height; y++ {
		for x:=0; x<out.width; x++ {
			out.Set(0, y, x, im.Get(0, 2*y,   2*x  )) // red
			out.Set(1, y, x, im.Get(1, 2*y,   2*x+1)) // green, on the red row
			out.Set(2, y, x, im.Get(1, 2*y+1, 2*x  )) // green, on the blue row
			out.Set(3, y, x, im.Get(2, 2*y+1, 2*x+1)) // blue
		}
	}
	return out, nil
}
