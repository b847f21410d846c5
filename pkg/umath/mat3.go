package umath

// 3x3 matrixes and 3-vectors, used for color transforms

import(
	"fmt"

	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point, hopefully make this file redundant
	"gonum.org/v1/gonum/mat"
)

// Use local types so we can hang methods off them
type Vec3 f64.Vec3
type Mat3 f64.Mat3

func (a Mat3)Mult(b Mat3) Mat3 {
	return Mat3{
		a[3*0+0]*b[3*0+0] + a[3*0+1]*b[3*1+0] + a[3*0+2]*b[3*2+0],
		a[3*0+0]*b[3*0+1] + a[3*0+1]*b[3*1+1] + a[3*0+2]*b[3*2+1],
		a[3*0+0]*b[3*0+2] + a[3*0+1]*b[3*1+2] + a[3*0+2]*b[3*2+2],

		a[3*1+0]*b[3*0+0] + a[3*1+1]*b[3*1+0] + a[3*1+2]*b[3*2+0],
		a[3*1+0]*b[3*0+1] + a[3*1+1]*b[3*1+1] + a[3*1+2]*b[3*2+1],
		a[3*1+0]*b[3*0+2] + a[3*1+1]*b[3*1+2] + a[3*1+2]*b[3*2+2],

		a[3*2+0]*b[3*0+0] + a[3*2+1]*b[3*1+0] + a[3*2+2]*b[3*2+0],
		a[3*2+0]*b[3*0+1] + a[3*2+1]*b[3*1+1] + a[3*2+2]*b[3*2+1],
		a[3*2+0]*b[3*0+2] + a[3*2+1]*b[3*1+2] + a[3*2+2]*b[3*2+2],
	}
}

func (m Mat3)Apply(v Vec3) Vec3 {
	return Vec3{
		(m[3*0+0]*v[0] + m[3*0+1]*v[1] + m[3*0+2]*v[2]),
	  (m[3*1+0]*v[0] + m[3*1+1]*v[1] + m[3*1+2]*v[2]),
	  (m[3*2+0]*v[0] + m[3*2+1]*v[1] + m[3*2+2]*v[2]),
	}
}

func (a Mat3)Add(b Mat3) Mat3 {
	out := Mat3{}
	for i:=0; i<9; i++ { out[i] = a[i] + b[i] }
	return out
}

func (m Mat3)Scale(k float64) Mat3 {
	out := Mat3{}
	for i:=0; i<9; i++ { out[i] = m[i] * k }
	return out
}

// RowNormalize divides each row by its own sum, so that each output
// channel of the transform is a weighted average of the input
// channels - i.e. the matrix maps neutral grays to neutral grays.
func (m Mat3)RowNormalize() Mat3 {
	out := Mat3{}
	for r:=0; r<3; r++ {
		sum := m[3*r+0] + m[3*r+1] + m[3*r+2]
		for c:=0; c<3; c++ { out[3*r+c] = m[3*r+c] / sum }
	}
	return out
}

// Inverse hands off to gonum, which knows how to tell us when the
// matrix is singular rather than quietly giving us NaNs.
func (m Mat3)Inverse() (Mat3, error) {
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(3, 3, m[:])); err != nil {
		return Mat3{}, fmt.Errorf("mat3 inverse: %v", err)
	}

	out := Mat3{}
	for r:=0; r<3; r++ {
		for c:=0; c<3; c++ { out[3*r+c] = inv.At(r, c) }
	}
	return out, nil
}

func (m Mat3)String() string {
	str := fmt.Sprintf("[%10f, %10f, %10f]\n", m[3*0+0], m[3*0+1], m[3*0+2])
	str += fmt.Sprintf("[%10f, %10f, %10f]\n", m[3*1+0], m[3*1+1], m[3*1+2])
	str += fmt.Sprintf("[%10f, %10f, %10f]\n", m[3*2+0], m[3*2+1], m[3*2+2])
	return str
}
func (v Vec3)String() string {
	return fmt.Sprintf("[%12.10f, %12.10f, %12.10f]", v[0], v[1], v[2])
}

func (v *Vec3)FloorAt(min float64) {
	if v[0] < min { v[0] = min }
	if v[1] < min { v[1] = min }
	if v[2] < min { v[2] = min }
}

func (v *Vec3)CeilingAt(max float64) {
	if v[0] > max { v[0] = max }
	if v[1] > max { v[1] = max }
	if v[2] > max { v[2] = max }
}
