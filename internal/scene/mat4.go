package scene

import "github.com/chewxy/math32"

// Mat4 is a column-major 4x4 matrix as GL expects it.
type Mat4 [16]float32

func Identity() Mat4 {
	return Mat4{0: 1, 5: 1, 10: 1, 15: 1}
}

// Mul returns m*n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * n[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Transform applies m to the point (x, y, z, 1).
func (m Mat4) Transform(x, y, z float32) (float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14]
}

func Translation(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

func RotationX(a float32) Mat4 {
	s, c := math32.Sincos(a)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

func RotationY(a float32) Mat4 {
	s, c := math32.Sincos(a)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

func RotationZ(a float32) Mat4 {
	s, c := math32.Sincos(a)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Euler returns the rotation by roll about X, then pitch about Y, then yaw
// about Z.
func Euler(roll, pitch, yaw float32) Mat4 {
	return RotationZ(yaw).Mul(RotationY(pitch)).Mul(RotationX(roll))
}
