package math

import "math"

// Quat is a rotation quaternion with X, Y, Z as the vector part and W as
// the scalar part. Clip keyframes store bone rotations in this form.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the no-rotation quaternion.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle creates a quaternion rotating angle radians about axis.
// axis must be normalized.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math.Sincos(float64(angle) / 2)
	return Quat{
		X: axis.X * float32(s),
		Y: axis.Y * float32(s),
		Z: axis.Z * float32(s),
		W: float32(c),
	}
}

// Normalize returns a unit quaternion. Near-zero input yields identity.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.Dot(q))))
	if length < 0.0001 {
		return QuatIdentity()
	}
	return q.scale(1 / length)
}

// Dot returns the 4D dot product.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

func (q Quat) scale(s float32) Quat {
	return Quat{X: q.X * s, Y: q.Y * s, Z: q.Z * s, W: q.W * s}
}

func (q Quat) add(other Quat) Quat {
	return Quat{X: q.X + other.X, Y: q.Y + other.Y, Z: q.Z + other.Z, W: q.W + other.W}
}

// Slerp spherically interpolates from q to other along the shorter arc.
// t is expected in [0, 1].
func (q Quat) Slerp(other Quat, t float32) Quat {
	dot := q.Dot(other)
	if dot < 0 {
		other = other.scale(-1)
		dot = -dot
	}

	// Nearly parallel: sin(theta) is too small to divide by.
	if dot > 0.9995 {
		return q.add(other.add(q.scale(-1)).scale(t)).Normalize()
	}

	theta0 := math.Acos(float64(dot))
	sin0 := math.Sin(theta0)
	s0 := float32(math.Sin((1-float64(t))*theta0) / sin0)
	s1 := float32(math.Sin(float64(t)*theta0) / sin0)
	return q.scale(s0).add(other.scale(s1))
}

// ToMat4 converts the quaternion to a rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	xw, yw, zw := q.X*q.W, q.Y*q.W, q.Z*q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}
