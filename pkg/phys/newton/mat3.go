package newton

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// mat3 is a 3x3 rotation matrix stored as world-frame columns of the
// body basis.
type mat3 struct {
	x, y, z v3.Vec
}

func identity() mat3 {
	return mat3{
		x: v3.Vec{X: 1},
		y: v3.Vec{Y: 1},
		z: v3.Vec{Z: 1},
	}
}

// mulVec rotates a body-frame vector into the world frame.
func (m mat3) mulVec(v v3.Vec) v3.Vec {
	return m.x.MulScalar(v.X).Add(m.y.MulScalar(v.Y)).Add(m.z.MulScalar(v.Z))
}

// mulVecT rotates a world-frame vector into the body frame (transpose).
func (m mat3) mulVecT(v v3.Vec) v3.Vec {
	return v3.Vec{X: m.x.Dot(v), Y: m.y.Dot(v), Z: m.z.Dot(v)}
}

// integrate advances the rotation by the angular velocity w over dt,
// dc/dt = w x c per column, then re-orthonormalizes so the basis does
// not drift under repeated small steps.
func (m mat3) integrate(w v3.Vec, dt float64) mat3 {
	x := m.x.Add(w.Cross(m.x).MulScalar(dt))
	y := m.y.Add(w.Cross(m.y).MulScalar(dt))

	x = x.Normalize()
	z := x.Cross(y).Normalize()
	y = z.Cross(x)
	return mat3{x: x, y: y, z: z}
}
