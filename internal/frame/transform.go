// Package frame implements a frame cache: a copy-on-write map of named
// reference frames, each holding a local TRS
// transform relative to its parent, composed on demand into a single
// observation-to-root transform.
package frame

import "math"

// Vec3 is a plain 3-vector, kept local to this package rather than
// imported from internal/mesh or internal/camera: a frame's translation is
// neither mesh geometry nor a camera parameter, and duplicating a 24-byte
// struct is cheaper than threading an import relationship through a
// package that otherwise has no reason to depend on either.
type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vec3) Mul(s Vec3) Vec3 { return Vec3{a.X * s.X, a.Y * s.Y, a.Z * s.Z} }

// Quat is a unit quaternion [x,y,z,w], the same glTF node-rotation
// convention internal/tileset's FrameGraphEdge uses for the scene
// manifest — this package computes the compositions that feed those
// records.
type Quat struct{ X, Y, Z, W float64 }

// IdentityQuat is the no-rotation quaternion.
var IdentityQuat = Quat{0, 0, 0, 1}

// Mul returns a*b (apply b first, then a — standard Hamilton product
// composition order for "a's frame expressed in terms of b's parent").
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y,
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X,
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W,
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z,
	}
}

// Rotate applies the quaternion to v (standard v' = q*v*q^-1, expanded
// without constructing the conjugate quaternion explicitly).
func (q Quat) Rotate(v Vec3) Vec3 {
	// t = 2 * cross(q.xyz, v)
	qx, qy, qz, qw := q.X, q.Y, q.Z, q.W
	tx := 2 * (qy*v.Z - qz*v.Y)
	ty := 2 * (qz*v.X - qx*v.Z)
	tz := 2 * (qx*v.Y - qy*v.X)
	// v' = v + qw*t + cross(q.xyz, t)
	return Vec3{
		X: v.X + qw*tx + (qy*tz - qz*ty),
		Y: v.Y + qw*ty + (qz*tx - qx*tz),
		Z: v.Z + qw*tz + (qx*ty - qy*tx),
	}
}

// Normalize returns q scaled to unit length, guarding against a
// degenerate all-zero quaternion (returns IdentityQuat rather than NaN).
func (q Quat) Normalize() Quat {
	n := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if n == 0 {
		return IdentityQuat
	}
	return Quat{q.X / n, q.Y / n, q.Z / n, q.W / n}
}

// Transform is a TRS (translation, rotation, scale) node transform, the
// local-to-parent transform one Frame record carries.
type Transform struct {
	Translation Vec3
	Rotation    Quat
	Scale       Vec3
}

// Identity is the no-op transform.
var Identity = Transform{
	Translation: Vec3{0, 0, 0},
	Rotation:    IdentityQuat,
	Scale:       Vec3{1, 1, 1},
}

// Compose returns the transform equivalent to applying child first, then
// parent — i.e. a point p in child-local space maps to
// parent.Apply(child.Apply(p)). This is the standard scene-graph rule for
// combining a node's local transform with its parent's: rotation
// composes by quaternion product, scale componentwise, and the child's
// translation is rotated and scaled into the parent's frame before being
// offset by the parent's own translation.
func Compose(parent, child Transform) Transform {
	rotation := parent.Rotation.Mul(child.Rotation).Normalize()
	scale := parent.Scale.Mul(child.Scale)
	translation := parent.Rotation.Rotate(child.Translation.Mul(parent.Scale)).Add(parent.Translation)
	return Transform{Translation: translation, Rotation: rotation, Scale: scale}
}

// Apply maps a point from this transform's local space into its parent's
// space: p' = T + R*(S*p).
func (t Transform) Apply(p Vec3) Vec3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Translation)
}
