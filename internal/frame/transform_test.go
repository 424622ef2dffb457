package frame

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func vecAlmostEqual(a, b Vec3, eps float64) bool {
	return almostEqual(a.X, b.X, eps) && almostEqual(a.Y, b.Y, eps) && almostEqual(a.Z, b.Z, eps)
}

func TestComposeTranslationOnly(t *testing.T) {
	parent := Transform{Translation: Vec3{10, 0, 0}, Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}}
	child := Transform{Translation: Vec3{1, 0, 0}, Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}}

	got := Compose(parent, child)
	want := Vec3{11, 0, 0}
	if !vecAlmostEqual(got.Translation, want, 1e-9) {
		t.Fatalf("Translation = %+v, want %+v", got.Translation, want)
	}
}

// TestComposeRotation90DegreesAboutZ hand-verifies rotating (1,0,0) by a
// 90-degree quaternion about +Z yields (0,1,0): sin(45)=cos(45)=1/sqrt(2),
// so q=(0,0,s,c), and the standard quaternion-rotation expansion gives
// x' = 1-2s^2 = 0, y' = 2sc = 1, z' = 0.
func TestComposeRotation90DegreesAboutZ(t *testing.T) {
	s := math.Sqrt(2) / 2
	rot := Quat{X: 0, Y: 0, Z: s, W: s}
	parent := Transform{Translation: Vec3{0, 0, 0}, Rotation: rot, Scale: Vec3{1, 1, 1}}
	child := Transform{Translation: Vec3{1, 0, 0}, Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}}

	got := Compose(parent, child)
	want := Vec3{0, 1, 0}
	if !vecAlmostEqual(got.Translation, want, 1e-9) {
		t.Fatalf("Translation = %+v, want %+v", got.Translation, want)
	}
}

func TestComposeScale(t *testing.T) {
	parent := Transform{Translation: Vec3{0, 0, 0}, Rotation: IdentityQuat, Scale: Vec3{2, 2, 2}}
	child := Transform{Translation: Vec3{1, 1, 1}, Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}}

	got := Compose(parent, child)
	want := Vec3{2, 2, 2}
	if !vecAlmostEqual(got.Translation, want, 1e-9) {
		t.Fatalf("Translation = %+v, want %+v (child translation scaled by parent scale)", got.Translation, want)
	}
	if got.Scale != (Vec3{2, 2, 2}) {
		t.Fatalf("Scale = %+v, want {2 2 2}", got.Scale)
	}
}

func TestComposeWithIdentityIsNoOp(t *testing.T) {
	child := Transform{Translation: Vec3{3, 4, 5}, Rotation: Quat{0.1, 0.2, 0.3, 0.9}.Normalize(), Scale: Vec3{1, 2, 3}}
	got := Compose(Identity, child)
	if !vecAlmostEqual(got.Translation, child.Translation, 1e-9) {
		t.Fatalf("Translation = %+v, want %+v", got.Translation, child.Translation)
	}
	if got.Scale != child.Scale {
		t.Fatalf("Scale = %+v, want %+v", got.Scale, child.Scale)
	}
}

func TestQuatNormalizeZeroReturnsIdentity(t *testing.T) {
	got := Quat{0, 0, 0, 0}.Normalize()
	if got != IdentityQuat {
		t.Fatalf("Normalize of zero quaternion = %+v, want IdentityQuat", got)
	}
}

func TestTransformApplyMatchesCompose(t *testing.T) {
	// Apply(p) on a transform should equal the translation component of
	// Compose(transform, child), where child is translated by p with identity
	// rotation and unit scale.
	tr := Transform{Translation: Vec3{5, 0, 0}, Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}}
	p := Vec3{2, 0, 0}
	got := tr.Apply(p)
	want := Vec3{7, 0, 0}
	if !vecAlmostEqual(got, want, 1e-9) {
		t.Fatalf("Apply = %+v, want %+v", got, want)
	}
	composed := Compose(tr, Transform{Translation: p, Rotation: IdentityQuat, Scale: Vec3{1, 1, 1}})
	if !vecAlmostEqual(composed.Translation, got, 1e-9) {
		t.Fatalf("Compose translation = %+v, want Apply result %+v", composed.Translation, got)
	}
}
