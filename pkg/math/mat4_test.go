package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Translate * Scale scales first, then translates.
	m := Translate(10, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 0, 0})
	if !vecNear(got, Vec3{12, 0, 0}, 1e-5) {
		t.Errorf("T*S applied to (1,0,0) = %v, want (12,0,0)", got)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m.Translation() != (Vec3{5, 10, 15}) {
		t.Errorf("Translate: got %v, want (5, 10, 15)", m.Translation())
	}
}

func TestWithTranslation(t *testing.T) {
	m := RotateY(0.3).WithTranslation(Vec3{1, 2, 3})
	if m.Translation() != (Vec3{1, 2, 3}) {
		t.Errorf("WithTranslation: got %v", m.Translation())
	}
	if m[0] != RotateY(0.3)[0] {
		t.Error("WithTranslation should keep the basis")
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	result := m.TransformPoint(Vec3{1, 2, 3})

	expected := Vec3{2, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, expected)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(100, 200, 300)
	got := m.TransformDirection(Vec3{1, 2, 3})
	if got != (Vec3{1, 2, 3}) {
		t.Errorf("TransformDirection: got %v, want (1, 2, 3)", got)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2)) // 90 degrees
	result := m.TransformPoint(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if !vecNear(result, Vec3{0, 0, -1}, 0.001) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestBackwardHeading(t *testing.T) {
	for _, angle := range []float32{-2.5, -1, 0, 0.4, 1.6, 3} {
		b := RotateY(angle).Backward()
		got := float32(math.Atan2(float64(b.X), float64(b.Z)))
		if abs(got-angle) > 1e-5 {
			t.Errorf("atan2(Backward) for RotateY(%v) = %v", angle, got)
		}
	}
}

func TestBasisScale(t *testing.T) {
	m := Translate(4, 5, 6).Mul(RotateX(0.7)).Mul(Scale(2, 3, 4))
	got := m.BasisScale()
	if !vecNear(got, Vec3{2, 3, 4}, 1e-5) {
		t.Errorf("BasisScale() = %v, want (2, 3, 4)", got)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(3, -2, 7).Mul(RotateZ(0.4)).Mul(RotateX(1.1)).Mul(Scale(2, 1, 0.5))
	product := m.Mul(m.Inverse())
	id := Identity()
	for i := 0; i < 16; i++ {
		if abs(product[i]-id[i]) > 1e-4 {
			t.Fatalf("M * M^-1 element %d = %v, want %v", i, product[i], id[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular Inverse() = %v, want identity", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func vecNear(a, b Vec3, eps float32) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps
}
