package image2svg

import (
	"testing"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

func pts(coords ...float64) pstypes.Contour {
	c := make(pstypes.Contour, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		c = append(c, pstypes.Point{X: coords[i], Y: coords[i+1]})
	}
	return c
}

func TestSimplifyCollinear(t *testing.T) {
	in := pts(0, 0, 1, 0, 2, 0, 3, 0)
	out := Simplify(in, 0.5)
	if len(out) != 2 {
		t.Fatalf("collinear chain simplified to %d points, want 2", len(out))
	}
	if out[0] != in[0] || out[1] != in[len(in)-1] {
		t.Errorf("endpoints not retained: %v", out)
	}
}

func TestSimplifyKeepsCorners(t *testing.T) {
	in := pts(0, 0, 1, 0, 2, 0, 2, 1, 2, 2, 1, 2, 0, 2)
	out := Simplify(in, 0.5)

	want := pts(0, 0, 2, 0, 2, 2, 0, 2)
	if len(out) != len(want) {
		t.Fatalf("got %d points %v, want %d", len(out), out, len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestSimplifyProperties(t *testing.T) {
	tests := []struct {
		name      string
		in        pstypes.Contour
		tolerance float64
	}{
		{"empty", nil, 2.0},
		{"single", pts(1, 1), 2.0},
		{"pair", pts(0, 0, 5, 5), 2.0},
		{"zigzag simple", pts(0, 0, 1, 3, 2, 0, 3, 3, 4, 0), 2.0},
		{"zigzag complex", pts(0, 0, 1, 3, 2, 0, 3, 3, 4, 0), 0.5},
		{"duplicate points", pts(1, 1, 1, 1, 1, 1), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Simplify(tt.in, tt.tolerance)
			// 简化永远不会增加点数
			if len(out) > len(tt.in) {
				t.Fatalf("point count grew from %d to %d", len(tt.in), len(out))
			}
			// 首尾两点必须保留
			if len(tt.in) >= 2 {
				if out[0] != tt.in[0] {
					t.Errorf("first point %v, want %v", out[0], tt.in[0])
				}
				if out[len(out)-1] != tt.in[len(tt.in)-1] {
					t.Errorf("last point %v, want %v", out[len(out)-1], tt.in[len(tt.in)-1])
				}
			}
		})
	}
}

func TestSimplifyZeroLengthChord(t *testing.T) {
	// 首尾重合时弦长为零，按点距退化处理而不是除零
	in := pts(0, 0, 3, 0, 0, 0)
	out := Simplify(in, 1.0)
	if len(out) != 3 {
		t.Fatalf("got %d points, want 3", len(out))
	}
	if out[1] != (pstypes.Point{X: 3, Y: 0}) {
		t.Errorf("far point dropped: %v", out)
	}
}

func TestSimplifyToleranceOrdering(t *testing.T) {
	// 粗简化的结果不应比细简化保留更多点
	in := pts(0, 0, 1, 1, 2, 0, 3, 1.2, 4, 0, 5, 0.8, 6, 0, 7, 1.5, 8, 0)
	coarse := Simplify(in, LevelSimple.Tolerance())
	fine := Simplify(in, LevelComplex.Tolerance())
	if len(coarse) > len(fine) {
		t.Errorf("simple level kept %d points, complex kept %d", len(coarse), len(fine))
	}
}

func TestLevelTolerance(t *testing.T) {
	if got := LevelSimple.Tolerance(); got != 2.0 {
		t.Errorf("simple tolerance = %v, want 2.0", got)
	}
	if got := LevelComplex.Tolerance(); got != 0.5 {
		t.Errorf("complex tolerance = %v, want 0.5", got)
	}
	if _, err := ParseLevel("medium"); err == nil {
		t.Error("expected error for unknown level")
	}
}
