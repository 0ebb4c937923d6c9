package render

import (
	"errors"
	"math"
	"testing"
)

func TestBuffer2DBasics(t *testing.T) {
	b := NewBuffer2D[int](4, 3)
	if b.Width() != 4 || b.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", b.Width(), b.Height())
	}

	b.Set(3, 2, 7)
	if got := b.At(3, 2); got != 7 {
		t.Errorf("At(3,2) = %d, want 7", got)
	}

	// Out-of-bounds access is a no-op that reads the zero value.
	b.Set(4, 0, 9)
	if got := b.At(4, 0); got != 0 {
		t.Errorf("At(4,0) = %d, want 0", got)
	}

	b.SetAllToValue(5)
	for y := range 3 {
		for x := range 4 {
			if b.At(x, y) != 5 {
				t.Fatalf("At(%d,%d) = %d after SetAllToValue(5)", x, y, b.At(x, y))
			}
		}
	}

	c := b.Clone()
	c.Set(0, 0, 1)
	if b.At(0, 0) != 5 {
		t.Error("Clone shares storage with the original")
	}

	b.Resize(2, 2)
	if b.Width() != 2 || b.Height() != 2 || b.At(1, 1) != 0 {
		t.Errorf("Resize(2,2) gave %dx%d with At(1,1) = %d", b.Width(), b.Height(), b.At(1, 1))
	}
}

func TestDepthBufferStartsAtSentinel(t *testing.T) {
	d := NewDepthBuffer(8, 8)
	for y := range 8 {
		for x := range 8 {
			if d.At(x, y) != Sentinel || d.Written(x, y) {
				t.Fatalf("pixel (%d,%d) = %v, want sentinel", x, y, d.At(x, y))
			}
		}
	}
}

func TestDepthBufferClosestWins(t *testing.T) {
	tests := []struct {
		name  string
		order []float64
		want  float64
	}{
		{"far then near", []float64{0.5, -0.25}, -0.25},
		{"near then far", []float64{-0.25, 0.5}, -0.25},
		{"three writes", []float64{0.9, -0.9, 0.1}, -0.9},
		{"single", []float64{0.3}, 0.3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDepthBuffer(2, 2)
			for _, z := range tc.order {
				if _, err := d.AddPoint(1, 1, z); err != nil {
					t.Fatalf("AddPoint: %v", err)
				}
			}
			if got := d.At(1, 1); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("stored %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDepthBufferEpsilonTies(t *testing.T) {
	d := NewDepthBuffer(1, 1)
	if ok, _ := d.AddPoint(0, 0, 0.5); !ok {
		t.Fatal("first write should succeed")
	}
	// Within DepthEpsilon of the stored value: treated as coplanar.
	if ok, _ := d.AddPoint(0, 0, 0.5-DepthEpsilon/2); ok {
		t.Error("write within epsilon should be rejected")
	}
	if ok, _ := d.AddPoint(0, 0, 0.5-2*DepthEpsilon); !ok {
		t.Error("write closer by more than epsilon should succeed")
	}
}

func TestDepthBufferOutOfRangePolicy(t *testing.T) {
	points := [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 4}}

	t.Run("ignore", func(t *testing.T) {
		d := NewDepthBuffer(4, 4)
		for _, p := range points {
			ok, err := d.AddPoint(p[0], p[1], 0)
			if ok || err != nil {
				t.Errorf("AddPoint(%v) = %v, %v; want false, nil", p, ok, err)
			}
		}
		if d.Dropped != len(points) {
			t.Errorf("Dropped = %d, want %d", d.Dropped, len(points))
		}
		d.Reset()
		if d.Dropped != 0 {
			t.Errorf("Dropped = %d after Reset, want 0", d.Dropped)
		}
	})

	t.Run("fail", func(t *testing.T) {
		d := NewDepthBuffer(4, 4)
		d.Policy = OutOfRangeFail
		for _, p := range points {
			_, err := d.AddPoint(p[0], p[1], 0)
			if !errors.Is(err, ErrPointOutOfRange) {
				t.Errorf("AddPoint(%v) error = %v, want ErrPointOutOfRange", p, err)
			}
		}
	})
}

func TestParseOutOfRangePolicy(t *testing.T) {
	for _, p := range []OutOfRangePolicy{OutOfRangeIgnore, OutOfRangeFail} {
		got, err := ParseOutOfRangePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseOutOfRangePolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseOutOfRangePolicy("explode"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func BenchmarkDepthBufferReset(b *testing.B) {
	d := NewDepthBuffer(320, 240)
	for b.Loop() {
		d.Reset()
	}
}
