package geospatial

import "testing"

func TestSample_BoundsAndKeepsLast(t *testing.T) {
	pts := make([]int, 100)
	for i := range pts {
		pts[i] = i
	}

	got := Sample(pts, 20)
	if len(got) > 20 {
		t.Fatalf("expected at most 20 samples, got %d", len(got))
	}
	if got[len(got)-1] != 99 {
		t.Errorf("expected last sample 99, got %d", got[len(got)-1])
	}
	if got[0] != 0 {
		t.Errorf("expected first sample 0, got %d", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("samples out of order at %d: %v", i, got)
		}
	}
}

func TestSample_ShortInputUnchanged(t *testing.T) {
	pts := []int{5, 4, 3, 2, 1}
	got := Sample(pts, 20)
	if len(got) != 5 {
		t.Fatalf("expected 5 points, got %d", len(got))
	}
	for i := range pts {
		if got[i] != pts[i] {
			t.Errorf("index %d: expected %d, got %d", i, pts[i], got[i])
		}
	}
}

func TestSample_Empty(t *testing.T) {
	got := Sample([]int{}, 20)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestSample_StrideOneStillKeepsLast(t *testing.T) {
	pts := make([]int, 21)
	for i := range pts {
		pts[i] = i
	}
	got := Sample(pts, 20)
	if len(got) != 20 {
		t.Fatalf("expected 20 samples, got %d", len(got))
	}
	if got[19] != 20 {
		t.Errorf("expected last sample 20, got %d", got[19])
	}
}

func TestSample_Coordinates(t *testing.T) {
	line := make([][2]float64, 57)
	for i := range line {
		line[i] = [2]float64{float64(i), float64(-i)}
	}
	got := Sample(line, 20)
	if len(got) > 20 {
		t.Fatalf("expected at most 20 samples, got %d", len(got))
	}
	if got[len(got)-1] != line[56] {
		t.Errorf("expected last coordinate %v, got %v", line[56], got[len(got)-1])
	}
}
