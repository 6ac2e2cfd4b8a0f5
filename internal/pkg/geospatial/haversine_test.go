package geospatial

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestHaversineKm_SamePoint(t *testing.T) {
	if d := HaversineKm(43.263, -2.935, 43.263, -2.935); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := HaversineKm(40.7128, -74.0060, 34.0522, -118.2437)
	b := HaversineKm(34.0522, -118.2437, 40.7128, -74.0060)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("expected symmetric distance, got %f vs %f", a, b)
	}
}

func TestHaversineKm_KnownPoints(t *testing.T) {
	d := HaversineKm(26.2389, 73.0243, 26.2400, 73.0250)
	if math.Abs(d-0.13) > 0.05 {
		t.Errorf("expected ~0.13 km, got %f", d)
	}
}

func TestHaversineKm_NewYorkToLosAngeles(t *testing.T) {
	d := HaversineKm(40.7128, -74.0060, 34.0522, -118.2437)
	if d < 3900 || d > 4000 {
		t.Errorf("expected ~3936 km, got %f", d)
	}
}

func TestHaversineKm_TriangleInequality(t *testing.T) {
	ab := HaversineKm(43.26, -2.93, 43.30, -2.98)
	bc := HaversineKm(43.30, -2.98, 43.35, -2.90)
	ac := HaversineKm(43.26, -2.93, 43.35, -2.90)
	if ac > ab+bc+1e-9 {
		t.Errorf("triangle inequality violated: %f > %f + %f", ac, ab, bc)
	}
}

func TestHaversineKm_AntipodalIsFinite(t *testing.T) {
	halfCircumference := math.Pi * earthRadiusKm
	pairs := [][4]float64{
		{0, 0, 0, 180},
		{90, 0, -90, 0},
		{43.263, -2.935, -43.263, 177.065},
		{-33.8688, 151.2093, 33.8688, -28.7907},
		{1e-9, 0, -1e-9, 180},
	}
	for _, p := range pairs {
		d := HaversineKm(p[0], p[1], p[2], p[3])
		if math.IsNaN(d) || math.IsInf(d, 0) {
			t.Fatalf("HaversineKm%v = %f", p, d)
		}
		if math.Abs(d-halfCircumference) > 1e-3 {
			t.Errorf("HaversineKm%v = %f, want ~%f", p, d, halfCircumference)
		}
	}
}

func TestDistanceToLineKm_UsesClosestVertex(t *testing.T) {
	line := orb.LineString{{0, 0}, {0.5, 0}, {1, 0}}
	d := DistanceToLineKm(0.01, 0.5, line)
	want := HaversineKm(0.01, 0.5, 0, 0.5)
	if math.Abs(d-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, d)
	}
}

func TestDistanceToLineKm_EmptyLine(t *testing.T) {
	if d := DistanceToLineKm(1, 1, nil); !math.IsInf(d, 1) {
		t.Errorf("expected +Inf, got %f", d)
	}
}

func TestPathLengthKm(t *testing.T) {
	path := orb.LineString{{0, 0}, {1, 0}, {2, 0}}
	got := PathLengthKm(path)
	want := 2 * HaversineKm(0, 0, 0, 1)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %f, got %f", want, got)
	}
	if PathLengthKm(path[:1]) != 0 {
		t.Error("expected 0 for a single point")
	}
}
