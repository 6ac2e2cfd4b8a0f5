package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/usecases"
)

// kmPerDegLat is the Haversine length of one degree of latitude with R = 6371 km.
const kmPerDegLat = 6371.0 * math.Pi / 180

func straightRoute(n int) orb.LineString {
	line := make(orb.LineString, n)
	for i := range line {
		line[i] = orb.Point{-3.0 + float64(i)*0.001, 40.0}
	}
	return line
}

func TestFuelStationService_InvalidGeometry(t *testing.T) {
	places := &mockPlaces{}
	svc := usecases.NewFuelStationService(places, usecases.DefaultFuelSearchOptions())

	for _, g := range []orb.Geometry{nil, orb.Point{1, 2}, orb.LineString{}} {
		stations, err := svc.Find(context.Background(), g, 5000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stations == nil || len(stations) != 0 {
			t.Errorf("expected empty list for %T, got %v", g, stations)
		}
	}
	if places.calls != 0 {
		t.Errorf("expected no queries, got %d", places.calls)
	}
}

func TestFuelStationService_SamplesAtMostTwenty(t *testing.T) {
	places := &mockPlaces{}
	svc := usecases.NewFuelStationService(places, usecases.DefaultFuelSearchOptions())

	if _, err := svc.Find(context.Background(), straightRoute(100), 5000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if places.calls > 20 || places.calls == 0 {
		t.Errorf("expected 1..20 queries, got %d", places.calls)
	}
}

func TestFuelStationService_DedupFilterAndSort(t *testing.T) {
	route := orb.LineString{{-3.0, 40.0}, {-2.99, 40.0}, {-2.98, 40.0}}
	places := &mockPlaces{
		nearbyFn: func(ctx context.Context, lat, lon, radius float64, category string) ([]domain.PointOfInterest, error) {
			return []domain.PointOfInterest{
				// same station returned for every sample
				{Name: "Repsol Fuel Station", Lat: 40.0 + 1.0/kmPerDegLat, Lon: -2.99, Brand: "Repsol",
					Tags: map[string]string{"fuel:diesel": "yes"}},
				{Name: "Far", Lat: 40.0 + 2.0/kmPerDegLat, Lon: -2.99},
				{Name: "Close", Lat: 40.0 + 0.2/kmPerDegLat, Lon: -2.98},
			}, nil
		},
	}
	svc := usecases.NewFuelStationService(places, usecases.DefaultFuelSearchOptions())

	stations, err := svc.Find(context.Background(), route, 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations after dedup and 1.5 km filter, got %d: %+v", len(stations), stations)
	}
	if stations[0].Name != "Close" {
		t.Errorf("expected nearest station first, got %s", stations[0].Name)
	}
	if stations[1].Name != "Repsol" {
		t.Errorf("expected cleaned name 'Repsol', got %q", stations[1].Name)
	}
	if math.Abs(stations[1].DistanceFromRouteKm-1.0) > 0.01 {
		t.Errorf("expected ~1.0 km from route, got %f", stations[1].DistanceFromRouteKm)
	}
	if stations[1].FuelType != "Diesel" {
		t.Errorf("expected Diesel, got %q", stations[1].FuelType)
	}
	if stations[0].FuelType != "Fuel Available" {
		t.Errorf("expected default fuel type, got %q", stations[0].FuelType)
	}
}

func TestFuelStationService_PartialFailure(t *testing.T) {
	route := straightRoute(10)
	places := &mockPlaces{
		nearbyFn: func(ctx context.Context, lat, lon, radius float64, category string) ([]domain.PointOfInterest, error) {
			if lon < -2.996 {
				return nil, errors.New("upstream timeout")
			}
			return []domain.PointOfInterest{{Name: "", Lat: lat, Lon: lon}}, nil
		},
	}
	svc := usecases.NewFuelStationService(places, usecases.DefaultFuelSearchOptions())

	stations, err := svc.Find(context.Background(), route, 1000)
	if err != nil {
		t.Fatalf("partial failure should not be an error: %v", err)
	}
	if len(stations) == 0 || len(stations) >= 10 {
		t.Fatalf("expected some but not all stations, got %d", len(stations))
	}
	if stations[0].Name != "Fuel Pump" {
		t.Errorf("expected default name, got %q", stations[0].Name)
	}
}

func TestFuelStationService_RunsConcurrently(t *testing.T) {
	route := straightRoute(20)
	places := &mockPlaces{
		nearbyFn: func(ctx context.Context, lat, lon, radius float64, category string) ([]domain.PointOfInterest, error) {
			time.Sleep(50 * time.Millisecond)
			return nil, nil
		},
	}
	svc := usecases.NewFuelStationService(places, usecases.DefaultFuelSearchOptions())

	start := time.Now()
	if _, err := svc.Find(context.Background(), route, 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("expected parallel queries, took %s", elapsed)
	}
}

func TestFuelStationService_PerQueryTimeout(t *testing.T) {
	opts := usecases.DefaultFuelSearchOptions()
	opts.QueryTimeout = 20 * time.Millisecond
	places := &mockPlaces{
		nearbyFn: func(ctx context.Context, lat, lon, radius float64, category string) ([]domain.PointOfInterest, error) {
			if lon > -2.995 {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return []domain.PointOfInterest{{Name: "Quick", Lat: lat, Lon: lon}}, nil
		},
	}
	svc := usecases.NewFuelStationService(places, opts)

	stations, err := svc.Find(context.Background(), straightRoute(10), 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stations) == 0 {
		t.Error("expected stations from the fast queries")
	}
}

func TestFuelStationService_CallerCancelled(t *testing.T) {
	places := &mockPlaces{
		nearbyFn: func(ctx context.Context, lat, lon, radius float64, category string) ([]domain.PointOfInterest, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	svc := usecases.NewFuelStationService(places, usecases.DefaultFuelSearchOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := svc.Find(ctx, straightRoute(5), 1000); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestFuelStationService_TruncatesAndPricesDeterministically(t *testing.T) {
	route := straightRoute(30)
	places := &mockPlaces{
		nearbyFn: func(ctx context.Context, lat, lon, radius float64, category string) ([]domain.PointOfInterest, error) {
			return []domain.PointOfInterest{
				{Name: "A", Lat: lat + 0.0001, Lon: lon},
				{Name: "B", Lat: lat - 0.0001, Lon: lon},
			}, nil
		},
	}
	svc := usecases.NewFuelStationService(places, usecases.DefaultFuelSearchOptions())

	first, _ := svc.Find(context.Background(), route, 1000)
	second, _ := svc.Find(context.Background(), route, 1000)
	if len(first) != 20 {
		t.Fatalf("expected 20 stations, got %d", len(first))
	}
	for i := range first {
		if first[i].PricePerLiter < 0.85 || first[i].PricePerLiter > 1.01 {
			t.Errorf("price out of range: %f", first[i].PricePerLiter)
		}
	}
	byKey := func(ss []domain.FuelStation) map[[2]float64]float64 {
		m := map[[2]float64]float64{}
		for _, s := range ss {
			m[[2]float64{s.Lat, s.Lon}] = s.PricePerLiter
		}
		return m
	}
	a, b := byKey(first), byKey(second)
	for k, p := range a {
		if q, ok := b[k]; ok && q != p {
			t.Errorf("price for %v changed between calls: %f vs %f", k, p, q)
		}
	}
}
