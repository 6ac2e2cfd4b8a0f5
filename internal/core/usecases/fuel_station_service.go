package usecases

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/ports"
	"github.com/samirrijal/fuelroute/internal/pkg/geospatial"
	"github.com/samirrijal/fuelroute/internal/pkg/logging"
	"github.com/samirrijal/fuelroute/internal/pkg/metrics"
	"github.com/samirrijal/fuelroute/internal/pkg/telemetry"
)

// FuelSearchOptions bounds a fuel-station discovery call.
type FuelSearchOptions struct {
	Category            string
	MaxSamples          int
	MaxRouteDistanceKm  float64
	MaxResults          int
	QueryTimeout        time.Duration
	PriceBasePerLiter   float64
	PriceSpreadPerLiter float64
}

// DefaultFuelSearchOptions returns the standard discovery limits.
func DefaultFuelSearchOptions() FuelSearchOptions {
	return FuelSearchOptions{
		Category:            "service.vehicle.fuel",
		MaxSamples:          20,
		MaxRouteDistanceKm:  1.5,
		MaxResults:          20,
		QueryTimeout:        10 * time.Second,
		PriceBasePerLiter:   0.85,
		PriceSpreadPerLiter: 0.16,
	}
}

// FuelStationService finds fuel stations along a route.
type FuelStationService struct {
	places ports.PlacesFinder
	opts   FuelSearchOptions
}

// NewFuelStationService creates a new FuelStationService.
func NewFuelStationService(places ports.PlacesFinder, opts FuelSearchOptions) *FuelStationService {
	def := DefaultFuelSearchOptions()
	if opts.Category == "" {
		opts.Category = def.Category
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = def.MaxSamples
	}
	if opts.MaxRouteDistanceKm <= 0 {
		opts.MaxRouteDistanceKm = def.MaxRouteDistanceKm
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = def.MaxResults
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = def.QueryTimeout
	}
	return &FuelStationService{places: places, opts: opts}
}

// Find samples the route, queries stations around every sample concurrently and
// returns unique stations within MaxRouteDistanceKm of the full polyline, nearest
// first. A non-line geometry yields an empty list. The only error is cancellation
// of ctx.
func (s *FuelStationService) Find(ctx context.Context, geometry orb.Geometry, radiusMeters float64) ([]domain.FuelStation, error) {
	line := lineOf(geometry)
	if len(line) == 0 {
		return []domain.FuelStation{}, nil
	}

	samples := geospatial.Sample([]orb.Point(line), s.opts.MaxSamples)

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanFindFuelStations,
		telemetry.AttrSampleCount.Int(len(samples)))
	defer span.End()

	log := logging.FromContext(ctx)

	// One slot per sample; merged after the join so no goroutine shares state.
	found := make([][]domain.PointOfInterest, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range samples {
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, s.opts.QueryTimeout)
			defer cancel()

			qctx, qspan := telemetry.StartSpan(qctx, telemetry.SpanSampleQuery, telemetry.AttrSampleIndex.Int(i))
			defer qspan.End()

			pois, err := s.places.Nearby(qctx, p.Lat(), p.Lon(), radiusMeters, s.opts.Category)
			if err != nil {
				metrics.FuelStationQueries.WithLabelValues("error").Inc()
				log.Warn("fuel station query failed",
					"sample", i, "lat", p.Lat(), "lon", p.Lon(), "error", err)
				return nil
			}
			metrics.FuelStationQueries.WithLabelValues("ok").Inc()
			found[i] = pois
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	stations := make([]domain.FuelStation, 0)
	for _, pois := range found {
		for _, poi := range pois {
			key := stationKey(poi.Lat, poi.Lon)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			dist := geospatial.DistanceToLineKm(poi.Lat, poi.Lon, line)
			if dist > s.opts.MaxRouteDistanceKm {
				continue
			}
			stations = append(stations, s.newFuelStation(poi, key, dist))
		}
	}

	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].DistanceFromRouteKm < stations[j].DistanceFromRouteKm
	})
	if len(stations) > s.opts.MaxResults {
		stations = stations[:s.opts.MaxResults]
	}

	span.SetAttributes(telemetry.AttrStationCount.Int(len(stations)))
	metrics.FuelStationsReturned.Observe(float64(len(stations)))
	return stations, nil
}

// lineOf extracts the polyline from a line-type geometry. Multi-part lines are
// concatenated in order.
func lineOf(g orb.Geometry) orb.LineString {
	switch v := g.(type) {
	case orb.LineString:
		return v
	case orb.MultiLineString:
		var out orb.LineString
		for _, part := range v {
			out = append(out, part...)
		}
		return out
	default:
		return nil
	}
}

// stationKey rounds to 6 decimals (about 0.11 m).
func stationKey(lat, lon float64) string {
	return fmt.Sprintf("%.6f,%.6f", lat, lon)
}

func (s *FuelStationService) newFuelStation(poi domain.PointOfInterest, key string, distKm float64) domain.FuelStation {
	return domain.FuelStation{
		Name:                cleanStationName(poi.Name),
		Brand:               poi.Brand,
		Address:             poi.Address,
		Lat:                 poi.Lat,
		Lon:                 poi.Lon,
		PricePerLiter:       s.estimatePrice(key),
		FuelType:            fuelTypeLabel(poi.Tags),
		DistanceFromRouteKm: math.Round(distKm*1000) / 1000,
	}
}

// estimatePrice derives a stable pseudo price from the station key. POI data
// carries no live prices.
func (s *FuelStationService) estimatePrice(key string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	frac := float64(h.Sum32()%100) / 100
	return math.Round((s.opts.PriceBasePerLiter+s.opts.PriceSpreadPerLiter*frac)*1000) / 1000
}

var genericStationName = regexp.MustCompile(`(?i)\b(fuel|gas|petrol)\s+station\b`)

func cleanStationName(name string) string {
	name = strings.TrimSpace(genericStationName.ReplaceAllString(name, ""))
	name = strings.Trim(name, " -,")
	if name == "" {
		return "Fuel Pump"
	}
	return name
}

var fuelTags = []struct {
	keys  []string
	label string
}{
	{[]string{"fuel:diesel", "fuel:HGV_diesel"}, "Diesel"},
	{[]string{"fuel:gasoline", "fuel:petrol", "fuel:octane_91", "fuel:octane_95", "fuel:octane_98"}, "Petrol"},
	{[]string{"fuel:lpg"}, "LPG"},
	{[]string{"fuel:e85"}, "E85"},
	{[]string{"fuel:electricity", "fuel:electric"}, "Electric"},
}

func fuelTypeLabel(tags map[string]string) string {
	var labels []string
	for _, ft := range fuelTags {
		for _, k := range ft.keys {
			if strings.EqualFold(tags[k], "yes") {
				labels = append(labels, ft.label)
				break
			}
		}
	}
	if len(labels) == 0 {
		return "Fuel Available"
	}
	return strings.Join(labels, ", ")
}
