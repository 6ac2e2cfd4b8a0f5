package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

type routingResponse struct {
	Features []struct {
		Properties struct {
			Distance float64 `json:"distance"` // meters
			Time     float64 `json:"time"`     // seconds
			Legs     []struct {
				Steps []struct {
					Distance    float64 `json:"distance"`
					Instruction struct {
						Text string `json:"text"`
					} `json:"instruction"`
				} `json:"steps"`
			} `json:"legs"`
			Waypoints []struct {
				Location      [2]float64 `json:"location"` // lon, lat
				OriginalIndex int        `json:"original_index"`
			} `json:"waypoints"`
		} `json:"properties"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"features"`
}

// Route calculates a driving route through waypoints in order.
func (c *Client) Route(ctx context.Context, waypoints []domain.GeoPoint, optimize bool) (*domain.Route, error) {
	if len(waypoints) < 2 {
		return nil, domain.ErrTooFewWaypoints
	}

	parts := make([]string, len(waypoints))
	for i, w := range waypoints {
		parts[i] = fmt.Sprintf("%f,%f", w.Lat, w.Lon)
	}

	q := url.Values{}
	q.Set("waypoints", strings.Join(parts, "|"))
	q.Set("mode", "drive")
	q.Set("details", "instruction_details")
	if optimize {
		q.Set("waypoints_order", "optimized")
	}

	var resp routingResponse
	if err := c.getJSON(ctx, "route", "/v1/routing", q, lookupCall, &resp); err != nil {
		return nil, err
	}
	if len(resp.Features) == 0 {
		return nil, domain.ErrNoRoute
	}

	f := resp.Features[0]
	line, err := decodeLine(f.Geometry)
	if err != nil {
		return nil, err
	}

	route := &domain.Route{
		DistanceKm:   f.Properties.Distance / 1000,
		DurationMin:  f.Properties.Time / 60,
		Geometry:     line,
		Instructions: []domain.Instruction{},
	}
	for _, leg := range f.Properties.Legs {
		for _, step := range leg.Steps {
			route.Instructions = append(route.Instructions, domain.Instruction{
				Text:       step.Instruction.Text,
				DistanceKm: step.Distance / 1000,
			})
		}
	}
	if optimize {
		for _, w := range f.Properties.Waypoints {
			route.Waypoints = append(route.Waypoints, domain.RouteWaypoint{
				Location:      domain.GeoPoint{Lat: w.Location[1], Lon: w.Location[0]},
				OriginalIndex: w.OriginalIndex,
			})
		}
	}
	return route, nil
}

// decodeLine turns a GeoJSON LineString or MultiLineString into one polyline.
func decodeLine(raw json.RawMessage) (orb.LineString, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: missing geometry", domain.ErrNoRoute)
	}
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("decode route geometry: %w", err)
	}
	switch v := g.Geometry().(type) {
	case orb.LineString:
		return v, nil
	case orb.MultiLineString:
		var line orb.LineString
		for _, part := range v {
			line = append(line, part...)
		}
		return line, nil
	default:
		return nil, fmt.Errorf("unexpected route geometry %s", g.Geometry().GeoJSONType())
	}
}
