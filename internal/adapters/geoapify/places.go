package geoapify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

const placesPerQuery = 10

type placesResponse struct {
	Features []struct {
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

// Nearby lists points of interest of category within radiusMeters of a point.
// It is neither retried nor rate limited: a discovery call fans out one of
// these per route sample and they must all run in parallel.
func (c *Client) Nearby(ctx context.Context, lat, lon, radiusMeters float64, category string) ([]domain.PointOfInterest, error) {
	q := url.Values{}
	q.Set("categories", category)
	q.Set("filter", fmt.Sprintf("circle:%f,%f,%d", lon, lat, int(radiusMeters)))
	q.Set("limit", fmt.Sprint(placesPerQuery))

	var resp placesResponse
	if err := c.getJSON(ctx, "places", "/v2/places", q, fanOutCall, &resp); err != nil {
		return nil, err
	}

	pois := make([]domain.PointOfInterest, 0, len(resp.Features))
	for _, f := range resp.Features {
		p := f.Properties
		lat, okLat := p["lat"].(float64)
		lon, okLon := p["lon"].(float64)
		if !okLat || !okLon {
			continue
		}
		pois = append(pois, domain.PointOfInterest{
			Name:    str(p, "name"),
			Lat:     lat,
			Lon:     lon,
			Brand:   firstNonEmpty(str(p, "brand"), str(p, "operator")),
			Address: firstNonEmpty(str(p, "address_line2"), str(p, "street")),
			Tags:    fuelTags(p),
		})
	}
	return pois, nil
}

// fuelTags collects OSM "fuel:*" tags from the raw datasource and the top-level properties.
func fuelTags(props map[string]any) map[string]string {
	tags := map[string]string{}
	if ds, ok := props["datasource"].(map[string]any); ok {
		if raw, ok := ds["raw"].(map[string]any); ok {
			for k, v := range raw {
				if strings.HasPrefix(k, "fuel:") {
					tags[k] = fmt.Sprint(v)
				}
			}
		}
	}
	for k, v := range props {
		if strings.HasPrefix(k, "fuel:") {
			tags[k] = fmt.Sprint(v)
		}
	}
	return tags
}

func str(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
