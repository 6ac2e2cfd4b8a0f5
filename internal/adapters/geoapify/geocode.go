package geoapify

import (
	"context"
	"net/url"
	"strconv"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

type geocodeResponse struct {
	Features []struct {
		Properties struct {
			Name         string  `json:"name"`
			AddressLine1 string  `json:"address_line1"`
			Formatted    string  `json:"formatted"`
			Lat          float64 `json:"lat"`
			Lon          float64 `json:"lon"`
		} `json:"properties"`
	} `json:"features"`
}

// Search geocodes free text.
func (c *Client) Search(ctx context.Context, text string, limit int) ([]domain.Place, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("limit", strconv.Itoa(limit))

	var resp geocodeResponse
	if err := c.getJSON(ctx, "geocode", "/v1/geocode/search", q, lookupCall, &resp); err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(resp.Features))
	for _, f := range resp.Features {
		p := f.Properties
		name := p.Name
		if name == "" {
			name = p.AddressLine1
		}
		if name == "" {
			name = "Unknown"
		}
		places = append(places, domain.Place{
			Name:             name,
			FormattedAddress: p.Formatted,
			Lat:              p.Lat,
			Lon:              p.Lon,
		})
	}
	return places, nil
}
