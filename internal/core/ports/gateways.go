package ports

import (
	"context"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

// Geocoder searches places by free text.
type Geocoder interface {
	Search(ctx context.Context, text string, limit int) ([]domain.Place, error)
}

// Router calculates a drivable route through ordered waypoints. When optimize is
// set the provider may reorder intermediate waypoints itself.
type Router interface {
	Route(ctx context.Context, waypoints []domain.GeoPoint, optimize bool) (*domain.Route, error)
}

// PlacesFinder queries points of interest of a category within radiusMeters of a point.
type PlacesFinder interface {
	Nearby(ctx context.Context, lat, lon, radiusMeters float64, category string) ([]domain.PointOfInterest, error)
}

// CompletionOptions tunes a single text completion.
type CompletionOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// TextCompleter sends a prompt to a language model and returns its text.
// Implementations return domain.ErrLLMUnavailable when no credential is configured.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}
