package domain

import "errors"

var (
	ErrTooFewWaypoints  = errors.New("at least 2 waypoints are required")
	ErrTooFewStops      = errors.New("at least 3 stops are required for optimization")
	ErrLLMUnavailable   = errors.New("llm optimization unavailable")
	ErrInvalidStops     = errors.New("stop ids must be unique 1-based ordinals")
	ErrInvalidStopOrder = errors.New("invalid stop order")
	ErrNoRoute          = errors.New("no route found")
	ErrInvalidGeometry  = errors.New("route geometry must be a non-empty LineString")
	ErrNotFound         = errors.New("not found")
)
