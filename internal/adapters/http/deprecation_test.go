package http

import "testing"

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"/api/ai-optimize", "/api/ai-optimize", true},
		{"/api/routes/42", "/api/routes/:id", true},
		{"/api/routes/42/", "/api/routes/:id", true},
		{"/api/routes", "/api/routes/:id", false},
		{"/api/routes/42/stops", "/api/routes/:id", false},
		{"/api/other/42", "/api/routes/:id", false},
	}
	for _, tt := range tests {
		if got := matchPattern(tt.path, tt.pattern); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.path, tt.pattern, got, tt.want)
		}
	}
}

func TestValidationMessage(t *testing.T) {
	req := calculateRouteRequest{Waypoints: []waypointDTO{{Lat: 95, Lon: 0}}}
	err := validate.Struct(req)
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := validationMessage(err)
	if msg != "waypoints needs at least 2 items" {
		t.Errorf("unexpected message %q", msg)
	}

	req = calculateRouteRequest{Waypoints: []waypointDTO{{Lat: 95, Lon: 0}, {Lat: 1, Lon: 1}}}
	msg = validationMessage(validate.Struct(req))
	if msg != "waypoints[0].lat must be a valid latitude" {
		t.Errorf("unexpected message %q", msg)
	}
}
