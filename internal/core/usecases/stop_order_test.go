package usecases_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/usecases"
)

func TestExtractStopOrder(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"bare array", "[2,1,3]", []int{2, 1, 3}},
		{"surrounding prose", "Sure! [2, 1, 3]", []int{2, 1, 3}},
		{"markdown fence", "```json\n[3, 1, 2]\n```", []int{3, 1, 2}},
		{"first parsable array wins", "[1,,2] then [1, 2, 3]", []int{1, 2, 3}},
		{"integer scan fallback", "Visit 1 then 3 then 2", []int{1, 3, 2}},
		{"nothing", "no idea", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecases.ExtractStopOrder(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateStopOrder(t *testing.T) {
	tests := []struct {
		name  string
		order []int
		ok    bool
	}{
		{"permutation", []int{2, 1, 3}, true},
		{"duplicate", []int{1, 1, 2}, false},
		{"too short", []int{1, 2}, false},
		{"too long", []int{1, 2, 3, 4}, false},
		{"out of range", []int{1, 2, 4}, false},
		{"zero", []int{0, 1, 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := usecases.ValidateStopOrder(tt.order, 3)
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, domain.ErrInvalidStopOrder) {
				t.Errorf("expected ErrInvalidStopOrder, got %v", err)
			}
		})
	}
}

func TestParseStopOrder_NoIDs(t *testing.T) {
	_, err := usecases.ParseStopOrder("I cannot help with that.", 3)
	if !errors.Is(err, domain.ErrInvalidStopOrder) {
		t.Fatalf("expected ErrInvalidStopOrder, got %v", err)
	}
}

func TestBuildReorderPrompt(t *testing.T) {
	prompt := usecases.BuildReorderPrompt([]domain.Stop{
		{ID: 1, Name: "Depot", Lat: 43.2630126, Lon: -2.9349852},
		{ID: 2, Name: "Client A", Lat: 43.3, Lon: -2.9},
	})

	for _, want := range []string{"id 1: Depot", "43.263013", "-2.934985", "id 2: Client A", "ONLY a JSON array"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q:\n%s", want, prompt)
		}
	}
}
