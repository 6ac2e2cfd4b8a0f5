package usecases

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

var (
	bracketedIntsRe = regexp.MustCompile(`\[[\d,\s]+\]`)
	intRe           = regexp.MustCompile(`\d+`)
)

// BuildReorderPrompt asks the model for a visiting order of stops as a bare JSON array.
func BuildReorderPrompt(stops []domain.Stop) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a route planner for a fleet vehicle. Reorder these %d stops so the total driving distance is as short as possible, starting at stop 1.\n\n", len(stops))
	b.WriteString("Stops:\n")
	for _, s := range stops {
		fmt.Fprintf(&b, "- id %d: %s (lat %.6f, lon %.6f)\n", s.ID, s.Name, s.Lat, s.Lon)
	}
	b.WriteString("\nRespond with ONLY a JSON array of the stop ids in visiting order, for example [1, 3, 2]. ")
	b.WriteString("Every id must appear exactly once. Do not add any explanation or other text.")
	return b.String()
}

// ExtractStopOrder pulls a list of ids out of free text. The first bracketed
// integer array that parses as JSON wins; otherwise every integer in the text is
// returned in order.
func ExtractStopOrder(text string) []int {
	for _, m := range bracketedIntsRe.FindAllString(text, -1) {
		var order []int
		if err := json.Unmarshal([]byte(m), &order); err == nil && len(order) > 0 {
			return order
		}
	}

	var order []int
	for _, m := range intRe.FindAllString(text, -1) {
		if n, err := strconv.Atoi(m); err == nil {
			order = append(order, n)
		}
	}
	return order
}

// ValidateStopOrder accepts order only if it is a permutation of 1..n.
func ValidateStopOrder(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: got %d ids, want %d", domain.ErrInvalidStopOrder, len(order), n)
	}
	seen := make([]bool, n+1)
	for _, id := range order {
		if id < 1 || id > n {
			return fmt.Errorf("%w: id %d out of range 1..%d", domain.ErrInvalidStopOrder, id, n)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %d", domain.ErrInvalidStopOrder, id)
		}
		seen[id] = true
	}
	return nil
}

// ParseStopOrder extracts and validates an order from a model response.
func ParseStopOrder(text string, n int) ([]int, error) {
	order := ExtractStopOrder(text)
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: no ids in response", domain.ErrInvalidStopOrder)
	}
	if err := ValidateStopOrder(order, n); err != nil {
		return nil, err
	}
	return order, nil
}
