package app

import (
	"strings"

	"github.com/samber/lo"

	"service_directory/internal/domain"
)

// Filter returns the businesses matching every non-empty filter, order preserved.
// Query matches name, category or description; city is a substring match;
// category is exact unless it is empty or "All".
func Filter(businesses []domain.Business, f domain.SearchFilter) []domain.Business {
	q := strings.ToLower(f.Query)
	city := strings.ToLower(f.City)
	category := f.Category
	if category == domain.CategoryAll {
		category = ""
	}

	return lo.Filter(businesses, func(b domain.Business, _ int) bool {
		if q != "" &&
			!strings.Contains(strings.ToLower(b.Name), q) &&
			!strings.Contains(strings.ToLower(b.Category), q) &&
			!strings.Contains(strings.ToLower(b.Description), q) {
			return false
		}
		if city != "" && !strings.Contains(strings.ToLower(b.City), city) {
			return false
		}
		if category != "" && b.Category != category {
			return false
		}
		return true
	})
}

// Suggest returns the candidates containing input, case-insensitively.
// An empty input yields no suggestions.
func Suggest(candidates []string, input string) []string {
	if input == "" {
		return nil
	}
	needle := strings.ToLower(input)
	return lo.Filter(candidates, func(c string, _ int) bool {
		return strings.Contains(strings.ToLower(c), needle)
	})
}
