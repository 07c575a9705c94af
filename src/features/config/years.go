package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	minYear = 1950
	maxYear = 2030
)

// ParseYears parses a year specification: either an explicit list
// ("2024,2025") or an inclusive range ("2020-2025").
func ParseYears(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty year specification")
	}

	if strings.Contains(spec, "-") {
		parts := strings.SplitN(spec, "-", 2)
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid year range %q: %w", spec, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid year range %q: %w", spec, err)
		}
		if start > end || start < minYear || end > maxYear {
			return nil, fmt.Errorf("year range %q must be within %d-%d", spec, minYear, maxYear)
		}
		years := make([]int, 0, end-start+1)
		for y := start; y <= end; y++ {
			years = append(years, y)
		}
		return years, nil
	}

	seen := make(map[int]bool)
	var years []int
	for _, field := range strings.Split(spec, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", field, err)
		}
		if y < minYear || y > maxYear {
			return nil, fmt.Errorf("year %d must be within %d-%d", y, minYear, maxYear)
		}
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years, nil
}

// YearSet converts a year list into a membership set.
func YearSet(years []int) map[int]bool {
	set := make(map[int]bool, len(years))
	for _, y := range years {
		set[y] = true
	}
	return set
}
