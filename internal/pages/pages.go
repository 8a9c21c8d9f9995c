// Package pages parses page selectors such as "1,3-5" into an ordered set
// of 1-indexed page numbers.
package pages

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalid indicates a page selector token could not be parsed.
var ErrInvalid = errors.New("invalid page selection")

// Range is an ordered set of distinct positive page numbers.
// The zero value selects every page.
type Range struct {
	pages []int
}

// Parse parses a comma-separated list of page numbers and inclusive ranges.
// Duplicates are removed and the result is sorted ascending.
// An empty selector returns the zero Range (all pages).
// Any invalid token fails the whole parse; no partial Range is returned.
func Parse(s string) (Range, error) {
	var result []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if startStr, endStr, ok := strings.Cut(part, "-"); ok {
			start, errStart := strconv.Atoi(strings.TrimSpace(startStr))
			end, errEnd := strconv.Atoi(strings.TrimSpace(endStr))
			if errStart != nil || errEnd != nil {
				return Range{}, fmt.Errorf("invalid page range %q: %w", part, ErrInvalid)
			}
			if start <= 0 || end <= 0 || end < start {
				return Range{}, fmt.Errorf("invalid page range %q (pages start at 1, end >= start): %w", part, ErrInvalid)
			}
			for p := start; p <= end; p++ {
				result = append(result, p)
			}
			continue
		}

		page, err := strconv.Atoi(part)
		if err != nil {
			return Range{}, fmt.Errorf("invalid page number %q: %w", part, ErrInvalid)
		}
		if page <= 0 {
			return Range{}, fmt.Errorf("invalid page number %q (pages start at 1): %w", part, ErrInvalid)
		}
		result = append(result, page)
	}

	slices.Sort(result)
	return Range{pages: slices.Compact(result)}, nil
}

// IsZero reports whether the Range selects every page.
func (r Range) IsZero() bool {
	return len(r.pages) == 0
}

// Pages returns a copy of the selected page numbers in ascending order.
// Returns nil for the zero Range.
func (r Range) Pages() []int {
	if r.IsZero() {
		return nil
	}
	return slices.Clone(r.pages)
}

// Contains reports whether page is selected. The zero Range contains every page.
func (r Range) Contains(page int) bool {
	if r.IsZero() {
		return page > 0
	}
	_, found := slices.BinarySearch(r.pages, page)
	return found
}

// String renders the canonical selector, collapsing consecutive runs.
// Example: [1 2 3 5] -> "1-3,5".
func (r Range) String() string {
	var parts []string
	for i := 0; i < len(r.pages); {
		j := i
		for j+1 < len(r.pages) && r.pages[j+1] == r.pages[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, strconv.Itoa(r.pages[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", r.pages[i], r.pages[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}
