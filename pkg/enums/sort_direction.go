package enums

import "fmt"

// SortDirection orders catalog listings.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

var validSortDirections = []SortDirection{
	SortAsc,
	SortDesc,
}

// String implements fmt.Stringer.
func (s SortDirection) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortDirection.
func (s SortDirection) IsValid() bool {
	for _, candidate := range validSortDirections {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortDirection converts raw input into a SortDirection, defaulting to asc.
func ParseSortDirection(value string) (SortDirection, error) {
	if value == "" {
		return SortAsc, nil
	}
	for _, candidate := range validSortDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort direction %q", value)
}
