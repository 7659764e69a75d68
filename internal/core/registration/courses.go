package registration

import (
	"slices"
	"strings"
)

// AddCourse returns tags with value appended, preserving order.
// The value is trimmed; blanks and exact duplicates leave tags unchanged.
func AddCourse(tags []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || slices.Contains(tags, value) {
		return tags
	}
	out := make([]string, 0, len(tags)+1)
	out = append(out, tags...)
	return append(out, value)
}

// RemoveCourse returns tags without any entry exactly equal to value.
func RemoveCourse(tags []string, value string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != value {
			out = append(out, t)
		}
	}
	return out
}
