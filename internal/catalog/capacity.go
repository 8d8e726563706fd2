// internal/catalog/capacity.go
package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

var capacityPattern = regexp.MustCompile(`^([0-9]+(?:[.,][0-9]+)?)\s*(TB|GB|MB|KB)?`)

// ParseCapacity converts a capacity label like "1TB", "512 GB" or "2048MB"
// into gigabytes so labels with different units sort on one scale. A bare
// number is read as gigabytes. A comma works as decimal separator. Anything
// unparseable maps to zero and sorts first.
func ParseCapacity(label string) float64 {
	label = strings.ToUpper(strings.TrimSpace(label))
	match := capacityPattern.FindStringSubmatch(label)
	if match == nil {
		return 0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
	if err != nil {
		return 0
	}

	switch match[2] {
	case "TB":
		return value * 1024
	case "MB":
		return value / 1024
	case "KB":
		return value / (1024 * 1024)
	default: // GB or no unit
		return value
	}
}
