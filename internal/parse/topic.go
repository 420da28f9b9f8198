package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"showerroom-status-backend/internal/model"
)

var (
	floorRe    = regexp.MustCompile(`(?i)^(-?\d+)\s*(?:F|階)?$`)
	basementRe = regexp.MustCompile(`(?i)^B(\d+)\s*(?:F|階)?$`)
)

const topicSep = "/"

// Floor parses a floor label such as "3", "3F", "3階" or "B1" (basement,
// reported as -1).
func Floor(raw string) (int, error) {
	s := strings.TrimSpace(raw)

	if m := floorRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, nil
		}
	}
	if m := basementRe.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return -n, nil
		}
	}

	return 0, fmt.Errorf("unable to parse floor: %q", raw)
}

// FloorLabel renders a floor the way Floor reads it back: "3F", or "B1"
// for basements.
func FloorLabel(floor int) string {
	if floor < 0 {
		return "B" + strconv.Itoa(-floor)
	}
	return strconv.Itoa(floor) + "F"
}

// FormatTopic renders the notification message for a location:
// "<gender>/<building>/<floor>".
func FormatTopic(loc model.Location) string {
	return loc.Gender + topicSep + loc.Building + topicSep + strconv.Itoa(loc.Floor)
}

// ParseTopic is the inverse of FormatTopic. The floor part accepts every
// form Floor does.
func ParseTopic(raw string) (model.Location, error) {
	parts := strings.Split(strings.TrimSpace(raw), topicSep)
	if len(parts) != 3 {
		return model.Location{}, fmt.Errorf("unable to parse topic: %q", raw)
	}

	gender := strings.TrimSpace(parts[0])
	building := strings.TrimSpace(parts[1])
	if gender == "" || building == "" {
		return model.Location{}, fmt.Errorf("unable to parse topic: %q", raw)
	}

	floor, err := Floor(parts[2])
	if err != nil {
		return model.Location{}, fmt.Errorf("unable to parse topic %q: %w", raw, err)
	}

	return model.Location{Gender: gender, Building: building, Floor: floor}, nil
}
