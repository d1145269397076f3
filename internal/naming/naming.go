package naming

import (
	"errors"

	"node-cache-api/internal/clock"
)

// ErrTooOld is returned when the clock reads a year before 2000.
var ErrTooOld = errors.New("clock is set before the year 2000")

// GenerateName builds a node name from today's date, e.g. "name20000101".
func GenerateName(c clock.Clock) (string, error) {
	today := c.Now()
	if today.Year() < 2000 {
		return "", ErrTooOld
	}
	return "name" + today.Format("20060102"), nil
}
