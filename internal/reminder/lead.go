// Package reminder implements the two reminder engines: the global
// evaluator that scans every user's notification preferences each minute,
// and the per-task dispatcher that fires persisted reminders exactly once.
package reminder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidLead is returned when a lead-time string is not of the form
// "<N>d" or "<N>h".
var ErrInvalidLead = errors.New("invalid lead time format")

// ParseLead converts a lead-time string like "2d" or "6h" into a duration.
// Only the unit letters 'd' and 'h' are recognized; "0d" and "0h" are valid
// and mean "only tasks due right now". Anything else, including negative
// amounts and bare numbers, is rejected.
func ParseLead(lead string) (time.Duration, error) {
	if len(lead) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLead, lead)
	}

	unit := lead[len(lead)-1]
	amount, err := strconv.Atoi(strings.TrimSpace(lead[:len(lead)-1]))
	if err != nil || amount < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLead, lead)
	}

	switch unit {
	case 'd':
		return time.Duration(amount) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(amount) * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLead, lead)
	}
}
