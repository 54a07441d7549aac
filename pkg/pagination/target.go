package pagination

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidTarget is returned when a bulk target is not a positive integer.
	ErrInvalidTarget = errors.New("bulk target must be a positive integer")

	// ErrTargetExceedsTotal is returned when a bulk target is above the known total.
	ErrTargetExceedsTotal = errors.New("bulk target exceeds collection total")
)

// ParseTarget parses the bulk input buffer against the known collection
// total.
func ParseTarget(input string, total int) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTarget)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTarget, n)
	}
	if n > total {
		return 0, fmt.Errorf("%w: %d > %d", ErrTargetExceedsTotal, n, total)
	}

	return n, nil
}

// CanSubmit reports whether the bulk submit control is enabled for input.
func CanSubmit(input string, total int) bool {
	_, err := ParseTarget(input, total)
	return err == nil
}
