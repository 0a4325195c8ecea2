package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const requestIDPrefix = "BL-"

// GenerateRequestID returns the request identifier for a confirmation.
// The format is BL-XXXXXX where XXXXXX is the last 6 digits of the
// millisecond timestamp, zero-padded.
func GenerateRequestID(now time.Time) string {
	ms := now.UnixMilli() % 1_000_000
	if ms < 0 {
		ms = -ms
	}
	return fmt.Sprintf("%s%06d", requestIDPrefix, ms)
}

// ParseRequestNumber extracts the numeric portion from a request ID.
// Returns -1 if the ID format is invalid.
func ParseRequestNumber(id string) int {
	digits, ok := strings.CutPrefix(id, requestIDPrefix)
	if !ok || len(digits) != 6 {
		return -1
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return -1
		}
	}
	num, err := strconv.Atoi(digits)
	if err != nil {
		return -1
	}
	return num
}
