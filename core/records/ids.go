package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampID renders now as Unix milliseconds and increments past any id
// already taken.
func TimestampID[T any](existing []T, idOf func(T) string, now time.Time) string {
	taken := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		taken[idOf(item)] = struct{}{}
	}
	n := now.UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		n++
	}
}

// SequenceID returns prefix plus one past the highest numeric suffix present,
// zero padded to three digits.
func SequenceID[T any](prefix string, existing []T, idOf func(T) string) string {
	highest := 0
	for _, item := range existing {
		id := idOf(item)
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}
