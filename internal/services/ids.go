package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// newID returns a compact unique id, safe under rapid successive calls.
func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// dayKey collapses a timestamp to its UTC calendar day.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
