package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/records"
)

func newTestStore() *records.Store {
	return records.NewStore(records.NewMemoryBackend(), zap.NewNop())
}

func fixedTime() time.Time {
	return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
}

// seqIDs returns an id generator producing id-1, id-2, ...
func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}
