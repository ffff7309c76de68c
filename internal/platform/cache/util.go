package cache

import (
	"time"
)

// TimeUntilNextMidnight は now から次のUTC午前0時までの期間を返します。
func TimeUntilNextMidnight(now time.Time) time.Duration {
	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(now)
}
