package pricing

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"farecast/internal/types"
)

const surgeTTL = 5 * time.Minute

// surgeAt derives the multiplier from hour of day and day of week only.
func surgeAt(at time.Time) float64 {
	hour := at.Hour()
	var timeFactor float64
	switch {
	case hour >= 7 && hour <= 9:
		timeFactor = 1.3
	case hour >= 16 && hour <= 19:
		timeFactor = 1.4
	case hour >= 22 || hour <= 2:
		timeFactor = 1.2
	default:
		timeFactor = 1.0
	}

	dayFactor := 1.0
	if wd := at.Weekday(); wd == time.Friday || wd == time.Saturday {
		dayFactor = 1.2
	}

	return snapSurge(timeFactor * dayFactor)
}

func snapSurge(m float64) float64 {
	switch {
	case m <= 1.1:
		return SurgeNone
	case m <= 1.3:
		return SurgeLow
	case m <= 1.7:
		return SurgeMedium
	case m <= 2.2:
		return SurgeHigh
	case m <= 2.7:
		return SurgeVeryHigh
	default:
		return SurgeExtreme
	}
}

// surgeKey buckets a location to two decimals and the request hour.
func surgeKey(p types.Point, at time.Time) string {
	return fmt.Sprintf("surge:%s:%s:%d", round2(p.Lat), round2(p.Lng), at.Hour())
}

// round2 rounds halves toward +Inf so keys match the ones other services write.
func round2(v float64) string {
	return strconv.FormatFloat(math.Floor(v*100+0.5)/100, 'f', -1, 64)
}
