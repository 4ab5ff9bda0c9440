package pricing

import (
	"math"

	"farecast/internal/types"
)

const earthRadiusMiles = 3958.8

// haversineMiles returns the great-circle distance between two points.
func haversineMiles(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(a.Lat))*math.Cos(degreesToRadians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// TimeOfDayFor buckets an hour of day.
func TimeOfDayFor(hour int) TimeOfDay {
	switch {
	case hour >= 6 && hour < 10:
		return Morning
	case hour >= 10 && hour < 16:
		return Afternoon
	case hour >= 16 && hour < 20:
		return Evening
	default:
		return Night
	}
}

// travelMinutes estimates minutes for a distance; unknown buckets use afternoon speed.
func travelMinutes(distanceMiles float64, tod TimeOfDay) float64 {
	speed, ok := averageSpeedMph[tod]
	if !ok {
		speed = averageSpeedMph[Afternoon]
	}
	return distanceMiles * 60 / speed
}
