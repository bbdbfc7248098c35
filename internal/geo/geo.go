// Package geo holds geoscape coordinates and the great-circle helpers used by
// the campaign for UFO and aircraft movement.
package geo

import (
	"math"
	"math/rand"
)

// EarthRadiusKM is the mean earth radius used for all distance maths.
const EarthRadiusKM = 6371.0

// Vector2 is a geoscape position in degrees.
type Vector2 struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

// CompareEps reports whether a and b differ by at most eps on both axes.
func CompareEps(a, b Vector2, eps float64) bool {
	return math.Abs(a.Lon-b.Lon) <= eps && math.Abs(a.Lat-b.Lat) <= eps
}

// DistanceOnGlobe returns the great-circle distance between a and b in degrees of arc.
func DistanceOnGlobe(a, b Vector2) float64 {
	return centralAngle(a, b) * 180 / math.Pi
}

// DistanceKM returns the haversine distance between a and b in kilometres.
func DistanceKM(a, b Vector2) float64 {
	return centralAngle(a, b) * EarthRadiusKM
}

func centralAngle(a, b Vector2) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// MoveToward advances from toward to by at most km kilometres. The returned
// bool is true once the destination is reached, in which case the position
// equals to exactly.
func MoveToward(from, to Vector2, km float64) (Vector2, bool) {
	dist := DistanceKM(from, to)
	if dist <= km || dist == 0 {
		return to, true
	}
	frac := km / dist
	dLon := normalizeLon(to.Lon - from.Lon)
	return Vector2{
		Lon: normalizeLon(from.Lon + dLon*frac),
		Lat: from.Lat + (to.Lat-from.Lat)*frac,
	}, false
}

// RandomPos returns a position uniformly distributed on the globe.
func RandomPos(rng *rand.Rand) Vector2 {
	lon := rng.Float64()*360 - 180
	lat := math.Asin(2*rng.Float64()-1) * 180 / math.Pi
	return Vector2{Lon: lon, Lat: lat}
}

// RandomAround returns a position within radiusKM of center.
func RandomAround(rng *rand.Rand, center Vector2, radiusKM float64) Vector2 {
	angle := rng.Float64() * 2 * math.Pi
	r := rng.Float64() * radiusKM
	dLat := (r * math.Cos(angle)) / 111.0
	dLon := (r * math.Sin(angle)) / (111.0 * math.Max(math.Cos(center.Lat*math.Pi/180), 0.01))
	lat := math.Max(-90, math.Min(90, center.Lat+dLat))
	return Vector2{Lon: normalizeLon(center.Lon + dLon), Lat: lat}
}

func normalizeLon(lon float64) float64 {
	for lon >= 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
