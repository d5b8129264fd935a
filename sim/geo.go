package sim

import "math"

// EarthRadius in meters used by all great-circle computations.
const EarthRadius = 6372797.56085

// microdegreeTenths is the encoding factor of ReferencePosition coordinates.
const microdegreeTenths = 1e7

// Latitude/longitude "unavailable" encodings.
const (
	LatitudeUnavailable  int32 = 900000001
	LongitudeUnavailable int32 = 1800000001
)

// GeoPoint is a WGS84 position in degrees.
type GeoPoint struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// GeoArea is a circular broadcast area. Radius is in meters.
type GeoArea struct {
	Center GeoPoint
	Radius float64
}

// Contains reports whether p lies inside the area (boundary included).
func (a GeoArea) Contains(p GeoPoint) bool {
	return Distance(a.Center, p) <= a.Radius
}

// Distance returns the haversine great-circle distance between a and b in meters.
func Distance(a, b GeoPoint) float64 {
	const rad = math.Pi / 180
	lat1, lon1 := a.Latitude*rad, a.Longitude*rad
	lat2, lon2 := b.Latitude*rad, b.Longitude*rad

	h := math.Pow(math.Sin(0.5*(lat2-lat1)), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(0.5*(lon2-lon1)), 2)
	return EarthRadius * 2 * math.Asin(math.Min(1.0, math.Sqrt(h)))
}

// Offset moves p by distance meters along heading (degrees clockwise from north).
func Offset(p GeoPoint, heading, distance float64) GeoPoint {
	const rad = math.Pi / 180
	lat1, lon1 := p.Latitude*rad, p.Longitude*rad
	brg := heading * rad
	d := distance / EarthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(brg))
	lon2 := lon1 + math.Atan2(math.Sin(brg)*math.Sin(d)*math.Cos(lat1), math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))
	return GeoPoint{Latitude: lat2 / rad, Longitude: lon2 / rad}
}

// EncodeReferencePosition converts p into protocol units with unavailable altitude
// and confidence fields.
func EncodeReferencePosition(p GeoPoint) ReferencePosition {
	return ReferencePosition{
		Latitude:  int32(math.Round(p.Latitude * microdegreeTenths)),
		Longitude: int32(math.Round(p.Longitude * microdegreeTenths)),
		Altitude: Altitude{
			Value:      AltitudeValueUnavailable,
			Confidence: AltitudeConfidenceUnavailable,
		},
		PositionConfidenceEllipse: PositionConfidenceEllipse{
			SemiMajorConfidence:  SemiAxisLengthUnavailable,
			SemiMinorConfidence:  SemiAxisLengthUnavailable,
			SemiMajorOrientation: HeadingValueUnavailable,
		},
	}
}

// DecodeReferencePosition returns the position in degrees, or nil when either
// coordinate is unavailable or the position was never filled in.
func DecodeReferencePosition(rp ReferencePosition) *GeoPoint {
	if rp.Latitude == LatitudeUnavailable || rp.Longitude == LongitudeUnavailable {
		return nil
	}
	if rp.Latitude == 0 && rp.Longitude == 0 {
		return nil
	}
	return &GeoPoint{
		Latitude:  float64(rp.Latitude) / microdegreeTenths,
		Longitude: float64(rp.Longitude) / microdegreeTenths,
	}
}
