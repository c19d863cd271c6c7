package kernel

import (
	"errors"
	"fmt"
	"math"

	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0

	earthRadiusMeters = 6371000.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly initialized GeoPoint.
// GeoPoints must be created using the NewGeoPoint constructor to ensure validity.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic position with validated WGS84 coordinates.
// GeoPoint is an immutable value object that ensures latitude and longitude are
// always within valid bounds. It carries customer delivery locations and courier
// positions reported by the mobile app.
// The zero value of GeoPoint is invalid and will fail validation - use the
// constructor to create instances.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(37.7739, -122.4312)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Printf("Position: %s", point) // Output: GeoPoint(37.773900,-122.431200)
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a new GeoPoint with the specified coordinates.
// Latitude must be within [LatitudeMin..LatitudeMax] and longitude within
// [LongitudeMin..LongitudeMax]. Returns an error if either coordinate is
// outside the valid bounds.
//
// Parameters:
//   - lat: Latitude in decimal degrees
//   - lng: Longitude in decimal degrees
//
// Returns:
//   - GeoPoint: A valid geo point instance
//   - error: Validation error if coordinates are out of bounds
func NewGeoPoint(lat float64, lng float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLat(lat), point.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks if the GeoPoint was properly constructed using the constructor.
// The zero value of GeoPoint is invalid and will fail this validation.
//
// Returns:
//   - error: ErrGeoPointIsNotConstructed if the point was not properly initialized, nil otherwise
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in decimal degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in decimal degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// String returns a human-readable string representation of the GeoPoint.
// The format is "GeoPoint(lat,lng)" which is useful for debugging and logging.
// This method implements the fmt.Stringer interface.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.lat, p.lng)
}

// IsEqual compares two geo points for equality.
// Two points are considered equal if they have exactly the same latitude and longitude.
// Both points must be properly constructed (pass validation) for the comparison to succeed.
//
// Parameters:
//   - other: The GeoPoint to compare with
//
// Returns:
//   - bool: true if points are equal, false otherwise
//   - error: Validation error if either point is improperly constructed
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lng == other.lng, nil
}

// DistanceTo calculates the great-circle distance in meters between two geo points
// using the haversine formula. Both points must be properly constructed (pass
// validation) for the calculation to succeed.
//
// Parameters:
//   - other: The GeoPoint to calculate distance to
//
// Returns:
//   - float64: The distance in meters
//   - error: Validation error if either point is improperly constructed
//
// Example:
//
//	sf, _ := kernel.NewGeoPoint(37.7749, -122.4194)
//	oakland, _ := kernel.NewGeoPoint(37.8044, -122.2712)
//
//	meters, err := sf.DistanceTo(oakland)
//	// meters is roughly 13500, err = nil
func (p GeoPoint) DistanceTo(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := p.lat * math.Pi / 180
	lat2 := other.lat * math.Pi / 180
	dLat := (other.lat - p.lat) * math.Pi / 180
	dLng := (other.lng - p.lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c, nil
}

// setLat sets the latitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use value receivers.
// Although mixing receiver types is generally not recommended, in this case we use pointer
// receivers for these private setters to enable self-encapsulated validation of business
// requirements during object construction.
func (p *GeoPoint) setLat(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("lat", lat, LatitudeMin, LatitudeMax)
	}

	p.lat = lat
	return nil
}

// setLng sets the longitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use value receivers.
// Although mixing receiver types is generally not recommended, in this case we use pointer
// receivers for these private setters to enable self-encapsulated validation of business
// requirements during object construction.
func (p *GeoPoint) setLng(lng float64) error {
	if lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("lng", lng, LongitudeMin, LongitudeMax)
	}

	p.lng = lng
	return nil
}
