// Package kernel holds the primitive value objects shared by every part of the
// refuel domain model.
//
// It provides:
//   - UUID: validated identifiers for orders, couriers, and customers
//   - GeoPoint: a WGS84 position with bounds checking and distance math
//
// Both types are immutable, safe for concurrent use, and reject their zero
// values so that unconstructed instances cannot leak into the domain.
package kernel
