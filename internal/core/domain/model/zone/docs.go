// Package zone provides the service-zone configuration the admission checks
// read: operating hours, holiday blackouts, the fuel price table, delivery
// fees by duration class, and the one-hour slot-capacity designation.
//
// Zones are a read model. They are seeded by operations, loaded by the
// create-order path, and never mutated by the dispatch core; every pricing
// and hours decision is a pure function of the zone's configuration and the
// supplied wall-clock time.
package zone
