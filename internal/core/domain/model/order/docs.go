// Package order provides domain entities and business logic for fuel order
// management. It implements the Order aggregate root with lifecycle management,
// a strict status state machine, and the append-only status event log.
//
// The package includes:
//   - Order: The aggregate root that manages order identity, properties, and lifecycle
//   - Status: A state machine that enforces single-step forward transitions
//   - StatusEvent: One entry of the append-only transition log
//   - Fuel, ServiceWindow, Quote: Validated value objects carried by the order
//
// Key business rules:
//   - Order status walks unassigned -> assigned -> accepted -> enroute ->
//     servicing -> complete one step at a time, with cancelled reachable from
//     any state that precedes complete
//   - The event log's last entry always equals the current status
//   - Dispatch assignment confirms on the courier's behalf (assigned and
//     accepted in one step); administrative assignment leaves the order
//     assigned until the courier accepts
//   - Acting on a terminal order or requesting any status other than the legal
//     next one is refused with a stable rejection reason
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
