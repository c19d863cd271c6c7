// Package courier provides domain entities and business logic for courier
// management in the fuel delivery system. It implements the Courier aggregate
// root with liveness tracking, availability flags, and tank inventory handling.
//
// The package includes:
//   - Courier: The aggregate root that manages courier identity, availability, and inventory
//   - Tank: An entity that tracks the level of one fuel grade on the courier's truck
//
// Key business rules:
//   - Couriers must have a valid unique identifier, name, and at least one zone
//   - The connected flag is derived from heartbeat recency, never set directly
//   - The busy flag reflects whether the courier holds a claimed open order
//   - Tanks carry one grade each, drain as orders complete, and refill to capacity
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package courier
