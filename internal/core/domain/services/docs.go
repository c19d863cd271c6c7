// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the fuel dispatch system.
// It implements business rules that don't naturally belong to a single
// aggregate root.
//
// The package includes:
//   - AdmissionControl: the price, operating-hours, and slot-capacity gates
//     an order request must pass before it is created
//   - AssignmentSelector: the filter that turns optimizer suggestions into
//     the pairings dispatch applies each tick
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
