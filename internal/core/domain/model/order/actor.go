package order

import (
	"errors"
	"fmt"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

// Role identifies which kind of principal is driving an order operation.
// The API layer authenticates principals; the domain only checks that the
// right kind of principal is behind each transition.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer is the person who placed the order.
	RoleCustomer

	// RoleCourier is a driver fulfilling orders.
	RoleCourier

	// RoleStaff is an operations user with administrative access.
	RoleStaff
)

// getRoleStrings returns a map of Role values to their wire representations.
func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleCustomer: "customer",
		RoleCourier:  "courier",
		RoleStaff:    "staff",
	}
}

// RoleFromString parses a role from its wire representation.
func RoleFromString(s string) (Role, error) {
	for role, str := range getRoleStrings() {
		if str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause(
		"role is invalid",
		fmt.Errorf("%q is not a valid role", s),
	)
}

// Validate checks if the Role value is valid.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"role is invalid",
			fmt.Errorf("%d is not a valid role", r),
		)
	}
	return nil
}

// String returns the wire name of the role.
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// ErrActorIsNotConstructed is returned when using an improperly initialized Actor.
var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated principal attempting an order operation.
// Transitions check the actor against the order's assigned courier or
// owning customer; staff actors hold administrative access.
type Actor struct {
	id    kernel.UUID
	role  Role
	guard guard.ConstructorGuard
}

// NewActor creates an Actor with the given identity and role.
//
// Parameters:
//   - id: The principal's unique identifier (must be valid UUID)
//   - role: The kind of principal (must be valid)
//
// Returns:
//   - Actor: A valid actor
//   - error: Validation error if the id or role is invalid
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	actor := Actor{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(actor.setID(id), actor.setRole(role)); err != nil {
		return Actor{}, err
	}

	return actor, nil
}

// Validate checks if the Actor was properly constructed via NewActor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// ID returns the principal's unique identifier.
func (a Actor) ID() kernel.UUID {
	return a.id
}

// Role returns the kind of principal.
func (a Actor) Role() Role {
	return a.role
}

// IsStaff reports whether the actor holds administrative access.
func (a Actor) IsStaff() bool {
	return a.role == RoleStaff
}

func (a *Actor) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Actor) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	a.role = role
	return nil
}
