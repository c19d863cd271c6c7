package courier

import (
	"errors"
	"time"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/errs"
	"refuel/internal/pkg/guard"
)

const (
	// courierDefaultTankCapacity is the default capacity, in gallons, of each
	// tank mounted on a newly registered courier's truck.
	courierDefaultTankCapacity = 100
)

// defaultOctanes are the fuel grades every newly registered courier carries.
func defaultOctanes() []int {
	return []int{87, 91}
}

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrZonesAreRequired is returned when attempting to create a courier with no zone assignments.
	ErrZonesAreRequired = errs.NewValueIsRequiredError("zones")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
	// ErrTankNotFound is returned when the courier carries no tank for the requested grade.
	ErrTankNotFound = errors.New("tank not found")
)

// Courier represents a fuel delivery driver in the system.
// It is an aggregate root that manages courier identity, availability, and
// the truck's fuel inventory. Couriers declare availability through on-duty
// flags, prove liveness through heartbeats, and carry fuel in tanks that
// drain as orders are serviced.
//
// Key responsibilities:
//   - Managing courier identity (ID, name, zone assignments)
//   - Tracking liveness from heartbeats and deriving the connected flag
//   - Tracking the busy flag as orders are claimed and closed out
//   - Managing the truck's tanks and their reported fuel levels
//
// Business rules:
//   - Courier must have a valid UUID, non-empty name, and at least one zone
//   - active mirrors account enablement; disabled couriers are ignored by dispatch
//   - connected is derived from heartbeat recency, never set directly
//   - busy reflects whether the courier holds any claimed open order
//   - Each courier starts with a full default tank per standard grade
//
// Example usage:
//
//	courier, err := NewCourier(kernel.NewUUID(), "Ray Kim", []string{"94103"})
//	if err != nil {
//	    // Handle construction error
//	}
//	// Courier is ready to heartbeat and take assignments
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// active reflects whether the courier's account is enabled
	active bool
	// onDuty is the driver-declared availability flag
	onDuty bool
	// connected reflects whether the courier's last heartbeat is fresh
	connected bool
	// busy reflects whether the courier holds a claimed open order
	busy bool
	// lastHeartbeat is when the courier last checked in, zero if never
	lastHeartbeat time.Time
	// position is the last reported location, nil if never reported
	position *kernel.GeoPoint
	// zones are the codes of the service zones this courier covers
	zones []string
	// tanks are the fuel compartments mounted on the courier's truck
	tanks []*Tank
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier with the specified parameters.
// This is the only way to register a valid Courier instance.
//
// The constructor validates all input parameters and mounts a full default
// tank for each standard grade. Fresh couriers start with an enabled account
// but off duty, disconnected, and idle; they become visible to dispatch once
// they heartbeat on duty.
//
// Parameters:
//   - id: Unique identifier for the courier (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - zones: Service zone codes the courier covers (must have at least one)
//
// Returns:
//   - *Courier: A fully initialized courier ready for operations
//   - error: Validation error if any parameter is invalid (aggregated errors for multiple issues)
//
// Example:
//
//	courier, err := NewCourier(kernel.NewUUID(), "Ray Kim", []string{"94103", "94110"})
//	if err != nil {
//	    log.Fatal("Failed to register courier:", err)
//	}
//	fmt.Printf("Registered courier: %s", courier.Name())
func NewCourier(id kernel.UUID, name string, zones []string) (*Courier, error) {
	courier := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setZones(zones),
	); err != nil {
		return nil, err
	}

	for _, octane := range defaultOctanes() {
		if err := courier.AddTank(octane, courierDefaultTankCapacity); err != nil {
			return nil, err
		}
	}

	courier.active = true
	return courier, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
// Unlike NewCourier which registers fresh couriers with default tanks, this
// constructor restores a courier to its previously persisted state, including
// availability flags, last heartbeat, position, and tank levels.
//
// Parameters:
//   - id: Unique identifier for the courier
//   - name: Human-readable courier name
//   - active: Persisted account-enabled flag
//   - onDuty: Persisted driver-declared availability
//   - connected: Persisted liveness flag
//   - busy: Persisted busy flag
//   - lastHeartbeat: When the courier last checked in (zero if never)
//   - position: Last reported location (nil if never reported)
//   - zones: Service zone codes the courier covers
//   - tanks: Fuel compartments belonging to this courier
//
// Returns:
//   - *Courier: Restored courier aggregate
//   - error: Validation error if any parameter is invalid
func RestoreCourier(
	id kernel.UUID,
	name string,
	active bool,
	onDuty bool,
	connected bool,
	busy bool,
	lastHeartbeat time.Time,
	position *kernel.GeoPoint,
	zones []string,
	tanks []*Tank,
) (*Courier, error) {
	courier := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setZones(zones),
		courier.setPosition(position),
		courier.setTanks(tanks),
	); err != nil {
		return nil, err
	}

	courier.active = active
	courier.onDuty = onDuty
	courier.connected = connected
	courier.busy = busy
	courier.lastHeartbeat = lastHeartbeat
	return courier, nil
}

// IsEqual compares two couriers for equality based on their unique identifiers.
// Two couriers are considered equal if they have the same ID, regardless of
// other attributes.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

// Validate checks if the Courier was properly constructed using the NewCourier constructor.
// The zero value of Courier is invalid and will fail this validation.
//
// Returns:
//   - error: ErrCourierIsNotConstructed if improperly initialized, nil if valid
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the unique identifier of the courier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the human-readable name of the courier.
func (c *Courier) Name() string {
	return c.name
}

// Active reports whether the courier's account is enabled.
func (c *Courier) Active() bool {
	return c.active
}

// OnDuty returns the driver-declared availability flag.
func (c *Courier) OnDuty() bool {
	return c.onDuty
}

// Connected reports whether the courier's last heartbeat is still considered fresh.
func (c *Courier) Connected() bool {
	return c.connected
}

// Busy reports whether the courier currently holds a claimed open order.
func (c *Courier) Busy() bool {
	return c.busy
}

// LastHeartbeat returns when the courier last checked in.
// The zero time means the courier has never sent a heartbeat.
func (c *Courier) LastHeartbeat() time.Time {
	return c.lastHeartbeat
}

// Position returns the courier's last reported location.
// Returns nil if the courier has never reported a position.
func (c *Courier) Position() *kernel.GeoPoint {
	return c.position
}

// Zones returns the codes of the service zones this courier covers.
// The returned slice is a copy to prevent external modification.
func (c *Courier) Zones() []string {
	out := make([]string, len(c.zones))
	copy(out, c.zones)
	return out
}

// Tanks returns the fuel compartments mounted on the courier's truck.
// The returned slice is a copy to prevent external modification.
func (c *Courier) Tanks() []*Tank {
	out := make([]*Tank, len(c.tanks))
	copy(out, c.tanks)
	return out
}

// ServesZone reports whether the courier covers the given service zone.
func (c *Courier) ServesZone(zoneCode string) bool {
	for _, zone := range c.zones {
		if zone == zoneCode {
			return true
		}
	}
	return false
}

// IsAvailable reports whether dispatch may count on this courier: account
// enabled, on duty by the driver's own declaration, recently heard from, and
// not already holding a claimed order.
func (c *Courier) IsAvailable() bool {
	return c.active && c.onDuty && c.connected && !c.busy
}

// Heartbeat records a liveness check-in from the courier's device.
// A heartbeat always refreshes the last-heartbeat timestamp, marks the
// courier connected, and updates the reported position.
//
// Parameters:
//   - position: The courier's current location (must be valid)
//   - at: When the check-in happened (must be non-zero)
//
// Returns:
//   - error: Validation error if the position or timestamp is invalid
//
// Example:
//
//	position, _ := kernel.NewGeoPoint(37.7749, -122.4194)
//	err := courier.Heartbeat(position, time.Now())
//	if err != nil {
//	    log.Fatal("Heartbeat rejected:", err)
//	}
func (c *Courier) Heartbeat(position kernel.GeoPoint, at time.Time) error {
	if err := position.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("at")
	}

	c.position = &position
	c.lastHeartbeat = at
	c.connected = true
	return nil
}

// SetOnDuty records the driver's declared availability.
// Going off duty does not touch the busy flag; a courier holding an order
// keeps it until the order reaches a terminal status.
func (c *Courier) SetOnDuty(onDuty bool) {
	c.onDuty = onDuty
}

// SetActive enables or disables the courier's account. Disabled couriers
// keep their state but are ignored by dispatch until re-enabled.
func (c *Courier) SetActive(active bool) {
	c.active = active
}

// ExpireHeartbeat marks the courier disconnected when the last heartbeat is
// older than the staleness threshold.
//
// Parameters:
//   - now: The current time
//   - staleAfter: How old a heartbeat may be before the courier is considered gone
//
// Returns:
//   - bool: true only when this call freshly transitioned the courier from
//     connected to disconnected, so the caller can notify exactly the couriers
//     that just dropped off
func (c *Courier) ExpireHeartbeat(now time.Time, staleAfter time.Duration) bool {
	if !c.connected {
		return false
	}

	if now.Sub(c.lastHeartbeat) <= staleAfter {
		return false
	}

	c.connected = false
	return true
}

// MarkBusy flags the courier as holding a claimed open order.
// Called by order transitions when an assignment is confirmed.
func (c *Courier) MarkBusy() {
	c.busy = true
}

// MarkIdle clears the busy flag.
// Called by order transitions when the courier's last open order reaches a
// terminal status.
func (c *Courier) MarkIdle() {
	c.busy = false
}

// AddTank mounts a new full tank on the courier's truck.
// This allows expanding the grades a courier can dispense.
//
// Parameters:
//   - octane: Fuel grade for the new tank (must be a dispensed grade)
//   - capacityGallons: Maximum capacity (must be positive)
//
// Returns:
//   - error: Validation error if parameters are invalid, or if the courier
//     already carries a tank for that grade
func (c *Courier) AddTank(octane int, capacityGallons int) error {
	if existing, _ := c.findTankByOctane(octane); existing != nil {
		return errs.NewValueIsInvalidError("octane is already carried")
	}

	tank, err := NewTank(kernel.NewUUID(), octane, capacityGallons)
	if err != nil {
		return err
	}

	c.tanks = append(c.tanks, tank)
	return nil
}

// CanDispense checks whether the courier carries a tank for the order's grade.
// Tank levels are courier-reported estimates, so only the grade is checked,
// not the remaining amount.
//
// Parameters:
//   - fuel: The fuel request to check (must be valid)
//
// Returns:
//   - bool: true if the courier carries the requested grade
//   - error: Validation error if the fuel value is invalid
func (c *Courier) CanDispense(fuel order.Fuel) (bool, error) {
	if err := fuel.Validate(); err != nil {
		return false, err
	}

	tank, err := c.findTankByOctane(fuel.Octane())
	if err != nil {
		return false, err
	}

	return tank != nil, nil
}

// Dispense drains an order's fuel from the matching tank.
// Called when an order the courier is servicing completes. The drain clamps
// at empty rather than failing, since levels are estimates.
//
// Parameters:
//   - fuel: The fuel that was dispensed (must be valid)
//
// Returns:
//   - error: Validation error if the fuel value is invalid, or
//     ErrTankNotFound if the courier carries no tank for that grade
func (c *Courier) Dispense(fuel order.Fuel) error {
	if err := fuel.Validate(); err != nil {
		return err
	}

	tank, err := c.findTankByOctane(fuel.Octane())
	if err != nil {
		return err
	}

	if tank == nil {
		return ErrTankNotFound
	}

	tank.Drain(fuel.Gallons())
	return nil
}

// RefillTank restores the tank carrying the given grade to full capacity.
// Called when staff record a depot top-up.
//
// Parameters:
//   - octane: Fuel grade of the tank to refill
//
// Returns:
//   - error: Validation error if the grade is invalid, or ErrTankNotFound
//     if the courier carries no tank for that grade
func (c *Courier) RefillTank(octane int) error {
	tank, err := c.findTankByOctane(octane)
	if err != nil {
		return err
	}

	if tank == nil {
		return ErrTankNotFound
	}

	tank.Refill()
	return nil
}

// ReportTankLevel records a courier-reported level for the tank carrying the
// given grade. Heartbeats carry these readings alongside position.
//
// Parameters:
//   - octane: Fuel grade of the tank being reported
//   - gallons: Reported level (capped at capacity, must not be negative)
//
// Returns:
//   - error: Validation error if the grade or level is invalid, or
//     ErrTankNotFound if the courier carries no tank for that grade
func (c *Courier) ReportTankLevel(octane int, gallons int) error {
	tank, err := c.findTankByOctane(octane)
	if err != nil {
		return err
	}

	if tank == nil {
		return ErrTankNotFound
	}

	return tank.SetLevel(gallons)
}

// findTankByOctane locates the tank carrying a specific grade.
// Returns nil without error when the courier has no tank for that grade.
func (c *Courier) findTankByOctane(octane int) (*Tank, error) {
	if err := order.ValidateOctane(octane); err != nil {
		return nil, err
	}

	for _, tank := range c.tanks {
		if tank.Octane() == octane {
			return tank, nil
		}
	}

	return nil, nil //nolint:nilnil // nothing is found and no error
}

// setID sets the courier's unique identifier with validation.
// This is an internal setter used during courier construction.
func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.id = id
	return nil
}

// setName sets the courier's name with validation.
// This is an internal setter used during courier construction.
func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

// setZones sets the courier's zone assignments with validation.
// This is an internal setter used during courier construction.
func (c *Courier) setZones(zones []string) error {
	if len(zones) == 0 {
		return ErrZonesAreRequired
	}

	for _, zone := range zones {
		if zone == "" {
			return errs.NewValueIsRequiredError("zone code")
		}
	}

	c.zones = make([]string, len(zones))
	copy(c.zones, zones)
	return nil
}

// setPosition sets the courier's last reported location.
// Used during courier restoration; nil means the courier never reported one.
func (c *Courier) setPosition(position *kernel.GeoPoint) error {
	if position != nil {
		if err := position.Validate(); err != nil {
			return err
		}
	}

	c.position = position
	return nil
}

// setTanks sets the courier's tank collection.
// Used during courier restoration to establish the tanks from persistent state.
// Validates that the collection is not empty and all tanks are valid.
func (c *Courier) setTanks(tanks []*Tank) error {
	if len(tanks) == 0 {
		return errs.NewValueIsRequiredError("tanks are required")
	}

	seen := make(map[int]bool, len(tanks))
	for _, tank := range tanks {
		if err := tank.Validate(); err != nil {
			return err
		}
		if seen[tank.Octane()] {
			return errs.NewValueIsInvalidError("tanks carry duplicate octane grades")
		}
		seen[tank.Octane()] = true
	}

	c.tanks = make([]*Tank, len(tanks))
	copy(c.tanks, tanks)
	return nil
}
