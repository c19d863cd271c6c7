// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Maps order domain entities to relational database tables with proper indexing
// for efficient querying by status, zone, and courier assignment.
type OrderDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CourierID      *uuid.UUID      `gorm:"type:uuid;index"`
	Position       PositionDTO     `gorm:"embedded;embeddedPrefix:position_"`
	ZoneCode       string          `gorm:"type:varchar(16);not null;index"`
	Fuel           FuelDTO         `gorm:"embedded;embeddedPrefix:fuel_"`
	Window         WindowDTO       `gorm:"embedded;embeddedPrefix:window_"`
	Quote          QuoteDTO        `gorm:"embedded;embeddedPrefix:quote_"`
	TireService    bool            `gorm:"not null"`
	CreditReserved bool            `gorm:"not null"`
	Status         string          `gorm:"type:varchar(16);not null;index"`
	Events         StatusEventsDTO `gorm:"type:jsonb;not null"`
	OrderedAt      time.Time       `gorm:"not null"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// PositionDTO represents the embedded delivery coordinates within the order table.
// Stores the vehicle location where fuel is delivered.
type PositionDTO struct {
	Lat float64 `gorm:"type:double precision;not null"`
	Lng float64 `gorm:"type:double precision;not null"`
}

// FuelDTO represents the embedded fuel request within the order table.
type FuelDTO struct {
	Octane  int `gorm:"type:int;not null"`
	Gallons int `gorm:"type:int;not null"`
}

// WindowDTO represents the embedded service window within the order table.
type WindowDTO struct {
	Class string    `gorm:"type:varchar(16);not null"`
	Start time.Time `gorm:"not null"`
}

// QuoteDTO represents the embedded price quote within the order table.
// All amounts are integer cents.
type QuoteDTO struct {
	FuelCents        int `gorm:"type:int;not null"`
	DeliveryFeeCents int `gorm:"type:int;not null"`
	TireFeeCents     int `gorm:"type:int;not null"`
	CreditCents      int `gorm:"type:int;not null"`
}

// StatusEventDTO is one entry of the order's append-only status log as
// stored in the events jsonb column.
type StatusEventDTO struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// StatusEventsDTO stores the order's status history as a jsonb array.
type StatusEventsDTO []StatusEventDTO

// Value implements driver.Valuer for jsonb serialization.
func (e StatusEventsDTO) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan implements sql.Scanner for jsonb deserialization.
func (e *StatusEventsDTO) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("unsupported type %T for status events", value)
	}
}

// fromDomain converts an order domain aggregate to its database representation.
// Maps all order attributes including the status history and optional courier
// assignment.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	history := aggregate.History()
	events := make(StatusEventsDTO, 0, len(history))
	for _, event := range history {
		events = append(events, StatusEventDTO{
			Status: event.Status().String(),
			At:     event.At(),
		})
	}

	quote := aggregate.Quote()
	return OrderDTO{
		ID:         aggregate.ID().Bytes(),
		CustomerID: aggregate.CustomerID().Bytes(),
		CourierID:  courierID,
		Position: PositionDTO{
			Lat: aggregate.Position().Lat(),
			Lng: aggregate.Position().Lng(),
		},
		ZoneCode: aggregate.ZoneCode(),
		Fuel: FuelDTO{
			Octane:  aggregate.Fuel().Octane(),
			Gallons: aggregate.Fuel().Gallons(),
		},
		Window: WindowDTO{
			Class: aggregate.Window().Class().String(),
			Start: aggregate.Window().Start(),
		},
		Quote: QuoteDTO{
			FuelCents:        quote.FuelCents(),
			DeliveryFeeCents: quote.DeliveryFeeCents(),
			TireFeeCents:     quote.TireFeeCents(),
			CreditCents:      quote.CreditCents(),
		},
		TireService:    aggregate.TireService(),
		CreditReserved: aggregate.CreditReserved(),
		Status:         aggregate.Status().String(),
		Events:         events,
		OrderedAt:      aggregate.OrderedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including the status history using
// RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}

		courierID = &cID
	}

	position, err := kernel.NewGeoPoint(dto.Position.Lat, dto.Position.Lng)
	if err != nil {
		return nil, err
	}

	fuel, err := order.NewFuel(dto.Fuel.Octane, dto.Fuel.Gallons)
	if err != nil {
		return nil, err
	}

	class, err := order.DurationClassFromString(dto.Window.Class)
	if err != nil {
		return nil, err
	}

	window, err := order.NewServiceWindow(class, dto.Window.Start)
	if err != nil {
		return nil, err
	}

	quote, err := order.NewQuote(
		dto.Quote.FuelCents,
		dto.Quote.DeliveryFeeCents,
		dto.Quote.TireFeeCents,
		dto.Quote.CreditCents,
	)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	events := make([]order.StatusEvent, 0, len(dto.Events))
	for _, eventDTO := range dto.Events {
		eventStatus, statusErr := order.StatusFromString(eventDTO.Status)
		if statusErr != nil {
			return nil, statusErr
		}

		event, eventErr := order.NewStatusEvent(eventStatus, eventDTO.At)
		if eventErr != nil {
			return nil, eventErr
		}
		events = append(events, event)
	}

	return order.RestoreOrder(
		id,
		customerID,
		courierID,
		position,
		dto.ZoneCode,
		fuel,
		window,
		quote,
		dto.TireService,
		dto.CreditReserved,
		status,
		events,
	)
}
