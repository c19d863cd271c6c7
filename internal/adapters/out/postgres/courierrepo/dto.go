// Package courierrepo provides data transfer objects and mapping functions for courier persistence.
// This package implements the repository pattern for the courier domain aggregate, handling
// the conversion between domain entities and database representations.
package courierrepo

import (
	"time"

	"refuel/internal/core/domain/model/courier"
	"refuel/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CourierDTO represents the database structure for persisting courier aggregates.
// Maps courier domain entities to relational database tables with proper foreign key relationships.
// Position columns are null for couriers that have never sent a heartbeat.
type CourierDTO struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name          string         `gorm:"type:varchar(255);not null"`
	Active        bool           `gorm:"not null"`
	OnDuty        bool           `gorm:"not null"`
	Connected     bool           `gorm:"not null"`
	Busy          bool           `gorm:"not null"`
	LastHeartbeat time.Time      `gorm:"not null"`
	PositionLat   *float64       `gorm:"type:double precision"`
	PositionLng   *float64       `gorm:"type:double precision"`
	Zones         pq.StringArray `gorm:"type:text[];not null"`
	Tanks         []TankDTO      `gorm:"foreignKey:CourierID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for courier entities.
// Overrides GORM's default naming convention to use "couriers" instead of "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

// TankDTO represents the database structure for persisting fuel tank entities.
// Links to courier via foreign key. Remaining gallons is the courier-reported
// estimate, not a metered value.
type TankDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Octane           int       `gorm:"type:int;not null"`
	CapacityGallons  int       `gorm:"type:int;not null"`
	RemainingGallons int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for tank entities.
// Overrides GORM's default naming convention to use "tanks" instead of "tank_dtos".
func (TankDTO) TableName() string {
	return "tanks"
}

// fromDomain converts a courier domain aggregate to its database representation.
// Maps all aggregate entities including tanks and their current levels.
func fromDomain(aggregate *courier.Courier) CourierDTO {
	courierID := aggregate.ID().Bytes()
	tanks := make([]TankDTO, 0, len(aggregate.Tanks()))

	for _, tank := range aggregate.Tanks() {
		tanks = append(tanks, TankDTO{
			ID:               tank.ID().Bytes(),
			CourierID:        courierID,
			Octane:           tank.Octane(),
			CapacityGallons:  tank.CapacityGallons(),
			RemainingGallons: tank.RemainingGallons(),
		})
	}

	var lat, lng *float64
	if position := aggregate.Position(); position != nil {
		latValue := position.Lat()
		lngValue := position.Lng()
		lat = &latValue
		lng = &lngValue
	}

	return CourierDTO{
		ID:            courierID,
		Name:          aggregate.Name(),
		Active:        aggregate.Active(),
		OnDuty:        aggregate.OnDuty(),
		Connected:     aggregate.Connected(),
		Busy:          aggregate.Busy(),
		LastHeartbeat: aggregate.LastHeartbeat(),
		PositionLat:   lat,
		PositionLng:   lng,
		Zones:         pq.StringArray(aggregate.Zones()),
		Tanks:         tanks,
	}
}

// toDomain converts a database DTO to a courier domain aggregate.
// Reconstructs the complete aggregate including all tanks using RestoreCourier.
func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var position *kernel.GeoPoint
	if dto.PositionLat != nil && dto.PositionLng != nil {
		point, posErr := kernel.NewGeoPoint(*dto.PositionLat, *dto.PositionLng)
		if posErr != nil {
			return nil, posErr
		}
		position = &point
	}

	tanks := make([]*courier.Tank, 0, len(dto.Tanks))
	for _, tankDTO := range dto.Tanks {
		tank, tankErr := tankToDomain(tankDTO)
		if tankErr != nil {
			return nil, tankErr
		}
		tanks = append(tanks, tank)
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Active,
		dto.OnDuty,
		dto.Connected,
		dto.Busy,
		dto.LastHeartbeat,
		position,
		[]string(dto.Zones),
		tanks,
	)
}

// tankToDomain converts a tank DTO to its domain entity.
// Uses RestoreTank to reconstruct the entity with its persisted level.
func tankToDomain(dto TankDTO) (*courier.Tank, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return courier.RestoreTank(id, dto.Octane, dto.CapacityGallons, dto.RemainingGallons)
}
