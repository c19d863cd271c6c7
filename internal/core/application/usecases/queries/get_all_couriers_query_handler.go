package queries

import (
	"context"
	"database/sql"
	"time"

	"refuel/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetAllCouriersQueryHandler retrieves all courier information from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetAllCouriersQueryHandler(db)
//	query := NewGetAllCouriersQuery()
//
//	couriers, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get couriers: %v", err)
//	    return err
//	}
//
//	fmt.Printf("Found %d couriers\n", len(couriers))
type GetAllCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetAllCouriersQueryHandler creates a handler for courier retrieval queries.
// Requires a GORM database connection for query execution.
func NewGetAllCouriersQueryHandler(db *gorm.DB) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{db: db}
}

// Handle executes the query to retrieve all couriers.
// Returns a slice of courier read models sorted by name.
// Converts database types to domain types for consistency.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
) ([]GetAllCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetAllCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			active,
			on_duty,
			connected,
			busy,
			last_heartbeat,
			position_lat,
			position_lng,
			zones
		FROM couriers
		ORDER BY name, id
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var courier GetAllCouriersQueryResponse
		var id uuid.UUID
		var lastHeartbeat sql.NullTime
		var lat, lng sql.NullFloat64
		var zones pq.StringArray

		err = rows.Scan(
			&id,
			&courier.Name,
			&courier.Active,
			&courier.OnDuty,
			&courier.Connected,
			&courier.Busy,
			&lastHeartbeat,
			&lat,
			&lng,
			&zones,
		)
		if err != nil {
			return nil, err
		}

		courierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		courier.ID = courierID

		if lastHeartbeat.Valid {
			courier.LastHeartbeat = lastHeartbeat.Time
		} else {
			courier.LastHeartbeat = time.Time{}
		}

		if lat.Valid && lng.Valid {
			position, posErr := kernel.NewGeoPoint(lat.Float64, lng.Float64)
			if posErr != nil {
				return nil, posErr
			}
			courier.Position = &position
		}

		courier.Zones = []string(zones)
		couriers = append(couriers, courier)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	tanksByCourier, err := h.loadTanks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range couriers {
		couriers[i].Tanks = tanksByCourier[couriers[i].ID]
	}

	return couriers, nil
}

// loadTanks fetches every courier's tank inventory in one pass, keyed by
// courier id and ordered by octane grade.
func (h GetAllCouriersQueryHandler) loadTanks(
	ctx context.Context,
) (map[kernel.UUID][]CourierTankResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			courier_id,
			octane,
			capacity_gallons,
			remaining_gallons
		FROM tanks
		ORDER BY courier_id, octane
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tanks := make(map[kernel.UUID][]CourierTankResponse)
	for rows.Next() {
		var courierID uuid.UUID
		var tank CourierTankResponse

		err = rows.Scan(&courierID, &tank.Octane, &tank.CapacityGallons, &tank.RemainingGallons)
		if err != nil {
			return nil, err
		}

		id, idErr := kernel.UUIDFromBytes(courierID[:])
		if idErr != nil {
			return nil, idErr
		}

		tanks[id] = append(tanks[id], tank)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tanks, nil
}
