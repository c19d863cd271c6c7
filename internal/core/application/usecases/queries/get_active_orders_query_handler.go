package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves open orders from the database.
// Filters out terminal orders to provide active workload visibility.
//
// Example:
//
//	handler := NewGetActiveOrdersQueryHandler(db)
//	query := NewGetActiveOrdersQuery()
//
//	activeOrders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get active orders: %v", err)
//	    return err
//	}
//
//	if len(activeOrders) > 0 {
//	    fmt.Printf("%d orders in flight\n", len(activeOrders))
//	}
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
// Requires a GORM database connection for query execution.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all non-terminal orders.
// Results are sorted oldest first so the longest-waiting orders surface
// at the top of the dashboard.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			zone_code,
			courier_id,
			position_lat,
			position_lng,
			quote_fuel_cents + quote_delivery_fee_cents + quote_tire_fee_cents - quote_credit_cents,
			ordered_at,
			events
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY ordered_at, id
	`, order.Complete.String(), order.Cancelled.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetActiveOrdersQueryResponse
		var id uuid.UUID
		var status string
		var courierID uuid.NullUUID
		var lat, lng float64
		var orderedAt time.Time
		var rawEvents []byte

		err = rows.Scan(
			&id,
			&status,
			&orderResp.ZoneCode,
			&courierID,
			&lat,
			&lng,
			&orderResp.TotalCents,
			&orderedAt,
			&rawEvents,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		parsedStatus, statusErr := order.StatusFromString(status)
		if statusErr != nil {
			return nil, statusErr
		}
		orderResp.Status = parsedStatus

		if courierID.Valid {
			cID, cErr := kernel.UUIDFromBytes(courierID.UUID[:])
			if cErr != nil {
				return nil, cErr
			}
			orderResp.CourierID = &cID
		}

		position, posErr := kernel.NewGeoPoint(lat, lng)
		if posErr != nil {
			return nil, posErr
		}
		orderResp.Position = position
		orderResp.OrderedAt = orderedAt

		history, historyErr := decodeStatusHistory(rawEvents)
		if historyErr != nil {
			return nil, historyErr
		}
		orderResp.History = history

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// decodeStatusHistory parses the events jsonb column into domain status
// events.
func decodeStatusHistory(raw []byte) ([]order.StatusEvent, error) {
	var stored []struct {
		Status string    `json:"status"`
		At     time.Time `json:"at"`
	}
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("order status history is not valid json: %w", err)
	}

	history := make([]order.StatusEvent, 0, len(stored))
	for _, entry := range stored {
		status, err := order.StatusFromString(entry.Status)
		if err != nil {
			return nil, err
		}

		event, err := order.NewStatusEvent(status, entry.At)
		if err != nil {
			return nil, err
		}

		history = append(history, event)
	}

	return history, nil
}
