package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/core/domain/model/order"
	"refuel/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

// Update saves an existing order to the database.
//
// The write is keyed to the status the aggregate carried when it was
// loaded. If another writer advanced the order in between, no row matches
// and the update fails with an out_of_sync rejection, so two concurrent
// transition attempts resolve as one success and one rejection.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("*").
		Where("id = ? AND status = ?", dto.ID, aggregate.RestoredStatus().String()).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewRejectionError(errs.ReasonOutOfSync,
			fmt.Sprintf("order %s was changed by another request", aggregate.ID()))
	}

	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllOpen retrieves all orders in a non-terminal status, oldest first.
func (r *GormOrderRepository) GetAllOpen(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Where("status NOT IN ?", terminalStatuses()).
		Order("ordered_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// CountOpenByCourier counts the open orders assigned to the given courier.
func (r *GormOrderRepository) CountOpenByCourier(ctx context.Context, courierID kernel.UUID) (int, error) {
	if err := courierID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("courier_id = ? AND status NOT IN ?", courierID.Bytes(), terminalStatuses()).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

// CountActiveOneHourInZone counts the one-hour orders in the given zone that
// have not yet reached servicing.
func (r *GormOrderRepository) CountActiveOneHourInZone(ctx context.Context, zoneCode string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("zone_code = ? AND window_class = ? AND status IN ?",
			zoneCode,
			order.DurationOneHour.String(),
			[]string{
				order.Unassigned.String(),
				order.Assigned.String(),
				order.Accepted.String(),
				order.Enroute.String(),
			}).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

func terminalStatuses() []string {
	return []string{order.Complete.String(), order.Cancelled.String()}
}
