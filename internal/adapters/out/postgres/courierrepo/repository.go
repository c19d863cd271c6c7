package courierrepo

import (
	"context"
	"errors"

	"refuel/internal/core/domain/model/courier"
	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

// Update saves an existing courier to the database.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// Use Session with FullSaveAssociations to properly update nested tanks
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).Preload("Tanks").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every registered courier ordered by name.
// The reconciliation loop scans the full fleet each tick, so this read
// includes off-duty and disconnected couriers.
func (r *GormCourierRepository) GetAll(ctx context.Context) ([]*courier.Courier, error) {
	var dtos []CourierDTO
	if err := r.db.WithContext(ctx).
		Preload("Tanks").
		Order("name, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}

	return couriers, nil
}

// CountAvailableInZone counts the couriers eligible for dispatch in the
// given zone: enabled, on duty, connected, and covering the zone code.
// Busy couriers still count toward the pool; admission compares the pool
// size against active one-hour orders, and excluding busy couriers would
// double-count the orders they are already serving.
func (r *GormCourierRepository) CountAvailableInZone(ctx context.Context, zoneCode string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("active AND on_duty AND connected AND ? = ANY(zones)", zoneCode).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}
