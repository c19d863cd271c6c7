package zonerepo

import (
	"context"
	"errors"

	"refuel/internal/core/domain/model/zone"
	"refuel/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormZoneRepository implements ZoneRepository using GORM.
type GormZoneRepository struct {
	db *gorm.DB
}

// NewGormZoneRepository creates a new GORM zone repository.
func NewGormZoneRepository(db *gorm.DB) *GormZoneRepository {
	return &GormZoneRepository{db: db}
}

// Add saves a new zone configuration to the database.
func (r *GormZoneRepository) Add(ctx context.Context, aggregate *zone.Zone) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

// Get retrieves a zone configuration by its zip-style code.
func (r *GormZoneRepository) Get(ctx context.Context, code string) (*zone.Zone, error) {
	var dto ZoneDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("zone", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every configured zone ordered by code.
func (r *GormZoneRepository) GetAll(ctx context.Context) ([]*zone.Zone, error) {
	var dtos []ZoneDTO
	if err := r.db.WithContext(ctx).Order("code").Find(&dtos).Error; err != nil {
		return nil, err
	}

	zones := make([]*zone.Zone, 0, len(dtos))
	for _, dto := range dtos {
		z, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}

	return zones, nil
}
