// Package creditrepo provides the postgres-backed customer credit ledger.
// Balances are promotional coupon credit in integer cents. Reservations
// ride in the same transaction as the order write they pay for.
package creditrepo

import (
	"context"
	"errors"
	"fmt"

	"refuel/internal/core/domain/model/kernel"
	"refuel/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreditDTO represents one customer's credit balance row.
type CreditDTO struct {
	CustomerID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	AvailableCents int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for credit balances.
// Overrides GORM's default naming convention to use "credits".
func (CreditDTO) TableName() string {
	return "credits"
}

// GormCreditLedger implements CreditLedger using GORM.
type GormCreditLedger struct {
	db *gorm.DB
}

// NewGormCreditLedger creates a new GORM credit ledger.
func NewGormCreditLedger(db *gorm.DB) *GormCreditLedger {
	return &GormCreditLedger{db: db}
}

// Available returns the customer's current balance in cents.
// Customers without a ledger row have a zero balance.
func (l *GormCreditLedger) Available(ctx context.Context, customerID kernel.UUID) (int, error) {
	if err := customerID.Validate(); err != nil {
		return 0, err
	}

	var dto CreditDTO
	if err := l.db.WithContext(ctx).First(&dto, "customer_id = ?", customerID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return dto.AvailableCents, nil
}

// Reserve deducts the given cents from the customer's balance.
//
// The deduction is guarded by the balance itself: if a concurrent order
// drained the balance after the caller quoted against it, no row matches
// and the reservation fails with an out_of_sync rejection.
func (l *GormCreditLedger) Reserve(ctx context.Context, customerID kernel.UUID, cents int) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	if cents <= 0 {
		return errs.NewValueIsOutOfRangeError("cents", cents, 1, nil)
	}

	result := l.db.WithContext(ctx).
		Model(&CreditDTO{}).
		Where("customer_id = ? AND available_cents >= ?", customerID.Bytes(), cents).
		Update("available_cents", gorm.Expr("available_cents - ?", cents))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewRejectionError(errs.ReasonOutOfSync,
			fmt.Sprintf("credit balance for customer %s no longer covers %d cents", customerID, cents))
	}

	return nil
}

// Refund returns the given cents to the customer's balance, creating the
// ledger row if the customer has never held credit before.
func (l *GormCreditLedger) Refund(ctx context.Context, customerID kernel.UUID, cents int) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	if cents <= 0 {
		return errs.NewValueIsOutOfRangeError("cents", cents, 1, nil)
	}

	dto := CreditDTO{CustomerID: customerID.Bytes(), AvailableCents: cents}
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"available_cents": gorm.Expr("credits.available_cents + ?", cents),
			}),
		}).
		Create(&dto).Error
}
