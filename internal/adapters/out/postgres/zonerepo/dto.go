// Package zonerepo provides data transfer objects and mapping functions for
// service zone persistence. Zones are configuration data: writes come from
// administrative seeding, reads from admission control and pricing.
package zonerepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"refuel/internal/core/domain/model/order"
	"refuel/internal/core/domain/model/zone"
)

// ZoneDTO represents the database structure for persisting zone configuration.
// Price and fee tables and the holiday calendar are stored as jsonb.
type ZoneDTO struct {
	Code                 string       `gorm:"type:varchar(16);primaryKey"`
	Name                 string       `gorm:"type:varchar(255);not null"`
	Active               bool         `gorm:"not null"`
	OpenMinute           int          `gorm:"type:int;not null"`
	CloseMinute          int          `gorm:"type:int;not null"`
	Holidays             HolidaysDTO  `gorm:"type:jsonb;not null"`
	PriceCentsPerGallon  PriceMapDTO  `gorm:"type:jsonb;not null"`
	FeeCentsByClass      FeeMapDTO    `gorm:"type:jsonb;not null"`
	TireFeeCents         int          `gorm:"type:int;not null"`
	OneHourService       bool         `gorm:"not null"`
	OneHourConstrainedBy string       `gorm:"type:varchar(16)"`
}

// TableName specifies the database table name for zone entities.
// Overrides GORM's default naming convention to use "zones".
func (ZoneDTO) TableName() string {
	return "zones"
}

// HolidayDTO is one blackout interval as stored in the holidays jsonb column.
type HolidayDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HolidaysDTO stores the zone's blackout calendar as a jsonb array.
type HolidaysDTO []HolidayDTO

// Value implements driver.Valuer for jsonb serialization.
func (h HolidaysDTO) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner for jsonb deserialization.
func (h *HolidaysDTO) Scan(value any) error {
	return scanJSON(h, value)
}

// PriceMapDTO stores per-gallon prices in cents keyed by octane grade.
type PriceMapDTO map[int]int

// Value implements driver.Valuer for jsonb serialization.
func (p PriceMapDTO) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner for jsonb deserialization.
func (p *PriceMapDTO) Scan(value any) error {
	return scanJSON(p, value)
}

// FeeMapDTO stores delivery fees in cents keyed by window class wire string.
type FeeMapDTO map[string]int

// Value implements driver.Valuer for jsonb serialization.
func (f FeeMapDTO) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for jsonb deserialization.
func (f *FeeMapDTO) Scan(value any) error {
	return scanJSON(f, value)
}

func scanJSON(dest any, value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported type %T for jsonb column", value)
	}
}

// fromDomain converts a zone domain aggregate to its database representation.
func fromDomain(aggregate *zone.Zone) ZoneDTO {
	holidays := make(HolidaysDTO, 0, len(aggregate.Holidays()))
	for _, holiday := range aggregate.Holidays() {
		holidays = append(holidays, HolidayDTO{
			Start: holiday.Start(),
			End:   holiday.End(),
		})
	}

	fees := make(FeeMapDTO, len(aggregate.Fees()))
	for class, cents := range aggregate.Fees() {
		fees[class.String()] = cents
	}

	return ZoneDTO{
		Code:                 aggregate.Code(),
		Name:                 aggregate.Name(),
		Active:               aggregate.Active(),
		OpenMinute:           aggregate.OpenMinute(),
		CloseMinute:          aggregate.CloseMinute(),
		Holidays:             holidays,
		PriceCentsPerGallon:  PriceMapDTO(aggregate.Prices()),
		FeeCentsByClass:      fees,
		TireFeeCents:         aggregate.TireFeeCents(),
		OneHourService:       aggregate.OneHourService(),
		OneHourConstrainedBy: aggregate.OneHourConstrainedBy(),
	}
}

// toDomain converts a database DTO to a zone domain aggregate.
func toDomain(dto ZoneDTO) (*zone.Zone, error) {
	holidays := make([]zone.Holiday, 0, len(dto.Holidays))
	for _, holidayDTO := range dto.Holidays {
		holiday, err := zone.NewHoliday(holidayDTO.Start, holidayDTO.End)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, holiday)
	}

	fees := make(map[order.DurationClass]int, len(dto.FeeCentsByClass))
	for classString, cents := range dto.FeeCentsByClass {
		class, err := order.DurationClassFromString(classString)
		if err != nil {
			return nil, err
		}
		fees[class] = cents
	}

	return zone.NewZone(
		dto.Code,
		dto.Name,
		dto.Active,
		dto.OpenMinute,
		dto.CloseMinute,
		holidays,
		map[int]int(dto.PriceCentsPerGallon),
		fees,
		dto.TireFeeCents,
		dto.OneHourService,
		dto.OneHourConstrainedBy,
	)
}
