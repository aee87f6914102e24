package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityType distinguishes personal and company assessments in history.
type EntityType string

const (
	EntityPersonal EntityType = "personal"
	EntityCompany  EntityType = "company"
)

// CalendarType selects the zakat rate: the lunar year uses 2.5%, the solar
// year the adjusted 2.577%.
type CalendarType string

const (
	CalendarIslamic CalendarType = "islamic"
	CalendarWestern CalendarType = "western"
)

// Valid reports whether t is a known calendar type.
func (t CalendarType) Valid() bool {
	return t == CalendarIslamic || t == CalendarWestern
}

// ZakatHistoryEntry is an immutable snapshot of one finalized calculation.
// Rows are never updated after creation except the Paid flag.
type ZakatHistoryEntry struct {
	EntryID         uuid.UUID      `gorm:"column:entry_id;type:uuid;primaryKey" json:"entry_id"`
	UserID          uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Date            time.Time      `gorm:"column:date;not null" json:"date"`
	FiscalYear      int            `gorm:"column:fiscal_year;not null" json:"fiscal_year"`
	EntityType      EntityType     `gorm:"column:entity_type;type:varchar(16);not null" json:"entity_type"`
	TotalAssets     float64        `gorm:"column:total_assets;type:decimal(18,4);not null" json:"total_assets"`
	TotalDeductions float64        `gorm:"column:total_deductions;type:decimal(18,4);not null" json:"total_deductions"`
	NetWealth       float64        `gorm:"column:net_wealth;type:decimal(18,4);not null" json:"net_wealth"`
	NisabThreshold  float64        `gorm:"column:nisab_threshold;type:decimal(18,4);not null" json:"nisab_threshold"`
	ZakatDue        float64        `gorm:"column:zakat_due;type:decimal(18,4);not null" json:"zakat_due"`
	CalendarType    CalendarType   `gorm:"column:calendar_type;type:varchar(16);not null" json:"calendar_type"`
	MeetsNisab      bool           `gorm:"column:meets_nisab;not null" json:"meets_nisab"`
	Paid            bool           `gorm:"column:paid;not null;default:false" json:"paid"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ZakatHistoryEntry) TableName() string {
	return "ZakatHistory"
}

func (e *ZakatHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryID == uuid.Nil {
		e.EntryID = uuid.New()
	}
	return nil
}
