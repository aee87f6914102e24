package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store namespaces. Each top-level calculator store is persisted as one JSON
// snapshot keyed by (user, namespace); bumping the suffix retires a layout.
const (
	NamespaceIndividual = "zakat:individual:v1"
	NamespaceBusiness   = "zakat:business:v1"
)

// CalculatorState holds one serialized calculator store per user and
// namespace. The snapshot is schema-tolerant on load: missing fields default
// to zero/empty through the owning type's Normalize.
type CalculatorState struct {
	StateID   uuid.UUID      `gorm:"column:state_id;type:uuid;primaryKey" json:"state_id"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_state_user_ns" json:"user_id"`
	Namespace string         `gorm:"column:namespace;type:varchar(64);not null;uniqueIndex:idx_state_user_ns" json:"namespace"`
	Snapshot  datatypes.JSON `gorm:"column:snapshot;type:jsonb;not null" json:"snapshot"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (CalculatorState) TableName() string {
	return "CalculatorStates"
}

func (s *CalculatorState) BeforeCreate(tx *gorm.DB) error {
	if s.StateID == uuid.Nil {
		s.StateID = uuid.New()
	}
	return nil
}
