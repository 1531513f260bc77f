package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agency is the read model of an agency, used to resolve the organization an
// agency belongs to.
type Agency struct {
	// ID is the unique identifier for the agency.
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	// OrganizationID is the owning organization.
	OrganizationID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"organizationId"`
	// Name is the display name of the agency.
	Name string `gorm:"size:100;not null" json:"name"`
	// CreatedAt is the timestamp when the agency was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the agency was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Agency model.
func (Agency) TableName() string {
	return "agencies"
}

// BeforeCreate assigns a random id to new agencies.
func (a *Agency) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	return nil
}
