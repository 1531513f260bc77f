package userrole

import (
	"time"

	"github.com/google/uuid"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
)

type assignRequest struct {
	UserID         uuid.UUID  `json:"userId"         validate:"required"`
	RoleID         uuid.UUID  `json:"roleId"         validate:"required"`
	OrganizationID uuid.UUID  `json:"organizationId" validate:"required"`
	AgencyID       *uuid.UUID `json:"agencyId"`
	ExpiresAt      *time.Time `json:"expiresAt"`
}

func (r assignRequest) input() auth.AssignInput {
	return auth.AssignInput{
		UserID:         r.UserID,
		RoleID:         r.RoleID,
		OrganizationID: r.OrganizationID,
		AgencyID:       r.AgencyID,
		ExpiresAt:      r.ExpiresAt,
	}
}

type extendRequest struct {
	ExpiresAt *time.Time `json:"expiresAt" validate:"required"`
}
