package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
)

// GuardUser checks that caller may act on the account of target: a target
// inside an organization needs access to that organization, accounts
// without organization fall back to the account rules.
func GuardUser(ctx context.Context, tenant *auth.TenantResolver, caller, target uuid.UUID) error {
	orgID, err := tenant.UserOrganizationID(ctx, target)
	if errors.Is(err, auth.ErrNotFound) {
		return tenant.ValidateUserAccess(ctx, target, caller)
	}

	if err != nil {
		return err
	}

	return tenant.ValidateOrganizationAccess(ctx, orgID, caller)
}
