package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

// TenantFilter tells collaborator queries which rows a user may see.
type TenantFilter struct {
	UserID             uuid.UUID       `json:"userId"`
	UserType           models.UserType `json:"userType"`
	OrganizationID     *uuid.UUID      `json:"organizationId"`
	AgencyID           *uuid.UUID      `json:"agencyId"`
	IsGlobalAccess     bool            `json:"isGlobalAccess"`
	IsAgencyRestricted bool            `json:"isAgencyRestricted"`
}

// TenantResolver derives tenant scoping from the user type of an account.
// It does not look at role bindings.
type TenantResolver struct {
	users    UserDirectory
	agencies AgencyDirectory
}

// NewTenantResolver creates a new tenant resolver.
func NewTenantResolver(users UserDirectory, agencies AgencyDirectory) *TenantResolver {
	return &TenantResolver{users: users, agencies: agencies}
}

// TenantFilter resolves the filter of userID.
func (r *TenantResolver) TenantFilter(ctx context.Context, userID uuid.UUID) (*TenantFilter, error) {
	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}

	f := &TenantFilter{
		UserID:   user.ID,
		UserType: user.UserType,
	}

	if user.UserType == models.UserTypeSuperAdmin {
		f.IsGlobalAccess = true
		return f, nil
	}

	f.OrganizationID = user.OrganizationID

	if user.UserType.IsAgencyBound() && user.AgencyID != nil {
		f.AgencyID = user.AgencyID
		f.IsAgencyRestricted = true
	}

	return f, nil
}

// denied logs the real reason and returns the generic ErrAccessDenied.
func denied(userID uuid.UUID, check, reason string) error {
	log.Warn().Str("user_id", userID.String()).Str("check", check).Str("reason", reason).Msg("access denied")
	return ErrAccessDenied
}

// requester loads an account for a gating check. Unknown and inactive
// accounts are denied, store failures are returned as they are.
func (r *TenantResolver) requester(ctx context.Context, userID uuid.UUID, check string) (*models.User, error) {
	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, denied(userID, check, "user not found")
		}

		return nil, err
	}

	if !user.IsActive {
		return nil, denied(userID, check, "user inactive")
	}

	return user, nil
}

// ValidateOrganizationAccess fails with ErrAccessDenied unless the user is a
// super admin or belongs to organizationID.
func (r *TenantResolver) ValidateOrganizationAccess(ctx context.Context, organizationID, userID uuid.UUID) error {
	const check = "organization"

	user, err := r.requester(ctx, userID, check)
	if err != nil {
		return err
	}

	if user.UserType == models.UserTypeSuperAdmin {
		return nil
	}

	if !sameID(user.OrganizationID, &organizationID) {
		return denied(userID, check, "other organization")
	}

	return nil
}

// ValidateAgencyAccess fails with ErrAccessDenied unless the user is a super
// admin, the owner of the agency's organization, bound to the agency itself
// or a member of the agency's organization.
func (r *TenantResolver) ValidateAgencyAccess(ctx context.Context, agencyID, userID uuid.UUID) error {
	const check = "agency"

	user, err := r.requester(ctx, userID, check)
	if err != nil {
		return err
	}

	if user.UserType == models.UserTypeSuperAdmin {
		return nil
	}

	agency, err := r.agencies.FindAgency(ctx, agencyID)
	if err != nil {
		if isNotFound(err) {
			return denied(userID, check, "agency not found")
		}

		return err
	}

	switch {
	case user.UserType == models.UserTypeOrganizationOwner && sameID(user.OrganizationID, &agency.OrganizationID):
		return nil
	case user.UserType.IsAgencyBound() && sameID(user.AgencyID, &agencyID):
		return nil
	case sameID(user.OrganizationID, &agency.OrganizationID):
		return nil
	}

	return denied(userID, check, "other organization")
}

// ValidateUserAccess fails with ErrAccessDenied unless the requester may
// change the target account: super admins always, everybody on themselves,
// organization owners inside their organization and agency managers inside
// their agency.
func (r *TenantResolver) ValidateUserAccess(ctx context.Context, targetUserID, requesterID uuid.UUID) error {
	const check = "user"

	requester, err := r.requester(ctx, requesterID, check)
	if err != nil {
		return err
	}

	target, err := r.users.FindUser(ctx, targetUserID)
	if err != nil {
		if isNotFound(err) {
			return denied(requesterID, check, "target not found")
		}

		return err
	}

	switch {
	case requester.UserType == models.UserTypeSuperAdmin:
		return nil
	case requesterID == targetUserID:
		return nil
	case requester.UserType == models.UserTypeOrganizationOwner && sameID(requester.OrganizationID, target.OrganizationID):
		return nil
	case requester.UserType == models.UserTypeAgencyManager && sameID(requester.AgencyID, target.AgencyID):
		return nil
	case !sameID(requester.OrganizationID, target.OrganizationID):
		return denied(requesterID, check, "other organization")
	}

	return denied(requesterID, check, "insufficient permissions")
}

// UserOrganizationID returns the organization of a user, ErrNotFound when
// the user has none.
func (r *TenantResolver) UserOrganizationID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("user %s: %w", userID, err)
	}

	if user.OrganizationID == nil {
		return uuid.Nil, fmt.Errorf("%w: user %s has no organization", ErrNotFound, userID)
	}

	return *user.OrganizationID, nil
}

// UserAgencyID returns the agency of a user, ErrNotFound when the user has none.
func (r *TenantResolver) UserAgencyID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("user %s: %w", userID, err)
	}

	if user.AgencyID == nil {
		return uuid.Nil, fmt.Errorf("%w: user %s has no agency", ErrNotFound, userID)
	}

	return *user.AgencyID, nil
}

// CanCreateAgency reports whether the user may create agencies.
func (r *TenantResolver) CanCreateAgency(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("user %s: %w", userID, err)
	}

	return user.UserType == models.UserTypeSuperAdmin || user.UserType == models.UserTypeOrganizationOwner, nil
}

// CanModifyOrganization reports whether the user may change organizationID.
func (r *TenantResolver) CanModifyOrganization(ctx context.Context, organizationID, userID uuid.UUID) (bool, error) {
	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("user %s: %w", userID, err)
	}

	if user.UserType == models.UserTypeSuperAdmin {
		return true, nil
	}

	return user.UserType == models.UserTypeOrganizationOwner && sameID(user.OrganizationID, &organizationID), nil
}

// CanDeleteAgency reports whether the user may delete agencyID.
func (r *TenantResolver) CanDeleteAgency(ctx context.Context, agencyID, userID uuid.UUID) (bool, error) {
	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("user %s: %w", userID, err)
	}

	switch user.UserType {
	case models.UserTypeSuperAdmin:
		return true, nil
	case models.UserTypeOrganizationOwner:
	default:
		return false, nil
	}

	agency, err := r.agencies.FindAgency(ctx, agencyID)
	if err != nil {
		return false, fmt.Errorf("agency %s: %w", agencyID, err)
	}

	return sameID(user.OrganizationID, &agency.OrganizationID), nil
}

// FilterOrganizationID returns the organization list queries of the user are
// restricted to, nil for super admins. Other users without an organization
// get ErrNotFound so that they never fall back to an unfiltered query.
func (r *TenantResolver) FilterOrganizationID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, err)
	}

	if user.UserType == models.UserTypeSuperAdmin {
		return nil, nil //nolint:nilnil
	}

	if user.OrganizationID == nil {
		return nil, fmt.Errorf("%w: user %s has no organization", ErrNotFound, userID)
	}

	return user.OrganizationID, nil
}

// ValidateDataIsolation fails with ErrAccessDenied unless both organizations
// are known and equal.
func ValidateDataIsolation(resourceOrganizationID, userOrganizationID *uuid.UUID) error {
	if !sameID(resourceOrganizationID, userOrganizationID) {
		return ErrAccessDenied
	}

	return nil
}

func sameID(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}
