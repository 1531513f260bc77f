package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/db/models"
)

// AssignmentService manages the role bindings of users. Every change evicts
// the cached permissions of the affected user.
type AssignmentService struct {
	users       UserDirectory
	roles       RoleRepository
	userRoles   UserRoleRepository
	invalidator Invalidator
	now         func() time.Time
}

// NewAssignmentService creates a new assignment service. A nil invalidator disables eviction.
func NewAssignmentService(
	users UserDirectory,
	roles RoleRepository,
	userRoles UserRoleRepository,
	invalidator Invalidator,
) *AssignmentService {
	if invalidator == nil {
		invalidator = NopInvalidator{}
	}

	return &AssignmentService{
		users:       users,
		roles:       roles,
		userRoles:   userRoles,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// WithClock replaces the time source.
func (s *AssignmentService) WithClock(now func() time.Time) *AssignmentService {
	s.now = now
	return s
}

// clock returns the current time in UTC so that stored timestamps compare
// correctly in the database.
func (s *AssignmentService) clock() time.Time {
	return s.now().UTC()
}

// AssignInput describes a new binding.
type AssignInput struct {
	UserID         uuid.UUID
	RoleID         uuid.UUID
	OrganizationID uuid.UUID
	AgencyID       *uuid.UUID
	ExpiresAt      *time.Time
}

// AssignRole binds a role to a user. The user must exist, the role must
// exist and the pair must not have a currently active binding. Revoked or
// expired bindings of the pair stay in the history.
func (s *AssignmentService) AssignRole(ctx context.Context, in AssignInput, assignedBy uuid.UUID) (*models.UserRole, error) {
	if in.OrganizationID == uuid.Nil {
		return nil, fmt.Errorf("%w: organization is required", ErrValidation)
	}

	if _, err := s.users.FindUser(ctx, in.UserID); err != nil {
		return nil, fmt.Errorf("user %s: %w", in.UserID, err)
	}

	role, err := s.roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return nil, fmt.Errorf("role %s: %w", in.RoleID, err)
	}

	if role.OrganizationID != nil && *role.OrganizationID != in.OrganizationID {
		return nil, fmt.Errorf("%w: role %q belongs to another organization", ErrValidation, role.Name)
	}

	now := s.clock()

	latest, err := s.userRoles.FindLatest(ctx, in.UserID, in.RoleID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	if latest != nil && latest.IsCurrentlyActive(now) {
		return nil, fmt.Errorf("%w: role %q", ErrAlreadyAssigned, role.Name)
	}

	key := models.SlotKey(in.UserID, in.RoleID)
	binding := &models.UserRole{
		UserID:         in.UserID,
		RoleID:         in.RoleID,
		OrganizationID: in.OrganizationID,
		AgencyID:       in.AgencyID,
		AssignedAt:     now,
		AssignedBy:     &assignedBy,
		ExpiresAt:      utc(in.ExpiresAt),
		IsActive:       true,
		ActiveKey:      &key,
	}

	if err = s.userRoles.Create(ctx, binding); err != nil {
		return nil, err
	}

	s.invalidator.EvictUser(in.UserID)

	log.Info().Str("user_id", in.UserID.String()).Str("role_id", in.RoleID.String()).
		Str("assigned_by", assignedBy.String()).Msg("role assigned")

	return binding, nil
}

// RevokeRole revokes the latest binding of the pair. Revoking an already
// revoked binding stamps the revocation again.
func (s *AssignmentService) RevokeRole(ctx context.Context, userID, roleID, revokedBy uuid.UUID) error {
	binding, err := s.userRoles.FindLatest(ctx, userID, roleID)
	if err != nil {
		return fmt.Errorf("assignment of role %s to user %s: %w", roleID, userID, err)
	}

	binding.Revoke(revokedBy, s.clock())

	if err = s.userRoles.Update(ctx, binding); err != nil {
		return err
	}

	s.invalidator.EvictUser(userID)

	log.Info().Str("user_id", userID.String()).Str("role_id", roleID.String()).
		Str("revoked_by", revokedBy.String()).Msg("role revoked")

	return nil
}

// RevokeAllRoles revokes every currently active binding of the user.
func (s *AssignmentService) RevokeAllRoles(ctx context.Context, userID, revokedBy uuid.UUID) error {
	bindings, err := s.userRoles.FindActiveByUser(ctx, userID)
	if err != nil {
		return err
	}

	var (
		now     = s.clock()
		revoked int
	)

	for i := range bindings {
		if !bindings[i].IsCurrentlyActive(now) {
			continue
		}

		bindings[i].Revoke(revokedBy, now)

		if err = s.userRoles.Update(ctx, &bindings[i]); err != nil {
			s.invalidator.EvictUser(userID)
			return err
		}

		revoked++
	}

	if revoked > 0 {
		s.invalidator.EvictUser(userID)
	}

	log.Info().Str("user_id", userID.String()).Int("revoked", revoked).Msg("all roles revoked")

	return nil
}

// ActivateRole reactivates the latest binding of the pair. The expiry is kept.
func (s *AssignmentService) ActivateRole(ctx context.Context, userID, roleID uuid.UUID) (*models.UserRole, error) {
	binding, err := s.userRoles.FindLatest(ctx, userID, roleID)
	if err != nil {
		return nil, fmt.Errorf("assignment of role %s to user %s: %w", roleID, userID, err)
	}

	binding.Activate()

	if err = s.userRoles.Update(ctx, binding); err != nil {
		return nil, err
	}

	s.invalidator.EvictUser(userID)

	log.Info().Str("user_id", userID.String()).Str("role_id", roleID.String()).Msg("role activated")

	return binding, nil
}

// ExtendExpiration moves the expiry of the latest binding of the pair. The
// new expiry must lie in the future, it may be earlier than the current one.
func (s *AssignmentService) ExtendExpiration(
	ctx context.Context,
	userID, roleID uuid.UUID,
	expiresAt time.Time,
) (*models.UserRole, error) {
	if !expiresAt.After(s.clock()) {
		return nil, fmt.Errorf("%w: expiration must be in the future", ErrValidation)
	}

	binding, err := s.userRoles.FindLatest(ctx, userID, roleID)
	if err != nil {
		return nil, fmt.Errorf("assignment of role %s to user %s: %w", roleID, userID, err)
	}

	binding.ExpiresAt = utc(&expiresAt)

	// an expired binding may have lost its slot to the release in Create
	if binding.IsActive && binding.ActiveKey == nil {
		key := models.SlotKey(userID, roleID)
		binding.ActiveKey = &key
	}

	if err = s.userRoles.Update(ctx, binding); err != nil {
		return nil, err
	}

	s.invalidator.EvictUser(userID)

	log.Info().Str("user_id", userID.String()).Str("role_id", roleID.String()).
		Time("expires_at", expiresAt).Msg("role expiration changed")

	return binding, nil
}

// Binding returns the latest binding of the pair, revoked or expired ones included.
func (s *AssignmentService) Binding(ctx context.Context, userID, roleID uuid.UUID) (*models.UserRole, error) {
	binding, err := s.userRoles.FindLatest(ctx, userID, roleID)
	if err != nil {
		return nil, fmt.Errorf("assignment of role %s to user %s: %w", roleID, userID, err)
	}

	return binding, nil
}

// ActiveRoles returns the currently active bindings of a user.
func (s *AssignmentService) ActiveRoles(ctx context.Context, userID uuid.UUID) ([]models.UserRole, error) {
	bindings, err := s.userRoles.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return currentlyActive(bindings, s.clock()), nil
}

// RoleHolders returns the currently active bindings of a role.
func (s *AssignmentService) RoleHolders(ctx context.Context, roleID uuid.UUID) ([]models.UserRole, error) {
	bindings, err := s.userRoles.FindActiveByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}

	return currentlyActive(bindings, s.clock()), nil
}

// History returns every binding of a user, revoked and expired ones included.
func (s *AssignmentService) History(ctx context.Context, userID uuid.UUID) ([]models.UserRole, error) {
	return s.userRoles.FindByUser(ctx, userID) //nolint:wrapcheck
}

func currentlyActive(bindings []models.UserRole, now time.Time) []models.UserRole {
	out := make([]models.UserRole, 0, len(bindings))

	for _, b := range bindings {
		if b.IsCurrentlyActive(now) {
			out = append(out, b)
		}
	}

	return out
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	u := t.UTC()

	return &u
}
