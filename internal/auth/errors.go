package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPermission is returned when a permission code is not part of the catalog.
	ErrInvalidPermission = fmt.Errorf("%w: invalid permission", ErrValidation)

	// ErrDuplicateName is returned when a role name is already taken inside the organization.
	ErrDuplicateName = errors.New("role name already exists")

	// ErrNotFound is returned when a role, assignment or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyAssigned is returned when the user already holds an active binding of the role.
	ErrAlreadyAssigned = errors.New("role already assigned to user")

	// ErrSystemRoleImmutable is returned when changing or deleting a system role.
	ErrSystemRoleImmutable = errors.New("cannot modify system role")

	// ErrDefaultRoleImmutable is returned when deleting a default role.
	ErrDefaultRoleImmutable = errors.New("cannot delete default role")

	// ErrRoleInUse is returned when deleting a role that is still assigned.
	ErrRoleInUse = errors.New("role is assigned to users")

	// ErrAccessDenied is returned by the gating checks when the caller may not
	// act on the target. Its message never tells which rule failed.
	ErrAccessDenied = errors.New("access denied")

	// ErrInfrastructure is returned when the backing store fails.
	ErrInfrastructure = errors.New("store unavailable")
)

// Infrastructure wraps a store failure so that it matches ErrInfrastructure
// while keeping the driver error in the chain.
func Infrastructure(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrInfrastructure) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrInfrastructure, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
