package controller

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/FleetRent-Admin/FleetRent-Admin/internal/auth"
)

func TestIsDuplicateKey(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm duplicated key", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"sqlite", errors.New("UNIQUE constraint failed: roles.organization_id, roles.name"), true},
		{"mysql", errors.New("Error 1062 (23000): Duplicate entry 'x' for key 'idx_roles_org_name'"), true},
		{"postgres", errors.New(`ERROR: duplicate key value violates unique constraint "idx_user_roles_active_key"`), true},
		{"other", errors.New("connection refused"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsDuplicateKey(tc.err))
		})
	}
}

func TestTranslate(t *testing.T) {
	conflict := auth.ErrDuplicateName

	testCases := []struct {
		name     string
		err      error
		conflict error
		wantErr  error
	}{
		{"not found", gorm.ErrRecordNotFound, conflict, auth.ErrNotFound},
		{"duplicate with conflict", gorm.ErrDuplicatedKey, conflict, auth.ErrDuplicateName},
		{"duplicate without conflict", gorm.ErrDuplicatedKey, nil, auth.ErrInfrastructure},
		{"other failure", errors.New("disk I/O error"), conflict, auth.ErrInfrastructure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, Translate(tc.err, tc.conflict), tc.wantErr)
		})
	}

	require.NoError(t, Translate(nil, conflict))
}
