package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/storefront/internal/storefront/domain"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("get user: %w", domain.ErrUserNotFound)

	require.ErrorIs(t, wrapped, domain.ErrNotFound)
	require.NotErrorIs(t, wrapped, domain.ErrConflict)

	var de *domain.Error
	require.True(t, errors.As(wrapped, &de))
	require.Equal(t, "User not found", de.Message)

	require.ErrorIs(t, domain.ErrBadCredentials, domain.ErrInvalidCredentials)
	require.Equal(t, "Invalid Credentials", domain.ErrBadCredentials.Error())
}

func TestValidationErrorMessage(t *testing.T) {
	one := &domain.ValidationError{Messages: []string{"Invalid email"}}
	require.Equal(t, "[Invalid email]", one.Error())

	many := &domain.ValidationError{Messages: []string{"Invalid email", "Password must be at least 8 characters long"}}
	require.Equal(t, "[Invalid email , Password must be at least 8 characters long]", many.Error())
	require.ErrorIs(t, many, domain.ErrValidation)
}

func TestRoleValid(t *testing.T) {
	require.True(t, domain.RoleUser.Valid())
	require.True(t, domain.RoleAdmin.Valid())
	require.False(t, domain.Role("ROOT").Valid())
	require.False(t, domain.Role("").Valid())
}
