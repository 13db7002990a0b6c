//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"saddleview/internal/domain/user"
	"saddleview/internal/pkg/config"
	"saddleview/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Tokens are minted directly with the shared secret: the service trusts an
// external identity provider, so there is no login endpoint to drive.

func GenerateToken(t *testing.T, cfg config.JWTConfig, accountID uuid.UUID, role user.Role) string {
	t.Helper()

	duration, err := time.ParseDuration(cfg.Duration)
	require.NoError(t, err)
	service := jwt.NewService(cfg.Secret, duration)
	token, err := service.GenerateToken(accountID, role)
	require.NoError(t, err)
	return token
}

func GenerateExpiredToken(t *testing.T, cfg config.JWTConfig, accountID uuid.UUID, role user.Role) string {
	t.Helper()

	service := jwt.NewService(cfg.Secret, 1*time.Millisecond)
	token, err := service.GenerateToken(accountID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
