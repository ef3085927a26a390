package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/luxy-checkout/internal/application/auth"
	"github.com/jhoicas/luxy-checkout/internal/application/dto"
	"github.com/jhoicas/luxy-checkout/internal/domain"
	pkgjwt "github.com/jhoicas/luxy-checkout/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 15, Issuer: "luxy-test"}

func hashPIN(t *testing.T, pin string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_PINCorrecto(t *testing.T) {
	uc := auth.NewAuthUseCase(hashPIN(t, "2468"), "kiosk-1", jwtCfg)
	out, err := uc.Login(dto.LoginRequest{PIN: " 2468 "})
	require.NoError(t, err)
	assert.Equal(t, 900, out.ExpiresIn)

	device, role, err := pkgjwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "kiosk-1", device)
	assert.Equal(t, pkgjwt.RoleSupervisor, role)
}

func TestLogin_Errores(t *testing.T) {
	uc := auth.NewAuthUseCase(hashPIN(t, "2468"), "kiosk-1", jwtCfg)
	_, err := uc.Login(dto.LoginRequest{PIN: "1111"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{PIN: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = auth.NewAuthUseCase("", "kiosk-1", jwtCfg).Login(dto.LoginRequest{PIN: "2468"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
