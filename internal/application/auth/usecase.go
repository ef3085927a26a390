package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/luxy-checkout/internal/application/dto"
	"github.com/jhoicas/luxy-checkout/internal/domain"
	"github.com/jhoicas/luxy-checkout/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de supervisor por PIN (hash bcrypt en configuración).
type AuthUseCase struct {
	pinHash  string
	deviceID string
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso. pinHash vacío deshabilita el login.
func NewAuthUseCase(pinHash, deviceID string, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{pinHash: pinHash, deviceID: deviceID, jwtCfg: jwtCfg}
}

// Enabled indica si hay PIN y secreto configurados.
func (uc *AuthUseCase) Enabled() bool {
	return uc.pinHash != "" && uc.jwtCfg.Secret != ""
}

// Login verifica el PIN y genera un token con rol supervisor.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if !uc.Enabled() {
		return nil, domain.ErrForbidden
	}
	pin := strings.TrimSpace(in.PIN)
	if pin == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.pinHash), []byte(pin)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.deviceID, jwt.RoleSupervisor, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		Role:      jwt.RoleSupervisor,
	}, nil
}
