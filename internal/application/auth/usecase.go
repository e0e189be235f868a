package auth

import (
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// OperatorCredentials credencial configurada del operador del servicio.
// No hay tabla de usuarios: un único principal puede disparar sincronizaciones.
type OperatorCredentials struct {
	User         string
	PasswordHash string // hash bcrypt
}

// AuthUseCase emite tokens para el operador de sincronización.
type AuthUseCase struct {
	creds  OperatorCredentials
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(creds OperatorCredentials, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{creds: creds, jwtCfg: jwtCfg}
}

// IssueToken valida usuario y contraseña (bcrypt) y devuelve un JWT firmado.
// Devuelve ErrInvalidCredentials sin distinguir cuál de los dos falló.
func (uc *AuthUseCase) IssueToken(user, password string) (string, error) {
	if uc.creds.PasswordHash == "" || user != uc.creds.User {
		return "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.creds.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return jwt.Generate(uc.jwtCfg.Secret, user, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}
