package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/job-leads/api/internal/auth"
)

// ErrInvalidCredentials is returned for any failed login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService validates the operator account and issues session tokens.
type AuthService struct {
	email        string
	passwordHash []byte
	jwt          *auth.JWTManager
}

// NewAuthService constructs an AuthService for the single configured operator.
func NewAuthService(operatorEmail, passwordHash string, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		email:        strings.ToLower(strings.TrimSpace(operatorEmail)),
		passwordHash: []byte(passwordHash),
		jwt:          jwtManager,
	}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(_ context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}
	if s.email == "" || len(s.passwordHash) == 0 {
		return "", ErrInvalidCredentials
	}
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(s.email, s.email, auth.RoleOperator)
}

// SessionTTL reports how long an issued token stays valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.jwt.TTL()
}
