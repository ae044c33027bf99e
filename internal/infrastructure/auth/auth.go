package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jplsports/player-auction-backend/internal/domain/errors"
)

// Role determines which auction operations a user may invoke
const (
	RoleAdmin = "admin"
	RoleTeam  = "team"
)

// Claims are the parsed contents of a session token
type Claims struct {
	UserID   uuid.UUID
	Username string
	Role     string
	TeamID   *uuid.UUID
	TokenID  string
	ExpireAt time.Time
}

type jwtClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	TeamID   string `json:"team_id,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies session tokens and password hashes
type Service struct {
	secret      []byte
	tokenExpiry time.Duration
}

// NewService creates the auth service
func NewService(secret string, tokenExpiry time.Duration) *Service {
	return &Service{secret: []byte(secret), tokenExpiry: tokenExpiry}
}

// GenerateToken issues a signed session token for the user
func (s *Service) GenerateToken(userID uuid.UUID, username, role string, teamID *uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
	}
	if teamID != nil {
		claims.TeamID = teamID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry and returns the claims
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	var claims jwtClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewUnauthorizedError("invalid or expired token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errors.NewUnauthorizedError("malformed token subject")
	}

	out := &Claims{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpireAt = claims.ExpiresAt.Time
	}
	if claims.TeamID != "" {
		teamID, err := uuid.Parse(claims.TeamID)
		if err != nil {
			return nil, errors.NewUnauthorizedError("malformed team id")
		}
		out.TeamID = &teamID
	}
	return out, nil
}

// HashPassword hashes a password for storage
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword verifies a password against its stored hash
func (s *Service) ComparePassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return errors.NewUnauthorizedError("invalid credentials")
	}
	return nil
}
