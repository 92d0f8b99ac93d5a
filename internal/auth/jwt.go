package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the validated contents of an access token.
type Claims struct {
	UserID uuid.UUID
	Role   string
	Expiry time.Time
}

// Manager signs and validates HS256 access tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a token manager with the given signing secret.
func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignAccess issues a signed access token for the given user.
func (m *Manager) SignAccess(userID uuid.UUID, role string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)

	claims := accessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	return signed, exp, err
}

// ParseAccess validates a token string and returns its claims.
func (m *Manager) ParseAccess(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, err
	}

	return &Claims{
		UserID: userID,
		Role:   claims.Role,
		Expiry: claims.ExpiresAt.Time,
	}, nil
}
