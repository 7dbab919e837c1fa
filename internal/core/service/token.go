package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sellz/sellz-backend/internal/core/domain"
)

const (
	tokenIssuer   = "https://sellz-backend.com"
	tokenAudience = "https://sellz.com"
)

// Claims is the session-token claim set: the registered sub/iss/aud/iat/exp
// plus the embedded role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless HS256 session tokens. Signature
// validity and expiry are the sole sources of trust; there is no server-side
// session store, so a token cannot be revoked before expiry except through
// the password-changed-at comparison in the auth middleware.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a claim set for the given subject and role, valid from now
// until now + the configured duration.
func (s *TokenService) Issue(subjectID, role string) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token, returning its claims. Bad signatures,
// wrong signing methods and expired tokens all collapse into
// domain.ErrTokenInvalid.
func (s *TokenService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}
