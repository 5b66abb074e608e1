package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrSessionInvalid = errors.New("invalid session")

// Denylist records revoked session IDs until their natural expiry.
type Denylist interface {
    Revoke(ctx context.Context, jti string, ttl time.Duration) error
    IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Sessions issues and validates signed session tokens. A session stays
// valid until it expires or its jti lands on the denylist via Logout.
type Sessions struct {
    secret   []byte
    ttl      time.Duration
    denylist Denylist
}

func NewSessions(secret string, ttl time.Duration, denylist Denylist) *Sessions {
    return &Sessions{secret: []byte(secret), ttl: ttl, denylist: denylist}
}

func (s *Sessions) Issue(userID string) (string, error) {
    now := time.Now()
    claims := jwt.MapClaims{
        "user_id": userID,
        "jti":     uuid.NewString(),
        "iat":     now.Unix(),
        "exp":     now.Add(s.ttl).Unix(),
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString(s.secret)
}

func (s *Sessions) Validate(ctx context.Context, tokenString string) (string, error) {
    claims, err := s.parse(tokenString)
    if err != nil {
        return "", ErrSessionInvalid
    }

    jti, _ := claims["jti"].(string)
    if jti != "" {
        revoked, err := s.denylist.IsRevoked(ctx, jti)
        if err != nil {
            return "", err
        }
        if revoked {
            return "", ErrSessionInvalid
        }
    }

    userID, ok := claims["user_id"].(string)
    if !ok || userID == "" {
        return "", ErrSessionInvalid
    }
    return userID, nil
}

// Revoke denylists the session until it would have expired anyway.
// Revoking an already invalid token is a no-op.
func (s *Sessions) Revoke(ctx context.Context, tokenString string) error {
    claims, err := s.parse(tokenString)
    if err != nil {
        return nil
    }

    jti, _ := claims["jti"].(string)
    if jti == "" {
        return nil
    }

    ttl := s.ttl
    if exp, ok := claims["exp"].(float64); ok {
        if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
            ttl = remaining
        }
    }
    return s.denylist.Revoke(ctx, jti, ttl)
}

func (s *Sessions) parse(tokenString string) (jwt.MapClaims, error) {
    token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrSessionInvalid
        }
        return s.secret, nil
    })
    if err != nil || !token.Valid {
        return nil, ErrSessionInvalid
    }

    claims, ok := token.Claims.(jwt.MapClaims)
    if !ok {
        return nil, ErrSessionInvalid
    }
    return claims, nil
}
