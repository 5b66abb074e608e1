package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrTokenInvalid is the single outcome for every verification or reset
// token failure. Expired, malformed, consumed and wrong-user tokens are
// indistinguishable to callers.
var ErrTokenInvalid = errors.New("invalid or expired token")

const (
    purposeEmailVerify   = "email-verify"
    purposePasswordReset = "password-reset"
)

// ConsumedStore remembers verification tokens that were already used.
// MarkConsumed reports whether this was the first use.
type ConsumedStore interface {
    MarkConsumed(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Tokens issues and checks the signed, time-limited tokens used by the
// email verification and password reset flows.
type Tokens struct {
    secret             []byte
    verificationMaxAge time.Duration
    resetMaxAge        time.Duration
    consumed           ConsumedStore
}

func NewTokens(secret string, verificationMaxAge, resetMaxAge time.Duration, consumed ConsumedStore) *Tokens {
    return &Tokens{
        secret:             []byte(secret),
        verificationMaxAge: verificationMaxAge,
        resetMaxAge:        resetMaxAge,
        consumed:           consumed,
    }
}

func (t *Tokens) IssueVerification(userID string) (string, error) {
    now := time.Now()
    claims := jwt.MapClaims{
        "user_id": userID,
        "purpose": purposeEmailVerify,
        "iat":     now.Unix(),
        "exp":     now.Add(t.verificationMaxAge).Unix(),
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// CheckVerification returns the user ID a valid verification token was
// issued for and consumes the token. A second check of the same token
// fails.
func (t *Tokens) CheckVerification(ctx context.Context, tokenString string) (string, error) {
    claims, err := parseHMAC(tokenString, t.secret)
    if err != nil {
        return "", ErrTokenInvalid
    }
    if purpose, _ := claims["purpose"].(string); purpose != purposeEmailVerify {
        return "", ErrTokenInvalid
    }
    userID, ok := claims["user_id"].(string)
    if !ok || userID == "" {
        return "", ErrTokenInvalid
    }

    // Single use: record the token digest until it would expire anyway.
    ttl := t.verificationMaxAge
    if exp, ok := claims["exp"].(float64); ok {
        if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
            ttl = remaining
        }
    }
    digest := sha256.Sum256([]byte(tokenString))
    first, err := t.consumed.MarkConsumed(ctx, hex.EncodeToString(digest[:]), ttl)
    if err != nil {
        return "", err
    }
    if !first {
        return "", ErrTokenInvalid
    }

    return userID, nil
}

// IssueReset signs a reset token with a key derived from the user's
// current password hash. Changing the password changes the key, which
// invalidates every outstanding token for that user.
func (t *Tokens) IssueReset(userID, passwordHash string) (string, error) {
    now := time.Now()
    claims := jwt.MapClaims{
        "user_id": userID,
        "purpose": purposePasswordReset,
        "iat":     now.Unix(),
        "exp":     now.Add(t.resetMaxAge).Unix(),
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.resetKey(userID, passwordHash))
}

// CheckReset validates a reset token against the user's current password
// hash.
func (t *Tokens) CheckReset(tokenString, userID, passwordHash string) error {
    claims, err := parseHMAC(tokenString, t.resetKey(userID, passwordHash))
    if err != nil {
        return ErrTokenInvalid
    }
    if purpose, _ := claims["purpose"].(string); purpose != purposePasswordReset {
        return ErrTokenInvalid
    }
    if subject, _ := claims["user_id"].(string); subject != userID {
        return ErrTokenInvalid
    }
    return nil
}

func (t *Tokens) resetKey(userID, passwordHash string) []byte {
    mac := hmac.New(sha256.New, t.secret)
    mac.Write([]byte(userID))
    mac.Write([]byte(passwordHash))
    return mac.Sum(nil)
}

func parseHMAC(tokenString string, key []byte) (jwt.MapClaims, error) {
    token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return key, nil
    })
    if err != nil || !token.Valid {
        return nil, ErrTokenInvalid
    }

    claims, ok := token.Claims.(jwt.MapClaims)
    if !ok {
        return nil, ErrTokenInvalid
    }
    return claims, nil
}
