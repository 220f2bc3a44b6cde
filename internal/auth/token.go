package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Kind string

const (
	KindCustomer Kind = "customer"
	KindAdmin    Kind = "admin"
)

const (
	CustomerTokenTTL = 30 * 24 * time.Hour
	AdminTokenTTL    = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrKindMismatch = errors.New("token kind mismatch")
)

// Claims is the payload of every bearer token the service issues.
type Claims struct {
	Kind Kind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens with a single
// process-wide secret.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

func ttlFor(kind Kind) (time.Duration, error) {
	switch kind {
	case KindCustomer:
		return CustomerTokenTTL, nil
	case KindAdmin:
		return AdminTokenTTL, nil
	}
	return 0, fmt.Errorf("unknown token kind %q", kind)
}

// Issue returns a signed token for subjectID and the time it expires.
func (t *TokenIssuer) Issue(subjectID uint, kind Kind) (string, time.Time, error) {
	ttl, err := ttlFor(kind)
	if err != nil {
		return "", time.Time{}, err
	}
	return t.IssueWithTTL(subjectID, kind, ttl)
}

func (t *TokenIssuer) IssueWithTTL(subjectID uint, kind Kind, ttl time.Duration) (string, time.Time, error) {
	if len(t.secret) == 0 {
		return "", time.Time{}, errors.New("token secret not configured")
	}
	now := t.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(subjectID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse validates signature and expiry and returns the claims without
// checking the kind.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Kind != KindCustomer && claims.Kind != KindAdmin {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidToken, claims.Kind)
	}
	return claims, nil
}

// Verify parses tokenString and checks that it was issued for expected.
func (t *TokenIssuer) Verify(tokenString string, expected Kind) (uint, error) {
	claims, err := t.Parse(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.Kind != expected {
		return 0, ErrKindMismatch
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return uint(id), nil
}
