// Package console issues and verifies short-lived developer-console tokens.
//
// A console token is an HS256 JWT signed with the configured console secret.
// Operators hand these out instead of the secret itself; the secret stays
// valid as a token of its own.
package console

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/turtacn/landing-ab/pkg/errors"
)

// Issuer is stamped into every token and required on verification.
const Issuer = "landing-console"

// MaxTTL bounds the lifetime of a minted token.
const MaxTTL = 24 * time.Hour

// Claims are the claims of a console token.  Subject names the operator.
type Claims struct {
	jwt.RegisteredClaims
}

// Mint signs a token for subject valid for ttl from now.
func Mint(secret, subject string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New(errors.ErrCodeFeatureDisabled, "developer console is disabled")
	}
	if ttl <= 0 || ttl > MaxTTL {
		return "", errors.Newf(errors.ErrCodeValidation, "token ttl must be in (0, %s]", MaxTTL)
	}
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   strings.TrimSpace(subject),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "sign console token")
	}
	return signed, nil
}

// Verify checks raw against secret at now.  Expired, foreign or tampered
// tokens fail with ErrCodeUnauthorized.
func Verify(secret, raw string, now time.Time) (*Claims, error) {
	if secret == "" {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "developer console is disabled")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		reason := "invalid console token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "console token expired"
		}
		return nil, errors.Wrap(err, errors.ErrCodeUnauthorized, reason)
	}
	return claims, nil
}

// LooksSigned reports whether raw has the three-segment shape of a JWT.
func LooksSigned(raw string) bool {
	return strings.Count(raw, ".") == 2
}

//Personal.AI order the ending
