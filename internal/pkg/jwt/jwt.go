package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Token kinds. Refresh tokens may only be exchanged for new access tokens;
// they are rejected by the auth middleware.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrWrongTokenUse = errors.New("token not valid for this use")
)

// Claims is the JWT payload. Besides the account id it carries a snapshot of
// a few profile fields so callers can render the user without a follow-up
// fetch. The snapshot can go stale until the next issuance; that is accepted.
type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	TokenType string `json:"token_type"`
	jwtlib.RegisteredClaims
}

// Signer issues and validates HS256 tokens with a fixed secret.
type Signer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSigner(secret string, accessTTL, refreshTTL time.Duration) *Signer {
	return &Signer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Snapshot is the profile data embedded in every token.
type Snapshot struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

// SignAccess creates a short-lived access token.
func (s *Signer) SignAccess(snap Snapshot) (string, error) {
	return s.sign(snap, TypeAccess, s.accessTTL)
}

// SignRefresh creates a longer-lived refresh token.
func (s *Signer) SignRefresh(snap Snapshot) (string, error) {
	return s.sign(snap, TypeRefresh, s.refreshTTL)
}

func (s *Signer) sign(snap Snapshot, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    snap.UserID,
		Email:     snap.Email,
		FirstName: snap.FirstName,
		LastName:  snap.LastName,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse validates a token string and returns the claims.
func (s *Signer) Parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccess validates a token and requires it to be an access token.
func (s *Signer) ParseAccess(tokenStr string) (*Claims, error) {
	return s.parseTyped(tokenStr, TypeAccess)
}

// ParseRefresh validates a token and requires it to be a refresh token.
func (s *Signer) ParseRefresh(tokenStr string) (*Claims, error) {
	return s.parseTyped(tokenStr, TypeRefresh)
}

func (s *Signer) parseTyped(tokenStr, wantType string) (*Claims, error) {
	claims, err := s.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}
