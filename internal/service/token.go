package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/Payphone-Digital/hospital-registry/config"
	"github.com/Payphone-Digital/hospital-registry/internal/constants"
	apperrors "github.com/Payphone-Digital/hospital-registry/internal/errors"
	"github.com/Payphone-Digital/hospital-registry/pkg/ids"
	"github.com/golang-jwt/jwt/v5"
)

// Subject is the identity a token is minted for.
type Subject struct {
	ID    uint
	Email string
	Type  string
}

// Claims is the token payload: {id, email, type, iss, sub, exp, iat, jti}.
type Claims struct {
	UserID   uint   `json:"id"`
	Email    string `json:"email"`
	UserType string `json:"type"`
	jwt.RegisteredClaims
}

// Validate is called by the jwt parser after the standard claim checks.
func (c Claims) Validate() error {
	if c.UserID == 0 {
		return errors.New("missing subject id")
	}
	if c.UserType != constants.RoleAdmin && c.UserType != constants.RoleHospital {
		return errors.New("unknown subject type")
	}
	if c.ID == "" {
		return errors.New("missing token id")
	}
	return nil
}

// TokenService mints and verifies stateless bearer tokens.
type TokenService interface {
	Issue(subject Subject) (token string, expiresAt time.Time, err error)
	// Verify is pure: signature, algorithm, issuer and expiry only.
	Verify(token string) (*Claims, error)
}

// JWTService signs HS256 compact tokens (header.payload.signature, base64url).
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewJWTService(cfg config.JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret is required")
	}
	if cfg.ExpirationTime <= 0 {
		return nil, errors.New("jwt: expiration must be positive")
	}
	return &JWTService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.ExpirationTime,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// TTL is the lifetime of newly issued tokens.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

func (s *JWTService) Issue(subject Subject) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		UserID:   subject.ID,
		Email:    subject.Email,
		UserType: subject.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ids.NewAt(now),
			Subject:   strconv.FormatUint(uint64(subject.ID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify never distinguishes failure causes: every rejection is ErrUnauthenticated.
func (s *JWTService) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrUnauthenticated, err)
	}
	if !parsed.Valid {
		return nil, apperrors.ErrUnauthenticated
	}
	return claims, nil
}
