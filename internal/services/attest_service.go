package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrAttestInvalid = errors.New("invalid attestation token")
	ErrAttestExpired = errors.New("attestation token expired")
)

// AttestService mints and verifies short-lived device attestation tokens.
// Clients exchange a device integrity payload for a token and attach it to
// suggestion requests in the X-Attestation-Token header; the token's
// lifecycle is independent of the user session.
type AttestService struct {
	secret []byte
	expiry time.Duration
}

func NewAttestService(secret string, expiry time.Duration) *AttestService {
	return &AttestService{secret: []byte(secret), expiry: expiry}
}

// Mint validates the device payload shape and issues a signed token.
// Payload verification against the platform integrity API is delegated to
// the upstream integrity service; an empty payload is rejected outright.
func (s *AttestService) Mint(req *dto.AttestRequest) (*dto.AttestResponse, error) {
	if req.DeviceID == "" || req.Payload == "" {
		return nil, errors.New("device_id and payload are required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"device":   req.DeviceID,
		"platform": req.Platform,
		"iat":      now.Unix(),
		"exp":      now.Add(s.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign attestation token: %w", err)
	}

	return &dto.AttestResponse{
		AttestationToken: signed,
		ExpiresIn:        int64(s.expiry.Seconds()),
	}, nil
}

// Verify checks signature and expiry and returns the device id.
func (s *AttestService) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrAttestInvalid
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrAttestExpired
		}
		return "", ErrAttestInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrAttestInvalid
	}

	device, _ := claims["device"].(string)
	if device == "" {
		return "", ErrAttestInvalid
	}
	return device, nil
}
