package services

import (
	"testing"
	"time"

	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttestMintAndVerify(t *testing.T) {
	svc := NewAttestService("test-secret", time.Hour)

	resp, err := svc.Mint(&dto.AttestRequest{
		DeviceID: "device-123",
		Platform: "ios",
		Payload:  "integrity-blob",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	require.NotEmpty(t, resp.AttestationToken)

	device, err := svc.Verify(resp.AttestationToken)
	require.NoError(t, err)
	assert.Equal(t, "device-123", device)
}

func TestAttestMintValidation(t *testing.T) {
	svc := NewAttestService("test-secret", time.Hour)

	_, err := svc.Mint(&dto.AttestRequest{Platform: "ios", Payload: "blob"})
	assert.Error(t, err)

	_, err = svc.Mint(&dto.AttestRequest{DeviceID: "device-123", Platform: "ios"})
	assert.Error(t, err)
}

func TestAttestVerifyExpired(t *testing.T) {
	svc := NewAttestService("test-secret", -time.Minute)

	resp, err := svc.Mint(&dto.AttestRequest{DeviceID: "d", Payload: "p"})
	require.NoError(t, err)

	_, err = svc.Verify(resp.AttestationToken)
	assert.ErrorIs(t, err, ErrAttestExpired)
}

func TestAttestVerifyWrongSecret(t *testing.T) {
	minter := NewAttestService("secret-a", time.Hour)
	verifier := NewAttestService("secret-b", time.Hour)

	resp, err := minter.Mint(&dto.AttestRequest{DeviceID: "d", Payload: "p"})
	require.NoError(t, err)

	_, err = verifier.Verify(resp.AttestationToken)
	assert.ErrorIs(t, err, ErrAttestInvalid)
}

func TestAttestVerifyGarbage(t *testing.T) {
	svc := NewAttestService("test-secret", time.Hour)

	_, err := svc.Verify("")
	assert.ErrorIs(t, err, ErrAttestInvalid)

	_, err = svc.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrAttestInvalid)
}
