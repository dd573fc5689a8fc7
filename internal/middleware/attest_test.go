package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forkcast/forkcast-backend/internal/dto"
	"github.com/forkcast/forkcast-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttestApp(svc *services.AttestService) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", AttestRequired(svc), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"device": c.Locals("device_id")})
	})
	return app
}

func TestAttestRequiredAllowsValidToken(t *testing.T) {
	svc := services.NewAttestService("test-secret", time.Hour)
	minted, err := svc.Mint(&dto.AttestRequest{DeviceID: "device-9", Payload: "blob"})
	require.NoError(t, err)

	app := newAttestApp(svc)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("X-Attestation-Token", minted.AttestationToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "device-9", body["device"])
}

func TestAttestRequiredRejectsMissingToken(t *testing.T) {
	app := newAttestApp(services.NewAttestService("test-secret", time.Hour))

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Attestation required", body.Message)
}

func TestAttestRequiredRejectsExpiredToken(t *testing.T) {
	expiredMinter := services.NewAttestService("test-secret", -time.Minute)
	minted, err := expiredMinter.Mint(&dto.AttestRequest{DeviceID: "d", Payload: "p"})
	require.NoError(t, err)

	app := newAttestApp(services.NewAttestService("test-secret", time.Hour))

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("X-Attestation-Token", minted.AttestationToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Attestation token expired", body.Message)
}
