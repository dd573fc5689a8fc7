package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/forkcast/forkcast-backend/internal/upstream"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"provider auth failure", upstream.ErrAuthenticationRequired, fiber.StatusBadGateway},
		{"provider attestation failure", upstream.ErrAttestationFailed, fiber.StatusBadGateway},
		{"provider 404 passes through", &upstream.StatusError{Code: 404}, fiber.StatusNotFound},
		{"provider 500 becomes bad gateway", &upstream.StatusError{Code: 500, Body: "boom"}, fiber.StatusBadGateway},
		{"malformed provider response", &upstream.DecodeError{Err: errors.New("bad json")}, fiber.StatusBadGateway},
		{"transport failure", &upstream.TransportError{Err: errors.New("conn refused")}, fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", func(c *fiber.Ctx) error {
				return upstreamError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
