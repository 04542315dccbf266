package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/core/domain"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrEmptyCredential, fiber.StatusBadRequest},
		{domain.ErrSessionRevoked, fiber.StatusUnauthorized},
		{domain.ErrAccountDisabled, fiber.StatusForbidden},
		{domain.ErrClubNotFound, fiber.StatusNotFound},
		{domain.ErrDuplicateApplication, fiber.StatusConflict},
		{domain.ErrRecruitmentExpired, fiber.StatusUnprocessableEntity},
		{errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusFor(tc.err), tc.err.Error())
	}
}

func TestFromErrorHidesInternalErrors(t *testing.T) {
	app := fiber.New()
	app.Get("/domain", func(c *fiber.Ctx) error { return FromError(c, domain.ErrAlreadyInitialized) })
	app.Get("/internal", func(c *fiber.Ctx) error { return FromError(c, errors.New("dsn root:hunter2")) })

	resp, err := app.Test(httptest.NewRequest("GET", "/domain", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	var body Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "conflict", body.Code)
	assert.Equal(t, domain.ErrAlreadyInitialized.Message, body.Error)

	resp, err = app.Test(httptest.NewRequest("GET", "/internal", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")
}
