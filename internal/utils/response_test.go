package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler fiber.Handler) (int, APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed APIResponse
	require.NoError(t, json.Unmarshal(body, &parsed))
	return resp.StatusCode, parsed
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	status, parsed := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "", map[string]string{"name": "Algebra"})
	})

	require.Equal(t, fiber.StatusOK, status)
	require.True(t, parsed.Success)
	require.Equal(t, "success", parsed.Message)
	require.NotNil(t, parsed.Data)
}

func TestSendSuccessWithStatus(t *testing.T) {
	status, parsed := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccessWithStatus(c, fiber.StatusCreated, "created", nil)
	})

	require.Equal(t, fiber.StatusCreated, status)
	require.True(t, parsed.Success)
	require.Equal(t, "created", parsed.Message)
}

func TestSendError(t *testing.T) {
	status, parsed := performRequest(t, func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusNotFound, "teacher not found")
	})

	require.Equal(t, fiber.StatusNotFound, status)
	require.False(t, parsed.Success)
	require.Equal(t, "teacher not found", parsed.Message)
	require.Nil(t, parsed.Data)
}

func TestSendErrorWithData(t *testing.T) {
	status, parsed := performRequest(t, func(c *fiber.Ctx) error {
		return SendErrorWithData(c, fiber.StatusBadRequest, "teacher has assigned courses", []map[string]interface{}{
			{"id": 3, "name": "Algebra"},
		})
	})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.False(t, parsed.Success)
	require.NotNil(t, parsed.Data)
}
