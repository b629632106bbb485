package controller

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gerejaku_backend/internals/features/attendance/checkin/service"
)

func TestRejectStatus_Mapping(t *testing.T) {
	cases := map[service.RejectReason]int{
		service.RejectPolicyDenied:      fiber.StatusForbidden,
		service.RejectGatheringNotFound: fiber.StatusNotFound,
		service.RejectMemberNotFound:    fiber.StatusNotFound,
		service.RejectGatheringInactive: fiber.StatusConflict,
		service.RejectMalformedPerson:   fiber.StatusBadRequest,
		service.RejectInvalidMethod:     fiber.StatusBadRequest,
	}
	for reason, want := range cases {
		assert.Equal(t, want, rejectStatus(reason), string(reason))
	}
}

func respondWith(t *testing.T, result *service.CheckInResult) (int, map[string]any) {
	t.Helper()

	app := fiber.New()
	app.Post("/x", func(c *fiber.Ctx) error {
		return respondCheckIn(c, result)
	})
	resp, err := app.Test(httptest.NewRequest("POST", "/x", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRespondCheckIn_Accepted(t *testing.T) {
	status, body := respondWith(t, &service.CheckInResult{
		Outcome:    service.OutcomeAccepted,
		PersonName: "Andi",
	})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "success", body["status"])
}

func TestRespondCheckIn_DuplicateIs200WithTimestamp(t *testing.T) {
	at := time.Date(2025, 8, 31, 9, 15, 0, 0, time.UTC)
	status, body := respondWith(t, &service.CheckInResult{
		Outcome:             service.OutcomeDuplicate,
		PersonName:          "Andi",
		ExistingCheckedInAt: &at,
	})
	assert.Equal(t, fiber.StatusOK, status)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "duplicate", data["outcome"])
	assert.NotEmpty(t, data["existing_checked_in_at"])
}

func TestRespondCheckIn_RejectedCarriesReason(t *testing.T) {
	status, body := respondWith(t, &service.CheckInResult{
		Outcome:      service.OutcomeRejected,
		RejectReason: service.RejectGatheringInactive,
		Message:      "Gathering sudah tidak aktif",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "error", body["status"])
}
