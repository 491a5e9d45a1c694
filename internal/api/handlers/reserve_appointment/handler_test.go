package reserve_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	reserveAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/reserve_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type useCaseMock struct {
	execute func(ctx context.Context, req *reserveAppointment.Request) (*reserveAppointment.Response, error)
}

func (m *useCaseMock) Execute(ctx context.Context, req *reserveAppointment.Request) (*reserveAppointment.Response, error) {
	return m.execute(ctx, req)
}

func doRequest(t *testing.T, uc ReserveAppointmentUseCase, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()

	// Auth middleware кладет userID в контекст
	authed := middleware.Auth(http.HandlerFunc(handler.Handle))
	authed.ServeHTTP(rec, req)

	return rec
}

func TestHandle_Success(t *testing.T) {
	start := time.Date(2026, 3, 16, 9, 30, 0, 0, time.UTC)
	uc := &useCaseMock{
		execute: func(ctx context.Context, req *reserveAppointment.Request) (*reserveAppointment.Response, error) {
			require.Equal(t, int64(5), req.CustomerID)
			require.Equal(t, int64(1), req.ServiceID)
			require.True(t, req.StartAt.Equal(start))
			return &reserveAppointment.Response{
				Success:       true,
				AppointmentID: 101,
				EmployeeID:    7,
				StartAt:       start,
				EndAt:         start.Add(30 * time.Minute),
				Status:        "pending",
			}, nil
		},
	}

	rec := doRequest(t, uc, "5", `{"serviceId":1,"startAt":"2026-03-16T09:30:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AppointmentCreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, int64(7), resp.EmployeeID)
	assert.Equal(t, "pending", resp.Status)
}

func TestHandle_MissingUser(t *testing.T) {
	rec := doRequest(t, &useCaseMock{}, "", `{"serviceId":1,"startAt":"2026-03-16T09:30:00Z"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_InvalidBody(t *testing.T) {
	rec := doRequest(t, &useCaseMock{}, "5", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InvalidStartAt(t *testing.T) {
	rec := doRequest(t, &useCaseMock{}, "5", `{"serviceId":1,"startAt":"09:30"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_FailureMapping(t *testing.T) {
	cases := []struct {
		name       string
		kind       reserveAppointment.FailureKind
		reason     string
		wantStatus int
	}{
		{"service not found", reserveAppointment.FailureNotFound, reserveAppointment.ReasonServiceNotFound, http.StatusNotFound},
		{"holiday", reserveAppointment.FailureInvalid, reserveAppointment.ReasonHoliday, http.StatusBadRequest},
		{"slot not available", reserveAppointment.FailureConflict, reserveAppointment.ReasonSlotNotAvailable, http.StatusConflict},
		{"slot conflict", reserveAppointment.FailureConflict, reserveAppointment.ReasonSlotConflict, http.StatusConflict},
		{"no employee", reserveAppointment.FailureConflict, reserveAppointment.ReasonNoEmployeeAssigned, http.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &useCaseMock{
				execute: func(ctx context.Context, req *reserveAppointment.Request) (*reserveAppointment.Response, error) {
					return &reserveAppointment.Response{
						Success:     false,
						FailureKind: tc.kind,
						Reason:      tc.reason,
					}, nil
				},
			}

			rec := doRequest(t, uc, "5", `{"serviceId":1,"startAt":"2026-03-16T09:30:00Z"}`)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
