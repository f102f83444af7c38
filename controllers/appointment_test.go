package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mehendiverse/marketplace-app/models"
	"github.com/mehendiverse/marketplace-app/repositories"
	"github.com/mehendiverse/marketplace-app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAppointmentService struct {
	err error
}

func (s *stubAppointmentService) result() (*models.Appointment, error) {
	if s.err != nil {
		return nil, s.err
	}
	appointment := &models.Appointment{Status: models.StatusPending}
	appointment.ID = 42
	return appointment, nil
}

func (s *stubAppointmentService) Create(context.Context, uint, models.UserRole, services.CreateAppointmentRequest) (*models.Appointment, error) {
	return s.result()
}

func (s *stubAppointmentService) List(context.Context, uint, models.UserRole, services.ListAppointmentsQuery) (*repositories.PaginatedAppointments, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &repositories.PaginatedAppointments{CurrentPage: 1}, nil
}

func (s *stubAppointmentService) GetByID(context.Context, uint, models.UserRole, uint) (*models.Appointment, error) {
	return s.result()
}

func (s *stubAppointmentService) UpdateStatus(context.Context, uint, models.UserRole, uint, services.UpdateStatusRequest) (*models.Appointment, error) {
	return s.result()
}

func (s *stubAppointmentService) UpdateDetails(context.Context, uint, models.UserRole, uint, services.UpdateDetailsRequest) (*models.Appointment, error) {
	return s.result()
}

func testApp(svc services.IAppointmentService) *fiber.App {
	app := fiber.New()
	ac := NewAppointmentController(svc)

	auth := func(c *fiber.Ctx) error {
		c.Locals("userID", uint(1))
		c.Locals("role", models.RoleUser)
		return c.Next()
	}

	app.Post("/appointments", auth, ac.CreateAppointment)
	app.Get("/appointments/:id", auth, ac.GetAppointment)
	app.Patch("/appointments/:id/status", auth, ac.UpdateAppointmentStatus)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestStatusForServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ValidationError("bad input"), fiber.StatusBadRequest},
		{services.ErrAppointmentNotFound, fiber.StatusNotFound},
		{services.ErrNotAuthorized, fiber.StatusForbidden},
		{services.ConflictError("already completed"), fiber.StatusConflict},
		{assert.AnError, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForServiceError(tt.err))
	}
}

func TestParseStrictRejectsUnknownFields(t *testing.T) {
	var req services.UpdateStatusRequest
	err := parseStrict([]byte(`{"status":"confirmed","bogus":true}`), &req)
	assert.Error(t, err)

	err = parseStrict([]byte(`{"status":"confirmed"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", req.Status)
}

func TestCreateAppointmentRoute(t *testing.T) {
	app := testApp(&stubAppointmentService{})

	resp := doJSON(t, app, http.MethodPost, "/appointments", `{"artist_id":2,"appointment_date":"2027-01-15","start_time":"14:00","service_type":"Bridal Mehendi","location":{"address":"12 MG Road","city":"Pune"}}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCreateAppointmentRouteRejectsUnknownKey(t *testing.T) {
	app := testApp(&stubAppointmentService{})

	resp := doJSON(t, app, http.MethodPost, "/appointments", `{"artist_id":2,"surprise":true}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateAppointmentRouteMapsValidationError(t *testing.T) {
	app := testApp(&stubAppointmentService{err: services.ValidationError("Artist is required.")})

	resp := doJSON(t, app, http.MethodPost, "/appointments", `{"artist_id":0}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateStatusRouteMapsConflict(t *testing.T) {
	app := testApp(&stubAppointmentService{err: services.ConflictError("Cannot cancel appointment with status: completed.")})

	resp := doJSON(t, app, http.MethodPatch, "/appointments/42/status", `{"status":"cancelled"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetAppointmentRouteMapsNotFound(t *testing.T) {
	app := testApp(&stubAppointmentService{err: services.ErrAppointmentNotFound})

	resp := doJSON(t, app, http.MethodGet, "/appointments/404", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetAppointmentRouteRejectsBadID(t *testing.T) {
	app := testApp(&stubAppointmentService{})

	resp := doJSON(t, app, http.MethodGet, "/appointments/abc", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRoutesRequireIdentity(t *testing.T) {
	app := fiber.New()
	ac := NewAppointmentController(&stubAppointmentService{})
	app.Post("/appointments", ac.CreateAppointment)

	resp := doJSON(t, app, http.MethodPost, "/appointments", `{}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
