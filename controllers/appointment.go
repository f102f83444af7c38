package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mehendiverse/marketplace-app/models"
	"github.com/mehendiverse/marketplace-app/services"
	"github.com/mehendiverse/marketplace-app/utils"
)

// AppointmentController exposes the lifecycle engine over HTTP.
type AppointmentController struct {
	service services.IAppointmentService
}

func NewAppointmentController(service services.IAppointmentService) *AppointmentController {
	return &AppointmentController{service: service}
}

// statusForServiceError maps the engine's error taxonomy to HTTP codes.
func statusForServiceError(err error) int {
	var (
		validation services.ValidationError
		notFound   services.NotFoundError
		forbidden  services.ForbiddenError
		conflict   services.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return fiber.StatusBadRequest
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &forbidden):
		return fiber.StatusForbidden
	case errors.As(err, &conflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func serviceErrorResponse(c *fiber.Ctx, err error) error {
	status := statusForServiceError(err)
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(utils.NewErrorResponse("Something went wrong", err))
	}
	return c.Status(status).JSON(utils.ErrorResponse{Message: err.Error()})
}

func requesterFromContext(c *fiber.Ctx) (uint, models.UserRole, bool) {
	userID, okID := c.Locals("userID").(uint)
	role, okRole := c.Locals("role").(models.UserRole)
	return userID, role, okID && okRole
}

// CreateAppointment handles POST /appointments
func (ac *AppointmentController) CreateAppointment(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}

	var req services.CreateAppointmentRequest
	if err := parseStrict(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Failed to parse request body", err))
	}

	appointment, err := ac.service.Create(c.Context(), userID, role, req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// GetMyAppointments handles GET /appointments
func (ac *AppointmentController) GetMyAppointments(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}

	query := parseListQuery(c)
	page, err := ac.service.List(c.Context(), userID, role, query)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(page)
}

// GetAllAppointmentsAdmin handles GET /appointments/admin/all
func (ac *AppointmentController) GetAllAppointmentsAdmin(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}

	page, err := ac.service.List(c.Context(), userID, role, parseListQuery(c))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(page)
}

// GetAppointment handles GET /appointments/:id
func (ac *AppointmentController) GetAppointment(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "Invalid appointment ID format."})
	}

	appointment, err := ac.service.GetByID(c.Context(), userID, role, uint(id))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(appointment)
}

// UpdateAppointmentStatus handles PATCH /appointments/:id/status
func (ac *AppointmentController) UpdateAppointmentStatus(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "Invalid appointment ID format."})
	}

	var req services.UpdateStatusRequest
	if err := parseStrict(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Failed to parse request body", err))
	}

	appointment, err := ac.service.UpdateStatus(c.Context(), userID, role, uint(id), req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(appointment)
}

// UpdateAppointmentDetails handles PUT /appointments/:id/details
func (ac *AppointmentController) UpdateAppointmentDetails(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "Invalid appointment ID format."})
	}

	var req services.UpdateDetailsRequest
	if err := parseStrict(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Failed to parse request body", err))
	}

	appointment, err := ac.service.UpdateDetails(c.Context(), userID, role, uint(id), req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(appointment)
}

// parseStrict decodes a JSON body rejecting unknown keys, so each
// operation accepts exactly its declared field set.
func parseStrict(body []byte, dest interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func parseListQuery(c *fiber.Ctx) services.ListAppointmentsQuery {
	query := services.ListAppointmentsQuery{
		SortBy:    c.Query("sortBy", "appointment_date"),
		SortOrder: c.Query("sortOrder", "asc"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	}

	if s := c.Query("status"); s != "" {
		status := models.AppointmentStatus(s)
		query.Status = &status
	}
	if v := c.QueryInt("userId"); v > 0 {
		id := uint(v)
		query.ClientID = &id
	}
	if v := c.QueryInt("artistId"); v > 0 {
		id := uint(v)
		query.ArtistID = &id
	}
	if v := c.Query("dateFrom"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			query.DateFrom = &t
		}
	}
	if v := c.Query("dateTo"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			query.DateTo = &t
		}
	}

	return query
}
