package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mehendiverse/marketplace-app/models"
	"github.com/mehendiverse/marketplace-app/repositories"
	"github.com/mehendiverse/marketplace-app/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Push events dispatched by the lifecycle engine.
const (
	EventNewAppointmentRequest = "new_appointment_request"
	EventAppointmentUpdated    = "appointment_updated"
)

// rejected is accepted on artist/admin status updates as an alias that is
// written through as cancelled. It is not part of the stored status enum.
const statusRejectedAlias = "rejected"

// CreateAppointmentRequest is the full field set accepted on creation.
type CreateAppointmentRequest struct {
	ArtistID        uint            `json:"artist_id"`
	DesignID        *uint           `json:"design_id,omitempty"`
	AppointmentDate string          `json:"appointment_date"` // "YYYY-MM-DD"
	StartTime       string          `json:"start_time"`       // "HH:MM", 24h
	DurationMinutes int             `json:"duration_minutes,omitempty"`
	ServiceType     string          `json:"service_type"`
	Location        models.Location `json:"location"`
	Notes           string          `json:"notes,omitempty"`
	Price           *float64        `json:"price,omitempty"`
}

// UpdateStatusRequest carries a target status plus the role-appropriate
// reason and note fields.
type UpdateStatusRequest struct {
	Status                   string `json:"status"`
	CancellationReasonUser   string `json:"cancellation_reason_user,omitempty"`
	CancellationReasonArtist string `json:"cancellation_reason_artist,omitempty"`
	ArtistNotes              string `json:"artist_notes,omitempty"`
}

// LocationPatch is a partial location update.
type LocationPatch struct {
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

// UpdateDetailsRequest is the non-status patch surface. A status key is
// rejected outright; callers must use the status endpoint.
type UpdateDetailsRequest struct {
	Status          *string        `json:"status,omitempty"`
	AppointmentDate *string        `json:"appointment_date,omitempty"`
	StartTime       *string        `json:"start_time,omitempty"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	ServiceType     *string        `json:"service_type,omitempty"`
	Location        *LocationPatch `json:"location,omitempty"`
	Notes           *string        `json:"notes,omitempty"`
	ArtistNotes     *string        `json:"artist_notes,omitempty"`
	Price           *float64       `json:"price,omitempty"`
}

// ListAppointmentsQuery selects and pages a role-scoped listing. ClientID,
// ArtistID and the date range are honored for admins only.
type ListAppointmentsQuery struct {
	Status    *models.AppointmentStatus
	ClientID  *uint
	ArtistID  *uint
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// IAppointmentService is the appointment lifecycle engine: creation
// validation, the status state machine, per-role authorization and
// side-effect dispatch.
type IAppointmentService interface {
	Create(ctx context.Context, requesterID uint, role models.UserRole, req CreateAppointmentRequest) (*models.Appointment, error)
	List(ctx context.Context, requesterID uint, role models.UserRole, query ListAppointmentsQuery) (*repositories.PaginatedAppointments, error)
	GetByID(ctx context.Context, requesterID uint, role models.UserRole, id uint) (*models.Appointment, error)
	UpdateStatus(ctx context.Context, requesterID uint, role models.UserRole, id uint, req UpdateStatusRequest) (*models.Appointment, error)
	UpdateDetails(ctx context.Context, requesterID uint, role models.UserRole, id uint, req UpdateDetailsRequest) (*models.Appointment, error)
}

type AppointmentService struct {
	repo     repositories.IAppointmentRepository
	users    repositories.IUserRepository
	designs  repositories.IDesignRepository
	notifier Notifier
	mailer   Mailer

	// dispatch runs side effects detached from the request. Overridden in
	// tests to run inline.
	dispatch func(f func())
}

// NewAppointmentService wires the lifecycle engine with its collaborators.
func NewAppointmentService(
	repo repositories.IAppointmentRepository,
	users repositories.IUserRepository,
	designs repositories.IDesignRepository,
	notifier Notifier,
	mailer Mailer,
) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		users:    users,
		designs:  designs,
		notifier: notifier,
		mailer:   mailer,
		dispatch: func(f func()) { go f() },
	}
}

func (s *AppointmentService) Create(ctx context.Context, requesterID uint, role models.UserRole, req CreateAppointmentRequest) (*models.Appointment, error) {
	if role != models.RoleUser && role != models.RoleArtist && role != models.RoleAdmin {
		return nil, ErrNotAuthorized
	}

	apptDate, err := validateCreateRequest(&req)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindActiveProfileCompleteArtistByID(ctx, req.ArtistID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArtistNotAvailable
		}
		return nil, err
	}

	if req.DesignID != nil {
		if _, err := s.designs.FindDesignByID(ctx, *req.DesignID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDesignNotFound
			}
			return nil, err
		}
	}

	appointment := &models.Appointment{
		ClientID:        requesterID,
		ArtistID:        req.ArtistID,
		DesignID:        req.DesignID,
		AppointmentDate: apptDate,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		ServiceType:     strings.TrimSpace(req.ServiceType),
		Location:        req.Location,
		Notes:           strings.TrimSpace(req.Notes),
		Price:           req.Price,
		Status:          models.StatusPending,
	}
	if req.DurationMinutes > 0 {
		endTime, err := utils.ComputeEndTime(req.StartTime, req.DurationMinutes)
		if err != nil {
			return nil, ValidationError(err.Error())
		}
		appointment.EndTime = endTime
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	// Best effort: the artist misses the push when offline and discovers
	// the request by listing their appointments.
	client, clientErr := s.users.FindUserByID(ctx, requesterID)
	s.dispatch(func() {
		userName := "A user"
		if clientErr == nil {
			userName = client.DisplayName()
		}
		delivered := s.notifier.PushToUser(req.ArtistID, EventNewAppointmentRequest, map[string]interface{}{
			"appointment_id": appointment.ID,
			"user_name":      userName,
			"date":           appointment.AppointmentDate.Format("2006-01-02"),
			"time":           appointment.StartTime,
		})
		if !delivered {
			utils.Log.Info("artist offline, new appointment push skipped",
				zap.Uint("artist_id", req.ArtistID),
				zap.Uint("appointment_id", appointment.ID))
		}
	})

	return appointment, nil
}

func validateCreateRequest(req *CreateAppointmentRequest) (time.Time, error) {
	if req.ArtistID == 0 {
		return time.Time{}, ValidationError("Artist is required.")
	}
	apptDate, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return time.Time{}, ValidationError("Appointment date must be a valid ISO date string (YYYY-MM-DD).")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if apptDate.Before(today) {
		return time.Time{}, ValidationError("Appointment date must be in the future.")
	}
	startTime, err := utils.NormalizeClock(req.StartTime)
	if err != nil {
		return time.Time{}, ValidationError("Start time must be in HH:MM format (e.g., 14:30).")
	}
	req.StartTime = startTime
	serviceType := strings.TrimSpace(req.ServiceType)
	if len(serviceType) < 3 || len(serviceType) > 100 {
		return time.Time{}, ValidationError("Service type must be between 3 and 100 characters.")
	}
	if strings.TrimSpace(req.Location.Address) == "" || strings.TrimSpace(req.Location.City) == "" {
		return time.Time{}, ValidationError("Location address and city are required.")
	}
	if req.DurationMinutes != 0 && req.DurationMinutes < 15 {
		return time.Time{}, ValidationError("Duration must be at least 15 minutes.")
	}
	if req.Price != nil && *req.Price < 0 {
		return time.Time{}, ValidationError("Price cannot be negative.")
	}
	return apptDate, nil
}

func (s *AppointmentService) List(ctx context.Context, requesterID uint, role models.UserRole, query ListAppointmentsQuery) (*repositories.PaginatedAppointments, error) {
	filter := repositories.AppointmentFilter{
		Status:    query.Status,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Page:      query.Page,
		Limit:     query.Limit,
	}

	switch role {
	case models.RoleUser:
		filter.ClientID = &requesterID
	case models.RoleArtist:
		filter.ArtistID = &requesterID
	case models.RoleAdmin:
		filter.ClientID = query.ClientID
		filter.ArtistID = query.ArtistID
		filter.DateFrom = query.DateFrom
		filter.DateTo = query.DateTo
	default:
		return nil, ForbiddenError("Access denied.")
	}

	return s.repo.List(ctx, filter)
}

func (s *AppointmentService) GetByID(ctx context.Context, requesterID uint, role models.UserRole, id uint) (*models.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	switch role {
	case models.RoleAdmin:
	case models.RoleUser:
		if appointment.ClientID != requesterID {
			return nil, ForbiddenError("You are not authorized to view this appointment.")
		}
	case models.RoleArtist:
		if appointment.ArtistID != requesterID {
			return nil, ForbiddenError("You are not authorized to view this appointment.")
		}
	default:
		return nil, ForbiddenError("You are not authorized to view this appointment.")
	}

	return appointment, nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, requesterID uint, role models.UserRole, id uint, req UpdateStatusRequest) (*models.Appointment, error) {
	target, err := normalizeTargetStatus(req.Status)
	if err != nil {
		return nil, err
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	switch {
	case role == models.RoleUser && appointment.ClientID == requesterID:
		// Clients may only cancel, and only before completion.
		if target != models.StatusCancelled {
			return nil, ForbiddenError("Clients may only cancel their appointments.")
		}
		if !models.CancellableByClient(appointment.Status) {
			return nil, ConflictError(fmt.Sprintf("Cannot cancel appointment with status: %s.", appointment.Status))
		}
		appointment.Status = models.StatusCancelled
		if req.CancellationReasonUser != "" {
			appointment.CancellationReason = req.CancellationReasonUser
		}

	case role == models.RoleArtist && appointment.ArtistID == requesterID:
		if target == models.StatusCancelled && req.CancellationReasonArtist != "" {
			appointment.CancellationReason = req.CancellationReasonArtist
		}
		if req.ArtistNotes != "" {
			appointment.ArtistNotes = req.ArtistNotes
		}
		appointment.Status = target

	case role == models.RoleAdmin:
		if target == models.StatusCancelled {
			if req.CancellationReasonUser != "" {
				appointment.CancellationReason = req.CancellationReasonUser
			}
			if req.CancellationReasonArtist != "" {
				appointment.CancellationReason = req.CancellationReasonArtist
			}
		}
		appointment.Status = target

	default:
		return nil, ForbiddenError("You are not authorized to update this appointment status.")
	}

	if err := s.repo.Save(ctx, appointment); err != nil {
		return nil, err
	}

	s.dispatchStatusSideEffects(appointment, role)

	return appointment, nil
}

// normalizeTargetStatus validates a requested status, folding the
// "rejected" alias into cancelled.
func normalizeTargetStatus(raw string) (models.AppointmentStatus, error) {
	if raw == statusRejectedAlias {
		return models.StatusCancelled, nil
	}
	status := models.AppointmentStatus(raw)
	if !models.IsValidStatus(status) {
		return "", ValidationError(fmt.Sprintf("Invalid status: %s.", raw))
	}
	return status, nil
}

// dispatchStatusSideEffects fans a persisted status change out to the push
// channel and the email dispatcher. Failures are logged, never propagated;
// the persisted status is the source of truth.
func (s *AppointmentService) dispatchStatusSideEffects(appointment *models.Appointment, actorRole models.UserRole) {
	client := appointment.Client
	artist := appointment.Artist
	status := appointment.Status
	appointmentID := appointment.ID
	dateStr := appointment.AppointmentDate.Format("2006-01-02")
	timeStr := appointment.StartTime

	s.dispatch(func() {
		if status == models.StatusConfirmed {
			s.notifier.PushToUser(client.ID, EventAppointmentUpdated, map[string]interface{}{
				"appointment_id": appointmentID,
				"status":         status,
				"message":        fmt.Sprintf("Your appointment with %s on %s is confirmed!", artist.DisplayName(), dateStr),
			})
			if err := s.mailer.SendAppointmentConfirmation(client.Email, client.DisplayName(), artist.DisplayName(), dateStr, timeStr); err != nil {
				utils.Log.Error("failed to send confirmation email",
					zap.Uint("appointment_id", appointmentID),
					zap.Error(err))
			}
			return
		}

		s.notifier.PushToUser(client.ID, EventAppointmentUpdated, map[string]interface{}{
			"appointment_id": appointmentID,
			"status":         status,
			"message":        fmt.Sprintf("Your appointment with %s on %s is now %s.", artist.DisplayName(), dateStr, status),
		})
		if client.ID != artist.ID {
			s.notifier.PushToUser(artist.ID, EventAppointmentUpdated, map[string]interface{}{
				"appointment_id": appointmentID,
				"status":         status,
				"message":        fmt.Sprintf("Appointment with %s on %s is now %s.", client.DisplayName(), dateStr, status),
			})
		}
		if err := s.mailer.SendAppointmentStatusUpdate(client.Email, client.DisplayName(), artist.DisplayName(), dateStr, timeStr, string(status)); err != nil {
			utils.Log.Error("failed to send status update email",
				zap.Uint("appointment_id", appointmentID),
				zap.Error(err))
		}
		// The client is always emailed above; the artist is emailed when
		// someone else moved the appointment.
		if actorRole != models.RoleArtist && client.ID != artist.ID {
			if err := s.mailer.SendAppointmentStatusUpdate(artist.Email, artist.DisplayName(), client.DisplayName(), dateStr, timeStr, string(status)); err != nil {
				utils.Log.Error("failed to send status update email to artist",
					zap.Uint("appointment_id", appointmentID),
					zap.Error(err))
			}
		}
	})
}

func (s *AppointmentService) UpdateDetails(ctx context.Context, requesterID uint, role models.UserRole, id uint, req UpdateDetailsRequest) (*models.Appointment, error) {
	if req.Status != nil {
		return nil, ValidationError("Use the dedicated status update endpoint to change appointment status.")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	isClient := appointment.ClientID == requesterID && role == models.RoleUser
	isArtist := appointment.ArtistID == requesterID && role == models.RoleArtist
	if !isClient && !isArtist && role != models.RoleAdmin {
		return nil, ForbiddenError("Not authorized to update this appointment.")
	}

	if appointment.Status != models.StatusPending && appointment.Status != models.StatusConfirmed && role != models.RoleAdmin {
		return nil, ValidationError(fmt.Sprintf("Cannot update appointment with status: %s.", appointment.Status))
	}

	// Clients never write artist fields; the keys are dropped silently.
	if role == models.RoleUser {
		req.ArtistNotes = nil
		req.Price = nil
	}

	if err := applyDetailsPatch(appointment, req); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, appointment); err != nil {
		return nil, err
	}

	// TODO: notify the counterparty when details change; needs a dedicated
	// ws event on the client side first.

	return appointment, nil
}

func applyDetailsPatch(appointment *models.Appointment, req UpdateDetailsRequest) error {
	timingChanged := false

	if req.AppointmentDate != nil {
		apptDate, err := time.Parse("2006-01-02", *req.AppointmentDate)
		if err != nil {
			return ValidationError("Appointment date must be a valid ISO date string (YYYY-MM-DD).")
		}
		appointment.AppointmentDate = apptDate
	}
	if req.StartTime != nil {
		startTime, err := utils.NormalizeClock(*req.StartTime)
		if err != nil {
			return ValidationError("Start time must be in HH:MM format.")
		}
		appointment.StartTime = startTime
		timingChanged = true
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 15 {
			return ValidationError("Duration must be at least 15 minutes.")
		}
		appointment.DurationMinutes = *req.DurationMinutes
		timingChanged = true
	}
	if req.ServiceType != nil {
		serviceType := strings.TrimSpace(*req.ServiceType)
		if len(serviceType) < 3 || len(serviceType) > 100 {
			return ValidationError("Service type must be between 3 and 100 characters.")
		}
		appointment.ServiceType = serviceType
	}
	if req.Location != nil {
		if req.Location.Address != nil {
			appointment.Location.Address = *req.Location.Address
		}
		if req.Location.City != nil {
			appointment.Location.City = *req.Location.City
		}
		if req.Location.PostalCode != nil {
			appointment.Location.PostalCode = *req.Location.PostalCode
		}
		if req.Location.Notes != nil {
			appointment.Location.Notes = *req.Location.Notes
		}
	}
	if req.Notes != nil {
		appointment.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.ArtistNotes != nil {
		appointment.ArtistNotes = strings.TrimSpace(*req.ArtistNotes)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return ValidationError("Price cannot be negative.")
		}
		appointment.Price = req.Price
	}

	// End time is derived state: recompute whenever either input moved.
	if timingChanged && appointment.DurationMinutes > 0 {
		endTime, err := utils.ComputeEndTime(appointment.StartTime, appointment.DurationMinutes)
		if err != nil {
			return ValidationError(err.Error())
		}
		appointment.EndTime = endTime
	}

	return nil
}
