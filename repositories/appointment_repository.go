package repositories

import (
	"context"
	"math"
	"time"

	"github.com/mehendiverse/marketplace-app/db"
	"github.com/mehendiverse/marketplace-app/models"
	"gorm.io/gorm"
)

// AppointmentFilter narrows and pages an appointment listing.
type AppointmentFilter struct {
	ClientID  *uint
	ArtistID  *uint
	Status    *models.AppointmentStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	SortBy    string // "appointment_date", "created_at" or "status"
	SortOrder string // "asc" or "desc"
	Page      int
	Limit     int
}

// PaginatedAppointments is one page of results plus counts.
type PaginatedAppointments struct {
	Appointments      []models.Appointment `json:"appointments"`
	TotalAppointments int64                `json:"total_appointments"`
	TotalPages        int                  `json:"total_pages"`
	CurrentPage       int                  `json:"current_page"`
}

// IAppointmentRepository is the persistence gateway for appointments.
type IAppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	List(ctx context.Context, filter AppointmentFilter) (*PaginatedAppointments, error)
	Save(ctx context.Context, appointment *models.Appointment) error
}

type AppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository returns a GORM-backed appointment repository.
func NewAppointmentRepository() IAppointmentRepository {
	return &AppointmentRepository{db: db.GetDB()}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Artist").
		Preload("Design").
		First(&appointment, id).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *AppointmentRepository) List(ctx context.Context, filter AppointmentFilter) (*PaginatedAppointments, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	query := r.db.WithContext(ctx).Model(&models.Appointment{})
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.ArtistID != nil {
		query = query.Where("artist_id = ?", *filter.ArtistID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("appointment_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("appointment_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sortBy := filter.SortBy
	switch sortBy {
	case "created_at", "status":
	default:
		sortBy = "appointment_date"
	}
	order := sortBy + " asc"
	if filter.SortOrder == "desc" {
		order = sortBy + " desc"
	}

	var appointments []models.Appointment
	err := query.
		Preload("Client").
		Preload("Artist").
		Preload("Design").
		Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	return &PaginatedAppointments{
		Appointments:      appointments,
		TotalAppointments: total,
		TotalPages:        int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage:       page,
	}, nil
}

func (r *AppointmentRepository) Save(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}
