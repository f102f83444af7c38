package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// IsValidStatus reports whether s is one of the five declared statuses.
func IsValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

// CancellableByClient reports whether a client may still cancel an
// appointment in the given status.
func CancellableByClient(s AppointmentStatus) bool {
	return s == StatusPending || s == StatusConfirmed
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// GeoPoint is an optional longitude/latitude pair on a location.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Location is where the appointment takes place, either the client's
// address or the artist's studio.
type Location struct {
	Address     string    `json:"address"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Coordinates *GeoPoint `json:"coordinates,omitempty"`
}

// Value implements the driver.Valuer interface
func (l Location) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (l *Location) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// PriceItem is one line of an itemized price breakdown.
type PriceItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type PriceBreakdown []PriceItem

// Value implements the driver.Valuer interface
func (p PriceBreakdown) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (p *PriceBreakdown) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// PaymentDetails tracks the payment sub-record. Its lifecycle is
// independent from the appointment status.
type PaymentDetails struct {
	TransactionID string        `json:"transaction_id,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Amount        float64       `json:"amount,omitempty"`
}

// Value implements the driver.Valuer interface
func (p PaymentDetails) Value() (driver.Value, error) {
	jsonData, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (p *PaymentDetails) Scan(value interface{}) error {
	return scanJSON(value, p)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSONB value: unsupported type %T", value)
	}

	return json.Unmarshal(data, dest)
}

// Appointment is a scheduled engagement between a client and an artist.
// Client and artist identities are immutable after creation; status moves
// only through the lifecycle engine.
type Appointment struct {
	gorm.Model
	ClientID           uint              `json:"client_id" gorm:"index:idx_appointments_client_date"`
	Client             User              `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	ArtistID           uint              `json:"artist_id" gorm:"index:idx_appointments_artist_date"`
	Artist             User              `json:"artist,omitempty" gorm:"foreignKey:ArtistID"`
	DesignID           *uint             `json:"design_id,omitempty"`
	Design             *Design           `json:"design,omitempty" gorm:"foreignKey:DesignID"`
	AppointmentDate    time.Time         `json:"appointment_date" gorm:"index:idx_appointments_client_date;index:idx_appointments_artist_date"`
	StartTime          string            `json:"start_time"` // "HH:MM", 24h
	EndTime            string            `json:"end_time,omitempty"`
	DurationMinutes    int               `json:"duration_minutes,omitempty"`
	ServiceType        string            `json:"service_type"`
	Location           Location          `json:"location" gorm:"type:jsonb"`
	Notes              string            `json:"notes,omitempty"`
	ArtistNotes        string            `json:"artist_notes,omitempty"`
	Price              *float64          `json:"price,omitempty"`
	PriceBreakdown     PriceBreakdown    `json:"price_breakdown,omitempty" gorm:"type:jsonb"`
	Status             AppointmentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentDetails     PaymentDetails    `json:"payment_details" gorm:"type:jsonb"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	RescheduledFrom    *uint             `json:"rescheduled_from,omitempty"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.PaymentDetails.PaymentStatus == "" {
		a.PaymentDetails.PaymentStatus = PaymentPending
	}
	return nil
}
