package services

// Error taxonomy for the appointment lifecycle engine. Each category maps
// to one HTTP status in the controllers; downstream delivery failures are
// logged and never surfaced as errors.

// ValidationError is malformed or missing input. Never retried.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// NotFoundError is a missing appointment, artist or design, or an artist
// that is not eligible for booking.
type NotFoundError string

func (e NotFoundError) Error() string { return string(e) }

// ForbiddenError is an actor that does not satisfy the transition or
// visibility rule. No state is mutated.
type ForbiddenError string

func (e ForbiddenError) Error() string { return string(e) }

// ConflictError is a transition attempted from a terminal or disallowed
// status.
type ConflictError string

func (e ConflictError) Error() string { return string(e) }

const (
	ErrAppointmentNotFound NotFoundError  = "Appointment not found."
	ErrArtistNotAvailable  NotFoundError  = "Artist not found or not available."
	ErrDesignNotFound      NotFoundError  = "Design not found."
	ErrNotAuthorized       ForbiddenError = "You are not authorized to perform this action."
)
