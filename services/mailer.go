package services

import "github.com/mehendiverse/marketplace-app/utils"

// Mailer is the email dispatcher consumed by the lifecycle engine. All
// sends are best effort and never block a state change.
type Mailer interface {
	SendAppointmentConfirmation(to, clientName, artistName, date, startTime string) error
	SendAppointmentStatusUpdate(to, recipientName, counterpartName, date, startTime, status string) error
}

// Notifier is the live push channel consumed by the lifecycle engine. The
// boolean result reports delivery; offline users simply miss the push.
type Notifier interface {
	PushToUser(userID uint, event string, payload interface{}) bool
}

// SMTPMailer sends appointment emails over SMTP.
type SMTPMailer struct{}

func (SMTPMailer) SendAppointmentConfirmation(to, clientName, artistName, date, startTime string) error {
	return utils.SendAppointmentConfirmation(to, clientName, artistName, date, startTime)
}

func (SMTPMailer) SendAppointmentStatusUpdate(to, recipientName, counterpartName, date, startTime, status string) error {
	return utils.SendAppointmentStatusUpdate(to, recipientName, counterpartName, date, startTime, status)
}
