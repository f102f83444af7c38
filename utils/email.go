package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"
)

func SendEmail(to, subject, body string) error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("EMAIL_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	return d.DialAndSend(m)
}

// SendAppointmentConfirmation mails the client when the artist confirms a
// booking.
func SendAppointmentConfirmation(to, clientName, artistName, date, startTime string) error {
	subject := "Your Mehendi Appointment is Confirmed"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Great news! Your mehendi appointment has been confirmed.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Artist:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>We look forward to seeing you!</p>
		<p>Best regards,</p>
		<p>The Mehendiverse Team</p>
	`, clientName, artistName, date, startTime)
	return SendEmail(to, subject, body)
}

// SendAppointmentStatusUpdate mails a party whenever an appointment moves
// to a status other than confirmed.
func SendAppointmentStatusUpdate(to, recipientName, counterpartName, date, startTime, status string) error {
	subject := fmt.Sprintf("Appointment %s", status)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your mehendi appointment with %s has been updated.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>New Status:</strong> %s</li>
		</ul>
		<p>You can review the appointment from your dashboard at any time.</p>
		<p>Best regards,</p>
		<p>The Mehendiverse Team</p>
	`, recipientName, counterpartName, date, startTime, status)
	return SendEmail(to, subject, body)
}
