package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/mehendiverse/marketplace-app/db"
	"github.com/mehendiverse/marketplace-app/models"
	"github.com/mehendiverse/marketplace-app/utils"
	"github.com/robfig/cron/v3"
)

// StartCronJobs initializes and starts the cron scheduler for appointment reminders
func StartCronJobs() {
	c := cron.New()
	// Run every minute to check for appointments in the next hour
	_, err := c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
}

// sendAppointmentReminders finds confirmed appointments starting in about
// an hour and mails the client a reminder. Start times are stored as
// zero-padded HH:MM, so the window is a plain string range.
func sendAppointmentReminders() {
	// Start times are stored as IST wall-clock strings, so the window is
	// computed in IST no matter where the server runs.
	now := utils.ToIST(time.Now())
	windowStart := now.Add(55 * time.Minute)
	windowEnd := now.Add(65 * time.Minute)

	// A window crossing midnight belongs to the next day's run.
	if windowEnd.Day() != now.Day() {
		return
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var appointments []models.Appointment
	err := db.DB.Preload("Client").Preload("Artist").
		Where("status = ? AND appointment_date = ? AND start_time BETWEEN ? AND ?",
			models.StatusConfirmed, today,
			windowStart.Format("15:04"), windowEnd.Format("15:04")).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Client.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := fmt.Sprintf("Reminder: Upcoming Mehendi Appointment - %s", appointment.ServiceType)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming mehendi appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Artist:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>Location:</strong> %s, %s</li>
		</ul>
		<p>Please be ready on time. If you need to cancel, do so from your dashboard as soon as possible.</p>
		<p>Best regards,</p>
		<p>The Mehendiverse Team</p>
	`, appointment.Client.DisplayName(), appointment.ServiceType, appointment.Artist.DisplayName(),
		appointment.AppointmentDate.Format("2006-01-02"),
		appointment.StartTime,
		appointment.Location.Address, appointment.Location.City)

	return utils.SendEmail(appointment.Client.Email, subject, body)
}
