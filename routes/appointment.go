package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mehendiverse/marketplace-app/controllers"
	"github.com/mehendiverse/marketplace-app/middleware"
	"github.com/mehendiverse/marketplace-app/models"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App, ac *controllers.AppointmentController) {
	appointment := app.Group("/appointments", middleware.Protected())
	appointment.Post("/", ac.CreateAppointment)
	appointment.Get("/", ac.GetMyAppointments)
	appointment.Get("/admin/all", middleware.RequireRole(models.RoleAdmin), ac.GetAllAppointmentsAdmin)
	appointment.Get("/:id", ac.GetAppointment)
	appointment.Patch("/:id/status", ac.UpdateAppointmentStatus)
	appointment.Put("/:id/details", ac.UpdateAppointmentDetails)
}
