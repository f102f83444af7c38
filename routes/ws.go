package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mehendiverse/marketplace-app/services"
	"github.com/mehendiverse/marketplace-app/ws"
)

// SetupWebSocketRoutes mounts the live notification channel. The upgrade
// middleware rejects unauthenticated connections at handshake.
func SetupWebSocketRoutes(app *fiber.App, hub *ws.Hub, appointments services.IAppointmentService) {
	app.Use("/ws", ws.Upgrade)
	app.Get("/ws", ws.Handler(hub, appointments))
}
