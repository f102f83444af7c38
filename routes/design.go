package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mehendiverse/marketplace-app/controllers"
	"github.com/mehendiverse/marketplace-app/middleware"
)

// SetupDesignRoutes configures the design catalog routes
func SetupDesignRoutes(app *fiber.App) {
	design := app.Group("/designs")
	design.Get("/", controllers.GetDesigns)
	design.Get("/:id", controllers.GetDesign)
	design.Post("/", middleware.Protected(), controllers.CreateDesign)
}
