package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mehendiverse/marketplace-app/controllers"
	"github.com/mehendiverse/marketplace-app/middleware"
)

// SetupArtistRoutes configures the artist directory routes
func SetupArtistRoutes(app *fiber.App) {
	artist := app.Group("/artists")
	artist.Get("/", controllers.GetArtists)
	artist.Get("/:id", controllers.GetArtist)
	artist.Patch("/profile", middleware.Protected(), controllers.UpdateArtistProfile)
}
