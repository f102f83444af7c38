package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/mehendiverse/marketplace-app/controllers"
	"github.com/mehendiverse/marketplace-app/cron"
	"github.com/mehendiverse/marketplace-app/db"
	"github.com/mehendiverse/marketplace-app/redis"
	"github.com/mehendiverse/marketplace-app/repositories"
	"github.com/mehendiverse/marketplace-app/routes"
	"github.com/mehendiverse/marketplace-app/services"
	"github.com/mehendiverse/marketplace-app/utils"
	"github.com/mehendiverse/marketplace-app/ws"
)

func main() {
	utils.InitLogger()
	defer utils.SyncLogger()

	app := fiber.New()
	db.Init()
	if os.Getenv("AUTO_MIGRATE") == "true" {
		db.Migrate()
	}
	redis.InitRedis()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Mehendiverse marketplace API")
	})

	hub := ws.NewHub()
	appointmentService := services.NewAppointmentService(
		repositories.NewAppointmentRepository(),
		repositories.NewUserRepository(),
		repositories.NewDesignRepository(),
		hub,
		services.SMTPMailer{},
	)
	appointmentController := controllers.NewAppointmentController(appointmentService)

	routes.SetupAuthRoutes(app)
	routes.SetupArtistRoutes(app)
	routes.SetupDesignRoutes(app)
	routes.SetupAppointmentRoutes(app, appointmentController)
	routes.SetupWebSocketRoutes(app, hub, appointmentService)

	cron.StartCronJobs()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Fatal(app.Listen(":" + port))
}
