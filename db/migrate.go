package db

import (
	"fmt"
	"log"

	"github.com/mehendiverse/marketplace-app/models"
)

// Migrate runs AutoMigrate for all models. Requires Init to have been
// called first.
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Design{},
		&models.Appointment{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
