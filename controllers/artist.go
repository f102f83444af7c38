package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mehendiverse/marketplace-app/db"
	"github.com/mehendiverse/marketplace-app/models"
	"github.com/mehendiverse/marketplace-app/utils"
)

// GetArtists lists bookable artists: active, with a complete profile.
func GetArtists(c *fiber.Ctx) error {
	query := db.DB.Model(&models.User{}).
		Where("role = ? AND is_active = ? AND is_profile_complete = ?", models.RoleArtist, true, true)
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	var artists []models.User
	if err := query.Order("first_name asc").Limit(100).Find(&artists).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.NewErrorResponse("Failed to fetch artists", err))
	}
	for i := range artists {
		artists[i].Password = ""
	}
	return c.JSON(artists)
}

// GetArtist returns one artist profile with their designs preloaded.
func GetArtist(c *fiber.Ctx) error {
	id := c.Params("id")
	var artist models.User
	err := db.DB.Preload("Designs").
		Where("role = ?", models.RoleArtist).
		First(&artist, id).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.NewErrorResponse("Artist not found", err))
	}
	artist.Password = ""
	return c.JSON(artist)
}

// UpdateArtistProfile lets an artist complete or edit their own profile.
// A profile with bio and city filled is marked complete, which makes the
// artist bookable.
func UpdateArtistProfile(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}
	if role != models.RoleArtist {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{Message: "Only artists can update an artist profile"})
	}

	type profileInput struct {
		Bio    string `json:"bio"`
		City   string `json:"city"`
		Phone  string `json:"phone"`
		Avatar string `json:"avatar"`
	}
	input := new(profileInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Cannot parse JSON", err))
	}

	var artist models.User
	if err := db.DB.First(&artist, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.NewErrorResponse("Artist not found", err))
	}

	if input.Bio != "" {
		artist.Bio = input.Bio
	}
	if input.City != "" {
		artist.City = input.City
	}
	if input.Phone != "" {
		artist.Phone = input.Phone
	}
	if input.Avatar != "" {
		artist.Avatar = input.Avatar
	}
	artist.IsProfileComplete = artist.Bio != "" && artist.City != ""

	if err := db.DB.Save(&artist).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.NewErrorResponse("Failed to update profile", err))
	}

	artist.Password = ""
	return c.JSON(artist)
}
