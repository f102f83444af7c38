package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mehendiverse/marketplace-app/db"
	"github.com/mehendiverse/marketplace-app/models"
	"github.com/mehendiverse/marketplace-app/utils"
)

// CreateDesign lets an artist publish a portfolio design. The image file
// goes to the cloud store; only the resulting URL is persisted.
func CreateDesign(c *fiber.Ctx) error {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}
	if role != models.RoleArtist {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{Message: "Only artists can publish designs"})
	}

	design := models.Design{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		ArtistID:    userID,
	}
	if design.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "Title is required"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.NewErrorResponse("Design image is required", err))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.NewErrorResponse("Failed to read uploaded file", err))
	}
	defer file.Close()

	url, err := utils.UploadDesignImage(file, uuid.NewString())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.NewErrorResponse("Failed to upload design image", err))
	}
	design.Images = models.ImageList{url}

	if err := db.DB.Create(&design).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.NewErrorResponse("Failed to create design", err))
	}

	return c.Status(fiber.StatusCreated).JSON(design)
}

// GetDesign returns a single design with its artist preloaded.
func GetDesign(c *fiber.Ctx) error {
	id := c.Params("id")
	var design models.Design
	if err := db.DB.Preload("Artist").First(&design, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.NewErrorResponse("Design not found", err))
	}
	design.Artist.Password = ""
	return c.JSON(design)
}

// GetDesigns lists designs, optionally filtered by artist or category.
func GetDesigns(c *fiber.Ctx) error {
	query := db.DB.Model(&models.Design{})
	if v := c.QueryInt("artistId"); v > 0 {
		query = query.Where("artist_id = ?", v)
	}
	if v := c.Query("category"); v != "" {
		query = query.Where("category = ?", v)
	}

	var designs []models.Design
	if err := query.Order("created_at desc").Limit(100).Find(&designs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.NewErrorResponse("Failed to fetch designs", err))
	}
	return c.JSON(designs)
}
