package routes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

type PropertyInput struct {
	Title       string   `json:"title" validate:"required,max=256"`
	Description string   `json:"description"`
	Type        string   `json:"type" validate:"required,oneof=room apartment"`
	Price       float64  `json:"price" validate:"required,min=0"`
	Address     string   `json:"address" validate:"required"`
	City        string   `json:"city" validate:"required"`
	Country     string   `json:"country" validate:"required"`
	Image       string   `json:"image"`
	Amenities   []string `json:"amenities"`
}

// CreateProperty lists a new property for the authenticated owner.
func CreateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property := propertyFromInput(input, userID)

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

// GetProperties is the public listing.
func GetProperties(ctx iris.Context) {
	var properties []models.Property
	if err := storage.DB.Order("created_at DESC").Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

func GetProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	res := storage.DB.Preload("Owner").Where("id = ?", id).Find(&property)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found.", ctx)
		return
	}

	ctx.JSON(&property)
}

// UpdateProperty lets the owner edit their own property.
func UpdateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	property := getOwnedProperty(id, userID, ctx)
	if property == nil {
		return
	}

	var input PropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updated := propertyFromInput(input, userID)
	updated.ID = property.ID
	updated.CreatedAt = property.CreatedAt
	updated.BlockedDates = property.BlockedDates

	if input.Image == "" {
		updated.Image = property.Image
	}

	if err := storage.DB.Save(&updated).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&updated)
}

// DeleteProperty removes a property; owners may delete their own,
// admins may delete any.
func DeleteProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	role := ctx.Values().Get("role").(string)
	id := ctx.Params().Get("id")

	var property models.Property
	res := storage.DB.Where("id = ?", id).Find(&property)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found.", ctx)
		return
	}

	if role == "owner" && property.OwnerID != userID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not your property.", ctx)
		return
	}

	if property.Image != "" {
		storage.DeleteImage(property.Image)
	}

	if err := storage.DB.Delete(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Property deleted"})
}

func propertyFromInput(input PropertyInput, ownerID uint) models.Property {
	// Ensure arrays are never null
	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	image := input.Image
	if strings.HasPrefix(image, "data:") {
		image = storage.UploadBase64Image(image, fmt.Sprintf("property-%d-%d", ownerID, time.Now().UnixNano()))
	}

	return models.Property{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Price:       input.Price,
		Address:     input.Address,
		City:        input.City,
		Country:     input.Country,
		Image:       image,
		Amenities:   datatypes.JSON(amenitiesJSON),
	}
}

func getOwnedProperty(id string, userID uint, ctx iris.Context) *models.Property {
	var property models.Property
	res := storage.DB.Where("id = ?", id).Find(&property)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found.", ctx)
		return nil
	}

	if property.OwnerID != userID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not your property.", ctx)
		return nil
	}

	return &property
}
