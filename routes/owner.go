package routes

import (
	"strconv"

	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
)

// GetOwnerPropertyCount returns how many properties the authenticated
// owner has listed.
func GetOwnerPropertyCount(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var count int64
	if err := storage.DB.Model(&models.Property{}).Where("owner_id = ?", userID).Count(&count).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"count": count})
}

// OwnerCreateProperty adds a property under the owner's own account;
// the ownerID path segment must match the token.
func OwnerCreateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	ownerID, err := ctx.Params().GetUint("ownerID")
	if err != nil || ownerID != userID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "You can only add properties for your own account.", ctx)
		return
	}

	var input PropertyInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	property := propertyFromInput(input, userID)
	if createErr := storage.DB.Create(&property).Error; createErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

// OwnerUpdateProperty edits one of the owner's own properties.
func OwnerUpdateProperty(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	ownerID, err := ctx.Params().GetUint("ownerID")
	if err != nil || ownerID != userID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "You can only edit your own properties.", ctx)
		return
	}

	propertyID := ctx.Params().GetUintDefault("propertyID", 0)
	property := getOwnedProperty(strconv.FormatUint(uint64(propertyID), 10), userID, ctx)
	if property == nil {
		return
	}

	var input PropertyInput
	if readErr := ctx.ReadJSON(&input); readErr != nil {
		utils.HandleValidationErrors(readErr, ctx)
		return
	}

	updated := propertyFromInput(input, userID)
	updated.ID = property.ID
	updated.CreatedAt = property.CreatedAt
	updated.BlockedDates = property.BlockedDates
	if input.Image == "" {
		updated.Image = property.Image
	}

	if saveErr := storage.DB.Save(&updated).Error; saveErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(&updated)
}
