package routes

import (
	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
)

type CreateReviewInput struct {
	PropertyID uint   `json:"propertyId" validate:"required"`
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}

// CreateReview adds a student's review for a property.
func CreateReview(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	res := storage.DB.Where("id = ?", input.PropertyID).Find(&property)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found.", ctx)
		return
	}

	review := models.Review{
		PropertyID: input.PropertyID,
		StudentID:  userID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}

	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

// ListPropertyReviews is public; the student's username is
// denormalized into each review.
func ListPropertyReviews(ctx iris.Context) {
	propertyID := ctx.Params().Get("propertyID")

	var reviews []models.Review
	res := storage.DB.Preload("Student").Where("property_id = ?", propertyID).
		Order("created_at DESC").Find(&reviews)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(reviews)
}

// DeleteReview removes a review; only its author or an admin may.
func DeleteReview(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	role := ctx.Values().Get("role").(string)
	id := ctx.Params().Get("id")

	var review models.Review
	res := storage.DB.Where("id = ?", id).Find(&review)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Review not found.", ctx)
		return
	}

	if review.StudentID != userID && role != "admin" {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not authorized to delete this review.", ctx)
		return
	}

	if err := storage.DB.Delete(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Review deleted successfully"})
}
