package routes

import (
	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
)

// ListNotifications returns the authenticated user's notifications,
// newest first.
func ListNotifications(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var notifications []models.Notification
	res := storage.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notifications)
}

type CreateNotificationInput struct {
	UserID  uint   `json:"userId" validate:"required"`
	Message string `json:"message" validate:"required,max=500"`
	Type    string `json:"type" validate:"max=32"`
}

func CreateNotification(ctx iris.Context) {
	var input CreateNotificationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	notification := models.Notification{
		UserID:  input.UserID,
		Message: input.Message,
		Type:    input.Type,
	}

	if err := storage.DB.Create(&notification).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(notification)
}

// MarkNotificationSeen marks one of the caller's notifications as seen.
// A foreign notification reads as not found, not forbidden.
func MarkNotificationSeen(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	var notification models.Notification
	res := storage.DB.Where("id = ? AND user_id = ?", id, userID).Find(&notification)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Notification not found or not authorized.", ctx)
		return
	}

	if err := storage.DB.Model(&notification).Update("seen", true).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Marked as seen"})
}
