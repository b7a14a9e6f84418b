package routes

import (
	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
)

// ListChats returns the authenticated user's chats with participants
// denormalized.
func ListChats(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var chats []models.Chat
	res := storage.DB.
		Preload("ParticipantOne").
		Preload("ParticipantTwo").
		Preload("Property").
		Where("participant_one_id = ? OR participant_two_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&chats)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(chats)
}
