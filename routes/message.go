package routes

import (
	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
)

type CreateMessageInput struct {
	ReceiverID uint   `json:"receiverId" validate:"required"`
	PropertyID *uint  `json:"propertyId"`
	ChatID     *uint  `json:"chatId"`
	Message    string `json:"message" validate:"required,max=2000"`
}

// CreateMessage sends a message, creating the chat for the participant
// pair if one does not exist yet.
func CreateMessage(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var chat models.Chat
	if input.ChatID != nil {
		res := storage.DB.Where("id = ?", *input.ChatID).Find(&chat)
		if res.Error != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		if res.RowsAffected == 0 {
			utils.CreateError(iris.StatusNotFound, "Not Found", "Chat not found.", ctx)
			return
		}
		if chat.ParticipantOneID != userID && chat.ParticipantTwoID != userID {
			utils.CreateForbidden(ctx)
			return
		}
	} else {
		res := storage.DB.
			Where("(participant_one_id = ? AND participant_two_id = ?) OR (participant_one_id = ? AND participant_two_id = ?)",
				userID, input.ReceiverID, input.ReceiverID, userID).
			Limit(1).Find(&chat)
		if res.Error != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		if res.RowsAffected == 0 {
			chat = models.Chat{
				ParticipantOneID: userID,
				ParticipantTwoID: input.ReceiverID,
				PropertyID:       input.PropertyID,
			}
			if err := storage.DB.Create(&chat).Error; err != nil {
				utils.CreateInternalServerError(ctx)
				return
			}
		}
	}

	message := models.Message{
		ChatID:     chat.ID,
		SenderID:   userID,
		ReceiverID: input.ReceiverID,
		Text:       input.Message,
	}

	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Create(&models.Notification{
		UserID:  input.ReceiverID,
		Type:    "message",
		Message: "You have a new message",
	})

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(message)
}

// GetChatMessages lists a chat's messages, oldest first; only the
// participants may read them.
func GetChatMessages(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	chatID := ctx.Params().Get("chatID")

	var chat models.Chat
	res := storage.DB.Where("id = ?", chatID).Find(&chat)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Chat not found.", ctx)
		return
	}

	if chat.ParticipantOneID != userID && chat.ParticipantTwoID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var messages []models.Message
	if err := storage.DB.Where("chat_id = ?", chat.ID).Order("created_at ASC").Find(&messages).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(messages)
}
