package routes

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/services"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
)

// InitiateLahzaPayment starts a hosted checkout for a confirmed
// booking and persists a pending Payment keyed by the gateway's
// transaction reference.
func InitiateLahzaPayment(ctx iris.Context) {
	bookingID := ctx.Params().Get("bookingID")

	var booking models.Booking
	res := storage.DB.Preload("Property").Preload("Student").Where("id = ?", bookingID).Find(&booking)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found.", ctx)
		return
	}

	// Only approved bookings are payable
	if booking.Status == "pending" || booking.Status == "cancelled" || booking.Status == "already_booked" {
		utils.CreateError(iris.StatusBadRequest, "Invalid State", "You cannot pay for this booking.", ctx)
		return
	}

	if booking.Property == nil {
		utils.CreateError(iris.StatusBadRequest, "Invalid State", "Property price not found.", ctx)
		return
	}

	email := "test@gmail.com"
	if booking.Student != nil && booking.Student.Email != "" {
		email = booking.Student.Email
	}

	amountInAgorot := int64(math.Round(booking.Property.Price * 100))

	client := services.NewLahzaClient()
	transaction, initErr := client.InitializeTransaction(services.InitializeTransactionInput{
		Amount:      fmt.Sprintf("%d", amountInAgorot),
		Currency:    "ILS",
		Email:       email,
		CallbackURL: os.Getenv("FRONTEND_URL") + "/payment-success",
		WebhookURL:  os.Getenv("LAHZA_WEBHOOK_URL"),
	})
	if initErr != nil {
		log.Printf("lahza initiate error: %v", initErr)
		utils.CreateError(iris.StatusInternalServerError, "Payment Error", "Payment initiation failed.", ctx)
		return
	}

	payment := models.Payment{
		BookingID:       booking.ID,
		StudentID:       booking.StudentID,
		Amount:          booking.Property.Price,
		Currency:        "ILS",
		TransactionType: "payment",
		TransactionID:   transaction.Reference,
		Status:          "pending",
	}

	if err := storage.DB.Create(&payment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"checkout_url":   transaction.AuthorizationURL,
		"transaction_id": transaction.Reference,
	})
}

// LahzaWebhook reconciles the gateway's asynchronous completion
// callback against the locally stored payment. The payload signature
// is verified before anything is trusted.
func LahzaWebhook(ctx iris.Context) {
	body, err := ctx.GetBody()
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Webhook Error", "Could not read webhook body.", ctx)
		return
	}

	client := services.NewLahzaClient()
	signature := ctx.GetHeader("X-Lahza-Signature")
	if !client.VerifyWebhookSignature(body, signature) {
		utils.CreateError(iris.StatusUnauthorized, "Webhook Error", "Invalid webhook signature.", ctx)
		return
	}

	var event services.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Webhook Error", "Invalid webhook payload.", ctx)
		return
	}

	if event.Reference == "" || event.Status != "success" {
		utils.CreateError(iris.StatusBadRequest, "Webhook Error", "Invalid webhook event.", ctx)
		return
	}

	var payment models.Payment
	res := storage.DB.Where("transaction_id = ?", event.Reference).Find(&payment)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Payment not found.", ctx)
		return
	}

	if err := storage.DB.Model(&payment).Update("status", "completed").Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Create(&models.Notification{
		UserID:  payment.StudentID,
		Type:    "payment",
		Message: "Your payment was completed successfully",
	})

	ctx.JSON(iris.Map{"message": "Payment marked as completed"})
}
