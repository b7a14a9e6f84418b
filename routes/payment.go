package routes

import (
	"fmt"
	"time"

	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
)

type CreatePaymentInput struct {
	BookingID     uint    `json:"bookingId" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,min=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
}

// CreatePayment records a manual payment for the student's own booking.
// At most one payment is expected per booking.
func CreatePayment(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreatePaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	res := storage.DB.Where("id = ?", input.BookingID).Find(&booking)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found.", ctx)
		return
	}

	if booking.StudentID != userID {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not authorized to pay for this booking.", ctx)
		return
	}

	var existing models.Payment
	existingRes := storage.DB.Where("booking_id = ?", input.BookingID).Limit(1).Find(&existing)
	if existingRes.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if existingRes.RowsAffected > 0 {
		utils.CreateError(iris.StatusBadRequest, "Conflict", "Payment for this booking already exists.", ctx)
		return
	}

	payment := models.Payment{
		BookingID:       input.BookingID,
		StudentID:       userID,
		Amount:          input.Amount,
		PaymentMethod:   input.PaymentMethod,
		TransactionType: "payment",
		TransactionID:   fmt.Sprintf("manual-%d-%d", input.BookingID, time.Now().UnixNano()),
		Status:          "pending",
	}

	if err := storage.DB.Create(&payment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(payment)
}

type UpdatePaymentInput struct {
	Amount        *float64 `json:"amount"`
	PaymentMethod *string  `json:"paymentMethod"`
	Status        *string  `json:"status"`
}

// UpdatePayment changes payment fields; amount and status are
// restricted to owners and admins.
func UpdatePayment(ctx iris.Context) {
	role := ctx.Values().Get("role").(string)
	id := ctx.Params().Get("id")

	var input UpdatePaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var payment models.Payment
	res := storage.DB.Where("id = ?", id).Find(&payment)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Payment not found.", ctx)
		return
	}

	if (input.Amount != nil || input.Status != nil) && role != "admin" && role != "owner" {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Only admin or owner can update payment amount or status.", ctx)
		return
	}

	if input.Amount != nil {
		payment.Amount = *input.Amount
	}
	if input.PaymentMethod != nil {
		payment.PaymentMethod = *input.PaymentMethod
	}
	if input.Status != nil {
		payment.Status = *input.Status
	}

	if err := storage.DB.Save(&payment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(payment)
}

// GetPaymentHistory lists the authenticated student's payments.
func GetPaymentHistory(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var payments []models.Payment
	res := storage.DB.Preload("Booking").Where("student_id = ?", userID).
		Order("created_at DESC").Find(&payments)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(payments)
}

// GetOwnerPaymentHistory lists payments for bookings on the owner's
// properties. Admins see it for the properties they own (none, usually).
func GetOwnerPaymentHistory(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var payments []models.Payment
	res := storage.DB.
		Joins("JOIN bookings b ON b.id = payments.booking_id").
		Joins("JOIN properties p ON p.id = b.property_id").
		Where("p.owner_id = ?", userID).
		Preload("Booking").
		Preload("Student").
		Order("payments.created_at DESC").
		Find(&payments)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(payments)
}

// GetInvoice builds an invoice view for a booking; visible to the
// booking's student, owners and admins.
func GetInvoice(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	role := ctx.Values().Get("role").(string)
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

	if booking.StudentID != userID && role != "owner" && role != "admin" {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not authorized to view this invoice.", ctx)
		return
	}

	invoice := iris.Map{
		"invoiceNumber": fmt.Sprintf("INV-%06d", booking.ID),
		"amount":        booking.TotalAmount,
		"date":          time.Now(),
	}
	if booking.Student != nil {
		invoice["student"] = iris.Map{
			"name":  booking.Student.Username,
			"email": booking.Student.Email,
		}
	}
	if booking.Property != nil {
		invoice["property"] = booking.Property.Title
	}

	ctx.JSON(invoice)
}
