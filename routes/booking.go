package routes

import (
	"errors"
	"fmt"
	"time"

	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/services"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
)

type CreateBookingInput struct {
	PropertyID uint   `json:"propertyId" validate:"required"`
	DateFrom   string `json:"dateFrom" validate:"required"`
	DateTo     string `json:"dateTo" validate:"required"`
}

// CreateBooking places a pending booking for the authenticated student.
func CreateBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	dateFrom, fromErr := time.Parse("2006-01-02", input.DateFrom)
	dateTo, toErr := time.Parse("2006-01-02", input.DateTo)
	if fromErr != nil || toErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid date format. Use ISO format (YYYY-MM-DD).", ctx)
		return
	}

	booking, err := services.NewBookingService(storage.DB).Create(userID, input.PropertyID, dateFrom, dateTo)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDateRange):
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "dateFrom must be before dateTo.", ctx)
		case errors.Is(err, services.ErrPropertyNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found.", ctx)
		case errors.Is(err, services.ErrDatesAlreadyBooked):
			utils.CreateError(iris.StatusConflict, "Already Booked", "Property is already booked for these dates.", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	// Notify the owner about the new request
	if booking.Property != nil {
		notification := models.Notification{
			UserID:  booking.Property.OwnerID,
			Type:    "booking_request",
			Message: fmt.Sprintf("New booking request for %s from %s to %s", booking.Property.Title, input.DateFrom, input.DateTo),
		}
		storage.DB.Create(&notification)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"message": "Booking created successfully.",
		"booking": booking,
	})
}

// GetMyBookings lists the authenticated student's bookings.
func GetMyBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	res := storage.DB.Preload("Property").Preload("Property.Owner").
		Where("student_id = ?", userID).Order("created_at DESC").Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

// GetOwnerBookings lists bookings across all of the owner's properties.
func GetOwnerBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	res := storage.DB.
		Joins("JOIN properties p ON p.id = bookings.property_id").
		Where("p.owner_id = ?", userID).
		Preload("Property").
		Preload("Student").
		Order("bookings.created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

// ApproveBooking confirms a pending booking and cascades already_booked
// onto every other overlapping pending booking on the same property.
func ApproveBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	bookingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid booking ID.", ctx)
		return
	}

	booking, cascaded, approveErr := services.NewBookingService(storage.DB).Approve(userID, bookingID)
	if approveErr != nil {
		switch {
		case errors.Is(approveErr, services.ErrBookingNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found.", ctx)
		case errors.Is(approveErr, services.ErrNotAllowed):
			utils.CreateForbidden(ctx)
		case errors.Is(approveErr, services.ErrNotPending):
			utils.CreateError(iris.StatusBadRequest, "Invalid State", "Only pending bookings can be approved.", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	notifyBookingStatus(*booking, "confirmed")
	for _, sibling := range cascaded {
		sibling.Property = booking.Property
		notifyBookingStatus(sibling, "already_booked")
	}

	ctx.JSON(iris.Map{
		"message":  "Booking approved.",
		"booking":  booking,
		"cascaded": len(cascaded),
	})
}

// RejectBooking cancels a booking on the owner's property.
func RejectBooking(ctx iris.Context) {
	cancelBooking(ctx, "Booking rejected.")
}

// CancelBooking cancels a booking; allowed for the booking's student,
// the property's owner, or an admin.
func CancelBooking(ctx iris.Context) {
	cancelBooking(ctx, "Booking cancelled successfully.")
}

func cancelBooking(ctx iris.Context, successMsg string) {
	userID := ctx.Values().Get("userID").(uint)
	role := ctx.Values().Get("role").(string)

	bookingID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid booking ID.", ctx)
		return
	}

	booking, cancelErr := services.NewBookingService(storage.DB).Cancel(userID, role, bookingID)
	if cancelErr != nil {
		switch {
		case errors.Is(cancelErr, services.ErrBookingNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found.", ctx)
		case errors.Is(cancelErr, services.ErrNotAllowed):
			utils.CreateError(iris.StatusForbidden, "Forbidden", "Not authorized to cancel this booking.", ctx)
		case errors.Is(cancelErr, services.ErrNotCancellable):
			utils.CreateError(iris.StatusBadRequest, "Invalid State", "Booking can no longer be cancelled.", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	notifyBookingStatus(*booking, "cancelled")

	ctx.JSON(iris.Map{
		"message": successMsg,
		"booking": booking,
	})
}

func notifyBookingStatus(booking models.Booking, status string) {
	title := "your booking"
	if booking.Property != nil {
		title = booking.Property.Title
	}
	notification := models.Notification{
		UserID:  booking.StudentID,
		Type:    "booking_status",
		Message: fmt.Sprintf("Your booking for %s is now %s", title, status),
	}
	storage.DB.Create(&notification)
}
