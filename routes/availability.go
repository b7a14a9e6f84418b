package routes

import (
	"encoding/json"
	"time"

	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// GetPropertyAvailability returns every booked date (expanded from
// non-cancelled bookings, inclusive of both endpoints) plus the
// owner's blocked dates.
func GetPropertyAvailability(ctx iris.Context) {
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

	var bookings []models.Booking
	if err := storage.DB.Where("property_id = ? AND status <> ?", id, "cancelled").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	bookedDates := []string{}
	for _, booking := range bookings {
		for d := booking.DateFrom; !d.After(booking.DateTo); d = d.AddDate(0, 0, 1) {
			day := d.Format("2006-01-02")
			if !slices.Contains(bookedDates, day) {
				bookedDates = append(bookedDates, day)
			}
		}
	}

	blockedDates := []string{}
	if property.BlockedDates != nil {
		json.Unmarshal(property.BlockedDates, &blockedDates)
	}

	ctx.JSON(iris.Map{
		"bookedDates":  bookedDates,
		"blockedDates": blockedDates,
	})
}

type BlockDatesInput struct {
	Dates []string `json:"dates" validate:"required,min=1"`
}

// BlockPropertyDates lets the property's owner add blackout dates.
func BlockPropertyDates(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)
	id := ctx.Params().Get("id")

	property := getOwnedProperty(id, userID, ctx)
	if property == nil {
		return
	}

	var input BlockDatesInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	for _, date := range input.Dates {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid date format. Use ISO format (YYYY-MM-DD).", ctx)
			return
		}
	}

	blockedDates := []string{}
	if property.BlockedDates != nil {
		json.Unmarshal(property.BlockedDates, &blockedDates)
	}

	for _, date := range input.Dates {
		if !slices.Contains(blockedDates, date) {
			blockedDates = append(blockedDates, date)
		}
	}

	blockedJSON, _ := json.Marshal(blockedDates)
	if err := storage.DB.Model(property).Update("blocked_dates", blockedJSON).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"message":      "Dates blocked successfully",
		"blockedDates": blockedDates,
	})
}
