package services

import (
	"errors"
	"math"
	"time"

	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"gorm.io/gorm"
)

var (
	ErrPropertyNotFound   = errors.New("property not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidDateRange   = errors.New("dateFrom must be before dateTo")
	ErrDatesAlreadyBooked = errors.New("property is already booked for these dates")
	ErrNotPending         = errors.New("booking is not pending")
	ErrNotCancellable     = errors.New("booking can no longer be cancelled")
	ErrNotAllowed         = errors.New("not allowed")
)

// BookingService owns booking creation, approval and cancellation,
// including overlap detection and the already_booked cascade.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// Overlaps reports whether two inclusive date ranges share at least one
// day. A booking ending on day X and one starting on day X overlap.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !aTo.Before(bFrom)
}

// NightCount bills partial-day spans as a full night.
func NightCount(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// Create places a pending booking for the student. It fails with
// ErrDatesAlreadyBooked when any confirmed booking on the property
// overlaps the requested range.
func (s *BookingService) Create(studentID uint, propertyID uint, dateFrom, dateTo time.Time) (*models.Booking, error) {
	if !dateFrom.Before(dateTo) {
		return nil, ErrInvalidDateRange
	}

	var property models.Property
	if err := s.DB.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	var conflicts int64
	countErr := s.DB.Model(&models.Booking{}).
		Where("property_id = ? AND status = ? AND date_from <= ? AND date_to >= ?",
			propertyID, "confirmed", dateTo, dateFrom).
		Count(&conflicts).Error
	if countErr != nil {
		return nil, countErr
	}
	if conflicts > 0 {
		return nil, ErrDatesAlreadyBooked
	}

	booking := models.Booking{
		StudentID:   studentID,
		PropertyID:  propertyID,
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		TotalAmount: float64(NightCount(dateFrom, dateTo)) * property.Price,
		Status:      "pending",
	}

	if err := s.DB.Create(&booking).Error; err != nil {
		return nil, err
	}

	// Reload with property and owner denormalized for the response
	s.DB.Preload("Property").Preload("Property.Owner").Preload("Student").First(&booking, booking.ID)

	return &booking, nil
}

// Approve confirms a pending booking and, in the same transaction,
// marks every other pending booking on the same property whose range
// overlaps as already_booked. Only the property's owner may approve.
// Returns the confirmed booking and the cascaded siblings.
func (s *BookingService) Approve(ownerID uint, bookingID uint) (*models.Booking, []models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Property").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}

	if booking.Property == nil || booking.Property.OwnerID != ownerID {
		return nil, nil, ErrNotAllowed
	}

	if booking.Status != "pending" {
		return nil, nil, ErrNotPending
	}

	var cascaded []models.Booking
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, "pending").
			Update("status", "confirmed").Error; err != nil {
			return err
		}

		if err := tx.
			Where("property_id = ? AND id <> ? AND status = ? AND date_from <= ? AND date_to >= ?",
				booking.PropertyID, booking.ID, "pending", booking.DateTo, booking.DateFrom).
			Find(&cascaded).Error; err != nil {
			return err
		}

		for i := range cascaded {
			if err := tx.Model(&cascaded[i]).Update("status", "already_booked").Error; err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, nil, txErr
	}

	booking.Status = "confirmed"
	return &booking, cascaded, nil
}

// Cancel moves a pending or confirmed booking to cancelled. The caller
// must be the booking's student, the property's owner, or an admin.
// Cancelled and already_booked are terminal; sibling already_booked
// bookings are never revived.
func (s *BookingService) Cancel(userID uint, role string, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Property").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	allowed := booking.StudentID == userID ||
		role == "admin" ||
		(role == "owner" && booking.Property != nil && booking.Property.OwnerID == userID)
	if !allowed {
		return nil, ErrNotAllowed
	}

	if booking.Status == "cancelled" || booking.Status == "already_booked" {
		return nil, ErrNotCancellable
	}

	if err := s.DB.Model(&booking).Update("status", "cancelled").Error; err != nil {
		return nil, err
	}

	booking.Status = "cancelled"
	return &booking, nil
}
