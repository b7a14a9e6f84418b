package services

import (
	"testing"
	"time"

	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Booking{},
	))

	return db
}

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedProperty(t *testing.T, db *gorm.DB, price float64) (models.User, models.Property) {
	t.Helper()

	owner := models.User{Email: "owner-" + t.Name() + "@example.com", Username: "owner", Role: "owner"}
	require.NoError(t, db.Create(&owner).Error)

	property := models.Property{
		OwnerID: owner.ID,
		Title:   "Room near campus",
		Type:    "room",
		Price:   price,
		City:    "Ramallah",
		Country: "Palestine",
	}
	require.NoError(t, db.Create(&property).Error)

	return owner, property
}

func seedStudent(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	student := models.User{Email: email, Username: email, Role: "student"}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                   string
		aFrom, aTo, bFrom, bTo string
		want                   bool
	}{
		{"disjoint before", "2024-03-01", "2024-03-04", "2024-03-05", "2024-03-08", false},
		{"disjoint after", "2024-03-05", "2024-03-08", "2024-03-01", "2024-03-04", false},
		{"shared boundary day", "2024-03-01", "2024-03-04", "2024-03-04", "2024-03-08", true},
		{"contained", "2024-03-01", "2024-03-10", "2024-03-03", "2024-03-05", true},
		{"partial", "2024-03-01", "2024-03-05", "2024-03-04", "2024-03-09", true},
		{"identical", "2024-03-01", "2024-03-05", "2024-03-01", "2024-03-05", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(date(tt.aFrom), date(tt.aTo), date(tt.bFrom), date(tt.bTo))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNightCount(t *testing.T) {
	assert.Equal(t, 2, NightCount(date("2024-01-01"), date("2024-01-03")))
	assert.Equal(t, 1, NightCount(date("2024-01-01"), date("2024-01-02")))
	assert.Equal(t, 3, NightCount(date("2024-03-01"), date("2024-03-04")))

	// Partial days round up to a full night
	halfDay := date("2024-01-01").Add(12 * time.Hour)
	assert.Equal(t, 2, NightCount(date("2024-01-01"), halfDay.AddDate(0, 0, 1)))
}

func TestCreateBooking(t *testing.T) {
	db := newTestDB(t)
	service := NewBookingService(db)

	_, property := seedProperty(t, db, 100)
	student := seedStudent(t, db, "student@example.com")

	booking, err := service.Create(student.ID, property.ID, date("2024-03-01"), date("2024-03-04"))
	require.NoError(t, err)

	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, 300.0, booking.TotalAmount)
	require.NotNil(t, booking.Property)
	assert.Equal(t, property.ID, booking.Property.ID)
}

func TestCreateBookingInvalidRange(t *testing.T) {
	db := newTestDB(t)
	service := NewBookingService(db)

	_, property := seedProperty(t, db, 100)
	student := seedStudent(t, db, "student@example.com")

	_, err := service.Create(student.ID, property.ID, date("2024-03-04"), date("2024-03-01"))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = service.Create(student.ID, property.ID, date("2024-03-04"), date("2024-03-04"))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateBookingPropertyNotFound(t *testing.T) {
	db := newTestDB(t)
	service := NewBookingService(db)

	student := seedStudent(t, db, "student@example.com")

	_, err := service.Create(student.ID, 9999, date("2024-03-01"), date("2024-03-04"))
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestCreateBookingConflictsWithConfirmed(t *testing.T) {
	db := newTestDB(t)
	service := NewBookingService(db)

	owner, property := seedProperty(t, db, 100)
	first := seedStudent(t, db, "first@example.com")
	second := seedStudent(t, db, "second@example.com")

	booking, err := service.Create(first.ID, property.ID, date("2024-03-01"), date("2024-03-04"))
	require.NoError(t, err)

	// A pending booking does not block new requests
	_, err = service.Create(second.ID, property.ID, date("2024-03-02"), date("2024-03-06"))
	require.NoError(t, err)

	_, _, err = service.Approve(owner.ID, booking.ID)
	require.NoError(t, err)

	// A confirmed one does, even on the shared boundary day
	_, err = service.Create(second.ID, property.ID, date("2024-03-04"), date("2024-03-08"))
	assert.ErrorIs(t, err, ErrDatesAlreadyBooked)

	// Disjoint ranges are still fine
	_, err = service.Create(second.ID, property.ID, date("2024-03-05"), date("2024-03-08"))
	require.NoError(t, err)
}

func TestApproveCascadesOverlappingPending(t *testing.T) {
	db := newTestDB(t)
	service := NewBookingService(db)

	owner, property := seedProperty(t, db, 100)
	first := seedStudent(t, db, "first@example.com")
	second := seedStudent(t, db, "second@example.com")
	third := seedStudent(t, db, "third@example.com")

	winner, err := service.Create(first.ID, property.ID, date("2024-03-01"), date("2024-03-04"))
	require.NoError(t, err)
	overlapping, err := service.Create(second.ID, property.ID, date("2024-03-03"), date("2024-03-06"))
	require.NoError(t, err)
	disjoint, err := service.Create(third.ID, property.ID, date("2024-03-10"), date("2024-03-12"))
	require.NoError(t, err)

	confirmed, cascaded, err := service.Approve(owner.ID, winner.ID)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", confirmed.Status)
	require.Len(t, cascaded, 1)
	assert.Equal(t, overlapping.ID, cascaded[0].ID)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, overlapping.ID).Error)
	assert.Equal(t, "already_booked", reloaded.Status)

	reloaded = models.Booking{}
	require.NoError(t, db.First(&reloaded, disjoint.ID).Error)
	assert.Equal(t, "pending", reloaded.Status)
}

func TestApproveAuthorization(t *testing.T) {
	db := newTestDB(t)
	service := NewBookingService(db)

	owner, property := seedProperty(t, db, 100)
	intruder := models.User{Email: "other-owner@example.com", Username: "other", Role: "owner"}
	require.NoError(t, db.Create(&intruder).Error)
	student := seedStudent(t, db, "student@example.com")

	booking, err := service.Create(student.ID, property.ID, date("2024-03-01"), date("2024-03-04"))
	require.NoError(t, err)

	_, _, err = service.Approve(intruder.ID, booking.ID)
	assert.ErrorIs(t, err, ErrNotAllowed)

	_, _, err = service.Approve(owner.ID, 9999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestApproveRequiresPending(t *testing.T) {
	db := newTestDB(t)
	service := NewBookingService(db)

	owner, property := seedProperty(t, db, 100)
	student := seedStudent(t, db, "student@example.com")

	booking, err := service.Create(student.ID, property.ID, date("2024-03-01"), date("2024-03-04"))
	require.NoError(t, err)

	_, _, err = service.Approve(owner.ID, booking.ID)
	require.NoError(t, err)

	_, _, err = service.Approve(owner.ID, booking.ID)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestCancel(t *testing.T) {
	db := newTestDB(t)
	service := NewBookingService(db)

	owner, property := seedProperty(t, db, 100)
	student := seedStudent(t, db, "student@example.com")
	stranger := seedStudent(t, db, "stranger@example.com")

	booking, err := service.Create(student.ID, property.ID, date("2024-03-01"), date("2024-03-04"))
	require.NoError(t, err)

	_, err = service.Cancel(stranger.ID, "student", booking.ID)
	assert.ErrorIs(t, err, ErrNotAllowed)

	cancelled, err := service.Cancel(student.ID, "student", booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	_, err = service.Cancel(student.ID, "student", booking.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	// Owner can reject their own property's bookings
	second, err := service.Create(student.ID, property.ID, date("2024-04-01"), date("2024-04-04"))
	require.NoError(t, err)
	_, err = service.Cancel(owner.ID, "owner", second.ID)
	require.NoError(t, err)

	// Admins can cancel anything
	third, err := service.Create(student.ID, property.ID, date("2024-05-01"), date("2024-05-04"))
	require.NoError(t, err)
	_, err = service.Cancel(777, "admin", third.ID)
	require.NoError(t, err)
}

func TestCancelDoesNotReviveSiblings(t *testing.T) {
	db := newTestDB(t)
	service := NewBookingService(db)

	owner, property := seedProperty(t, db, 100)
	first := seedStudent(t, db, "first@example.com")
	second := seedStudent(t, db, "second@example.com")

	winner, err := service.Create(first.ID, property.ID, date("2024-03-01"), date("2024-03-04"))
	require.NoError(t, err)
	loser, err := service.Create(second.ID, property.ID, date("2024-03-02"), date("2024-03-05"))
	require.NoError(t, err)

	_, _, err = service.Approve(owner.ID, winner.ID)
	require.NoError(t, err)

	_, err = service.Cancel(first.ID, "student", winner.ID)
	require.NoError(t, err)

	var sibling models.Booking
	require.NoError(t, db.First(&sibling, loser.ID).Error)
	assert.Equal(t, "already_booked", sibling.Status)

	_, err = service.Cancel(second.ID, "student", loser.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)
}
