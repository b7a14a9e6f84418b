package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/StudentNest-ps/studentnest-housing-api/models"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

func buildBookingTestApp(t *testing.T) *iris.Application {
	app := iris.New()
	app.Validator = validator.New()

	verifier := accessTokenMiddleware()

	booking := app.Party("/api/bookings")
	{
		booking.Post("/", verifier, utils.RoleMiddleware("student"), CreateBooking)
		booking.Get("/me", verifier, utils.RoleMiddleware("student"), GetMyBookings)
		booking.Patch("/{id:uint}/approve", verifier, utils.RoleMiddleware("owner"), ApproveBooking)
		booking.Delete("/{id:uint}", verifier, utils.RoleMiddleware("student", "owner", "admin"), CancelBooking)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}
	return app
}

func seedBookingFixtures(t *testing.T, db *gorm.DB) (owner, studentA, studentB models.User, property models.Property) {
	t.Helper()

	owner = models.User{Email: "owner@example.com", Username: "owner", Role: "owner"}
	studentA = models.User{Email: "a@example.com", Username: "a", Role: "student"}
	studentB = models.User{Email: "b@example.com", Username: "b", Role: "student"}
	for _, u := range []*models.User{&owner, &studentA, &studentB} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	property = models.Property{
		OwnerID: owner.ID,
		Title:   "Studio near campus",
		Type:    "apartment",
		Price:   100,
		City:    "Nablus",
		Country: "Palestine",
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return
}

func doJSON(app *iris.Application, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

type bookingResponse struct {
	Message  string         `json:"message"`
	Booking  models.Booking `json:"booking"`
	Cascaded int            `json:"cascaded"`
}

func TestBookingLifecycle(t *testing.T) {
	db := newRouteTestDB(t)
	app := buildBookingTestApp(t)
	owner, studentA, studentB, property := seedBookingFixtures(t, db)

	propertyID := strconv.FormatUint(uint64(property.ID), 10)

	// Student A requests March 1-4
	resp := doJSON(app, http.MethodPost, "/api/bookings", signTestToken(studentA.ID, "student"),
		`{"propertyId": `+propertyID+`, "dateFrom": "2024-03-01", "dateTo": "2024-03-04"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created bookingResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Booking.Status != "pending" {
		t.Fatalf("expected pending booking, got %q", created.Booking.Status)
	}
	if created.Booking.TotalAmount != 300 {
		t.Fatalf("expected total 300 for 3 nights at 100, got %v", created.Booking.TotalAmount)
	}

	// Student B requests an overlapping range; still allowed while pending
	resp = doJSON(app, http.MethodPost, "/api/bookings", signTestToken(studentB.ID, "student"),
		`{"propertyId": `+propertyID+`, "dateFrom": "2024-03-03", "dateTo": "2024-03-06"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for overlapping pending, got %d", resp.Code)
	}
	var sibling bookingResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &sibling); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// Owner approves A's request; B's overlapping one cascades
	approvePath := "/api/bookings/" + strconv.FormatUint(uint64(created.Booking.ID), 10) + "/approve"
	resp = doJSON(app, http.MethodPatch, approvePath, signTestToken(owner.ID, "owner"), "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on approve, got %d: %s", resp.Code, resp.Body.String())
	}
	var approved bookingResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &approved); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if approved.Booking.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %q", approved.Booking.Status)
	}
	if approved.Cascaded != 1 {
		t.Fatalf("expected 1 cascaded booking, got %d", approved.Cascaded)
	}

	var reloaded models.Booking
	if err := db.First(&reloaded, sibling.Booking.ID).Error; err != nil {
		t.Fatalf("reload sibling: %v", err)
	}
	if reloaded.Status != "already_booked" {
		t.Fatalf("expected already_booked sibling, got %q", reloaded.Status)
	}

	// A third request over the confirmed range conflicts
	resp = doJSON(app, http.MethodPost, "/api/bookings", signTestToken(studentB.ID, "student"),
		`{"propertyId": `+propertyID+`, "dateFrom": "2024-03-04", "dateTo": "2024-03-08"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 over confirmed range, got %d", resp.Code)
	}

	// Student cancels their confirmed booking
	deletePath := "/api/bookings/" + strconv.FormatUint(uint64(created.Booking.ID), 10)
	resp = doJSON(app, http.MethodDelete, deletePath, signTestToken(studentA.ID, "student"), "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on cancel, got %d: %s", resp.Code, resp.Body.String())
	}

	// The cascade is never undone by a cancellation
	if err := db.First(&reloaded, sibling.Booking.ID).Error; err != nil {
		t.Fatalf("reload sibling: %v", err)
	}
	if reloaded.Status != "already_booked" {
		t.Fatalf("expected sibling to stay already_booked, got %q", reloaded.Status)
	}
}

func TestBookingRoleGuards(t *testing.T) {
	db := newRouteTestDB(t)
	app := buildBookingTestApp(t)
	owner, studentA, _, property := seedBookingFixtures(t, db)

	propertyID := strconv.FormatUint(uint64(property.ID), 10)
	body := `{"propertyId": ` + propertyID + `, "dateFrom": "2024-03-01", "dateTo": "2024-03-04"}`

	// Owners cannot place bookings
	resp := doJSON(app, http.MethodPost, "/api/bookings", signTestToken(owner.ID, "owner"), body)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for owner create, got %d", resp.Code)
	}

	// Students cannot approve
	resp = doJSON(app, http.MethodPost, "/api/bookings", signTestToken(studentA.ID, "student"), body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var created bookingResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	approvePath := "/api/bookings/" + strconv.FormatUint(uint64(created.Booking.ID), 10) + "/approve"
	resp = doJSON(app, http.MethodPatch, approvePath, signTestToken(studentA.ID, "student"), "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student approve, got %d", resp.Code)
	}

	// Unauthenticated requests never reach the handlers
	resp = doJSON(app, http.MethodPost, "/api/bookings", "", body)
	if resp.Code == http.StatusCreated {
		t.Fatalf("expected rejection without token, got %d", resp.Code)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	db := newRouteTestDB(t)
	app := buildBookingTestApp(t)
	_, studentA, _, property := seedBookingFixtures(t, db)

	propertyID := strconv.FormatUint(uint64(property.ID), 10)
	token := signTestToken(studentA.ID, "student")

	// Reversed range
	resp := doJSON(app, http.MethodPost, "/api/bookings", token,
		`{"propertyId": `+propertyID+`, "dateFrom": "2024-03-04", "dateTo": "2024-03-01"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for reversed range, got %d", resp.Code)
	}

	// Garbage dates
	resp = doJSON(app, http.MethodPost, "/api/bookings", token,
		`{"propertyId": `+propertyID+`, "dateFrom": "March 1st", "dateTo": "2024-03-04"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date format, got %d", resp.Code)
	}

	// Unknown property
	resp = doJSON(app, http.MethodPost, "/api/bookings", token,
		`{"propertyId": 9999, "dateFrom": "2024-03-01", "dateTo": "2024-03-04"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown property, got %d", resp.Code)
	}
}
