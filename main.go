package main

import (
	"log"
	"os"

	"github.com/StudentNest-ps/studentnest-housing-api/routes"
	"github.com/StudentNest-ps/studentnest-housing-api/storage"
	"github.com/StudentNest-ps/studentnest-housing-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	app.Post("/api/signup", routes.Register)
	app.Post("/api/login", routes.Login)
	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	general := app.Party("/api/general")
	{
		general.Get("/users", routes.ListUsers)
	}

	property := app.Party("/api/properties")
	{
		property.Get("/", routes.GetProperties)
		property.Get("/{id:uint}", routes.GetProperty)
		property.Post("/", accessTokenVerifierMiddleware, utils.RoleMiddleware("owner"), routes.CreateProperty)
		property.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.RoleMiddleware("owner"), routes.UpdateProperty)
		property.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.RoleMiddleware("owner", "admin"), routes.DeleteProperty)
		property.Get("/{id:uint}/availability", routes.GetPropertyAvailability)
		property.Post("/{id:uint}/block-dates", accessTokenVerifierMiddleware, utils.RoleMiddleware("owner"), routes.BlockPropertyDates)
	}

	booking := app.Party("/api/bookings")
	{
		booking.Post("/", accessTokenVerifierMiddleware, utils.RoleMiddleware("student"), routes.CreateBooking)
		booking.Get("/me", accessTokenVerifierMiddleware, utils.RoleMiddleware("student"), routes.GetMyBookings)
		booking.Get("/owner", accessTokenVerifierMiddleware, utils.RoleMiddleware("owner"), routes.GetOwnerBookings)
		booking.Patch("/{id:uint}/approve", accessTokenVerifierMiddleware, utils.RoleMiddleware("owner"), routes.ApproveBooking)
		booking.Patch("/{id:uint}/reject", accessTokenVerifierMiddleware, utils.RoleMiddleware("owner"), routes.RejectBooking)
		booking.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.RoleMiddleware("student", "owner", "admin"), routes.CancelBooking)
	}

	payment := app.Party("/api/payments")
	{
		payment.Post("/", accessTokenVerifierMiddleware, utils.RoleMiddleware("student"), routes.CreatePayment)
		payment.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdatePayment)
		payment.Get("/history", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetPaymentHistory)
		payment.Get("/owner-history", accessTokenVerifierMiddleware, utils.RoleMiddleware("owner", "admin"), routes.GetOwnerPaymentHistory)
		payment.Get("/invoices/{bookingID:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetInvoice)
	}

	lahza := app.Party("/api/lahza")
	{
		lahza.Post("/initiate/{bookingID:uint}", routes.InitiateLahzaPayment)
		lahza.Post("/webhook", routes.LahzaWebhook)
	}

	messages := app.Party("/api/messages")
	{
		messages.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateMessage)
		messages.Get("/{chatID:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetChatMessages)
	}

	chats := app.Party("/api/chats")
	{
		chats.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListChats)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListNotifications)
		notifications.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateNotification)
		notifications.Put("/{id:uint}/seen", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.MarkNotificationSeen)
	}

	review := app.Party("/api/reviews")
	{
		review.Post("/", accessTokenVerifierMiddleware, utils.RoleMiddleware("student"), routes.CreateReview)
		review.Get("/{propertyID:uint}", routes.ListPropertyReviews)
		review.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.DeleteReview)
	}

	report := app.Party("/api/reports")
	{
		report.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateReport)
		report.Get("/", accessTokenVerifierMiddleware, utils.RoleMiddleware("admin"), routes.ListReports)
	}

	admin := app.Party("/api/admin")
	{
		admin.Get("/properties", routes.AdminListProperties)

		gated := admin.Party("/", accessTokenVerifierMiddleware, utils.RoleMiddleware("admin"))
		gated.Get("/users", routes.AdminListUsers)
		gated.Get("/users/role/{role}", routes.AdminListUsersByRole)
		gated.Post("/users", routes.AdminCreateUser)
		gated.Delete("/users/{id:uint}", routes.AdminDeleteUser)
		gated.Delete("/properties/{id:uint}", routes.AdminDeleteProperty)
		gated.Get("/analytics", routes.AdminAnalytics)
	}

	owner := app.Party("/api/owner", accessTokenVerifierMiddleware, utils.RoleMiddleware("owner"))
	{
		owner.Get("/properties/count", routes.GetOwnerPropertyCount)
		owner.Post("/{ownerID:uint}/properties", routes.OwnerCreateProperty)
		owner.Put("/{ownerID:uint}/properties/{propertyID:uint}", routes.OwnerUpdateProperty)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Println("Server running on port " + port)
	app.Listen(":" + port)
}
