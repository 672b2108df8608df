package main

import (
	"context"
	"os"

	"github.com/DreamGlimmer/movinin-sub000/routes"
	"github.com/DreamGlimmer/movinin-sub000/services"
	"github.com/DreamGlimmer/movinin-sub000/storage"
	"github.com/DreamGlimmer/movinin-sub000/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	storage.InitializeDB()
	storage.InitializeRedis()
	services.InitializePayments()

	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	storage.StartExpirySweeper(sweeperCtx)
	iris.RegisterOnInterrupt(stopSweeper)

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
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

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	api := app.Party("/api")
	{
		// Auth
		api.Post("/sign-up", routes.SignUp)
		api.Post("/admin-sign-up", routes.AdminSignUp)
		api.Post("/sign-in", routes.SignIn)
		api.Post("/refresh-token", refreshTokenVerifierMiddleware, utils.RefreshToken)
		api.Get("/activate/{userId:uint}/{token}", routes.Activate)

		// Users
		api.Get("/user/{id:uint}", accessTokenVerifierMiddleware, routes.GetUser)
		api.Post("/users/{page:int}/{size:int}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.GetUsers)
		api.Post("/delete-users", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.DeleteUsers)

		// Bookings
		api.Post("/booking", accessTokenVerifierMiddleware, utils.AgencyOrAdminMiddleware, routes.CreateBooking)
		api.Post("/book", routes.Checkout)
		api.Put("/booking", accessTokenVerifierMiddleware, utils.AgencyOrAdminMiddleware, routes.UpdateBooking)
		api.Post("/booking-status", accessTokenVerifierMiddleware, utils.AgencyOrAdminMiddleware, routes.UpdateBookingStatus)
		api.Post("/bookings-delete", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.DeleteBookings)
		api.Delete("/temp-booking/{bookingId:uint}/{sessionId}", routes.DeleteTempBooking)
		api.Get("/booking/{id:uint}/{language}", accessTokenVerifierMiddleware, routes.GetBooking)
		api.Post("/bookings/{page:int}/{size:int}/{language}", accessTokenVerifierMiddleware, routes.GetBookings)
		api.Get("/has-bookings/{renter:uint}", accessTokenVerifierMiddleware, routes.HasBookings)
		api.Post("/cancel-booking/{id:uint}", accessTokenVerifierMiddleware, routes.CancelBooking)

		// Notifications
		api.Get("/notification-counter/{userId:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetNotificationCounter)
		api.Get("/notifications/{userId:uint}/{page:int}/{size:int}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetNotifications)
		api.Post("/mark-notifications-as-read/{userId:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.MarkNotificationsAsRead)
		api.Post("/mark-notifications-as-unread/{userId:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.MarkNotificationsAsUnread)
		api.Post("/delete-notifications/{userId:uint}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.DeleteNotifications)

		// Locations
		api.Post("/location", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.CreateLocation)
		api.Get("/location/{id:uint}/{language}", routes.GetLocation)

		// Properties
		api.Post("/property", accessTokenVerifierMiddleware, utils.AgencyOrAdminMiddleware, routes.CreateProperty)
		api.Get("/property/{id:uint}/{language}", routes.GetProperty)
		api.Delete("/property/{id:uint}", accessTokenVerifierMiddleware, utils.AgencyOrAdminMiddleware, routes.DeleteProperty)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4004"
	}

	app.Listen(":" + port)
}
