package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"spotrent-server/routes"
	"spotrent-server/storage"
	"spotrent-server/utils"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

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

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/{id}", accessTokenVerifierMiddleware, routes.GetUser)
		user.Patch("/{id}/spots/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterUserSavedSpots)
	}

	spots := app.Party("/api/spots")
	{
		spots.Get("/", routes.GetAllSpots)
		spots.Get("/current", accessTokenVerifierMiddleware, routes.GetCurrentUserSpots)
		spots.Get("/{id}", routes.GetSpot)
		spots.Post("/", accessTokenVerifierMiddleware, routes.CreateSpot)
		spots.Put("/{id}", accessTokenVerifierMiddleware, routes.UpdateSpot)
		spots.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteSpot)
		spots.Post("/{id}/images", accessTokenVerifierMiddleware, routes.AddSpotImage)
		spots.Get("/{id}/reviews", routes.ListSpotReviews)
		spots.Post("/{id}/reviews", accessTokenVerifierMiddleware, routes.CreateSpotReview)
		spots.Get("/{id}/bookings", accessTokenVerifierMiddleware, routes.GetSpotBookings)
		spots.Post("/{id}/bookings", accessTokenVerifierMiddleware, routes.CreateSpotBooking)
	}

	bookings := app.Party("/api/bookings")
	{
		bookings.Get("/current", accessTokenVerifierMiddleware, routes.GetCurrentUserBookings)
		bookings.Put("/{id}", accessTokenVerifierMiddleware, routes.UpdateBooking)
		bookings.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteBooking)
	}

	reviews := app.Party("/api/reviews")
	{
		reviews.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteReview)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notifications.Get("/", routes.ListNotifications)
		notifications.Patch("/read", routes.MarkNotificationsRead)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Println("Starting server on port " + port)
	app.Listen(":" + port)
}
