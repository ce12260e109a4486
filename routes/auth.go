package routes

import (
	auth_handlers "rendezvous.club/handlers/auth"
	"rendezvous.club/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, deps Dependencies) {
	authHandler := auth_handlers.NewAuthHandler(deps.AuthService, deps.ProfileService)
	authGroup := app.Group("/auth")

	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	userRoutes := authGroup.Group("")
	userRoutes.Use(middlewares.NewAuthMiddleware(deps.AuthService))
	userRoutes.Get("/me", authHandler.Me)
}
