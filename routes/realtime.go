package routes

import (
	realtime_handlers "rendezvous.club/handlers/realtime"
	"rendezvous.club/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerRealtimeRoutes exposes the websocket change-feed endpoint.
// Browsers cannot set websocket headers, so the auth middleware also
// accepts ?token= here.
func registerRealtimeRoutes(app *fiber.App, deps Dependencies) {
	realtimeHandler := realtime_handlers.NewRealtimeHandler(deps.Feed, deps.ChatService)

	realtimeGroup := app.Group("/realtime")
	realtimeGroup.Use(middlewares.NewAuthMiddleware(deps.AuthService))
	realtimeGroup.Use("/:table", realtimeHandler.Upgrade)
	realtimeGroup.Get("/:table", realtimeHandler.Subscribe())
}
