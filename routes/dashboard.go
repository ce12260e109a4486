package routes

import (
	handlers "rendezvous.club/handlers/dashboard"
	"rendezvous.club/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerDashboardRoutes defines the staff-only management surface.
func registerDashboardRoutes(app *fiber.App, deps Dependencies) {
	homeHandler := handlers.NewHomeHandler(deps.DashboardService)
	eventHandler := handlers.NewEventHandler(deps.EventService)
	postHandler := handlers.NewPostHandler(deps.PostService)
	galleryHandler := handlers.NewGalleryHandler(deps.GalleryService)

	dashboardGroup := app.Group("/api/v1/dashboard")
	dashboardGroup.Use(
		middlewares.NewAuthMiddleware(deps.AuthService),
		middlewares.RequireAdmin(),
	)

	dashboardGroup.Get("/stats", homeHandler.Stats)
	dashboardGroup.Get("/members/recent", homeHandler.RecentMembers)
	dashboardGroup.Patch("/members/:id/status", homeHandler.SetMemberStatus)

	dashboardGroup.Get("/events", eventHandler.ListEvents)
	dashboardGroup.Post("/events", eventHandler.CreateEvent)
	dashboardGroup.Put("/events/:id", eventHandler.UpdateEvent)
	dashboardGroup.Post("/events/:id/publish", eventHandler.PublishEvent)

	dashboardGroup.Post("/posts", postHandler.CreatePost)
	dashboardGroup.Post("/posts/:id/publish", postHandler.PublishPost)

	dashboardGroup.Post("/gallery/:id/publish", galleryHandler.PublishImage)
}
