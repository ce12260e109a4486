package routes

import (
	member_handlers "rendezvous.club/handlers/member"
	"rendezvous.club/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerMemberRoutes defines everything a signed-in member can reach.
func registerMemberRoutes(app *fiber.App, deps Dependencies) {
	eventHandler := member_handlers.NewEventHandler(deps.EventService, deps.RSVPService)
	paymentHandler := member_handlers.NewPaymentHandler(deps.PaymentService)
	profileHandler := member_handlers.NewProfileHandler(deps.ProfileService, deps.TicketService)
	friendHandler := member_handlers.NewFriendHandler(deps.FriendService)
	feedHandler := member_handlers.NewFeedHandler(deps.PostService)
	chatHandler := member_handlers.NewChatHandler(deps.ChatService)
	galleryHandler := member_handlers.NewGalleryHandler(deps.GalleryService)
	notificationHandler := member_handlers.NewNotificationHandler(deps.NotificationService)

	api := app.Group("/api/v1")
	api.Use(middlewares.NewAuthMiddleware(deps.AuthService))

	// Events and the RSVP lifecycle.
	api.Get("/events", eventHandler.ListEvents)
	api.Get("/events/:id", eventHandler.GetEvent)
	api.Post("/events/:id/rsvp", eventHandler.SubmitRSVP)
	api.Delete("/events/:id/rsvp", eventHandler.CancelRSVP)

	// Checkout for priced events.
	api.Post("/events/:id/payment-intent", paymentHandler.CreateIntent)
	api.Post("/events/:id/payment-confirm", paymentHandler.ConfirmPayment)

	// Own profile, calendar and tickets.
	api.Get("/me", profileHandler.GetMe)
	api.Patch("/me", profileHandler.UpdateMe)
	api.Post("/me/avatar", profileHandler.UploadAvatar)
	api.Post("/me/hero-image", profileHandler.UploadHeroImage)
	api.Get("/me/rsvps", eventHandler.Calendar)
	api.Get("/me/tickets", profileHandler.ListTickets)

	// Other members.
	api.Get("/members/search", profileHandler.SearchMembers)
	api.Get("/members/:id", profileHandler.GetPublicProfile)

	// Friends.
	api.Get("/friends", friendHandler.ListFriends)
	api.Get("/friends/requests", friendHandler.ListPendingRequests)
	api.Post("/friends/requests", friendHandler.SendRequest)
	api.Post("/friends/requests/:id/accept", friendHandler.AcceptRequest)
	api.Post("/friends/requests/:id/decline", friendHandler.DeclineRequest)
	api.Delete("/friends/requests/:id", friendHandler.CancelRequest)

	// Club feed.
	api.Get("/feed", feedHandler.ListFeed)
	api.Get("/feed/:id", feedHandler.GetPost)

	// Concierge chat.
	api.Get("/chat", chatHandler.OpenConversation)
	api.Post("/chat/:id/messages", chatHandler.SendMessage)

	// Gallery.
	api.Get("/gallery", galleryHandler.ListGallery)
	api.Post("/gallery", galleryHandler.UploadImage)

	// Notifications.
	api.Get("/notifications", notificationHandler.ListNotifications)
	api.Get("/notifications/unread-count", notificationHandler.UnreadCount)
	api.Post("/notifications/:id/read", notificationHandler.MarkRead)
	api.Post("/notifications/read-all", notificationHandler.MarkAllRead)
}
