package routes

import (
	"rendezvous.club/pkg/changefeed"
	"rendezvous.club/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies carries the externally constructed adapters and the services
// built on them. main wires it once at startup.
type Dependencies struct {
	Feed    changefeed.Feed
	Storage services.IStorageService

	AuthService         services.IAuthService
	ProfileService      services.IProfileService
	EventService        services.IEventService
	RSVPService         services.IRSVPService
	PaymentService      services.IPaymentService
	TicketService       services.ITicketService
	FriendService       services.IFriendService
	PostService         services.IPostService
	ChatService         services.IChatService
	GalleryService      services.IGalleryService
	NotificationService services.INotificationService
	DashboardService    services.IDashboardService
}

// BuildDependencies constructs the service graph on the shared database
// handle and the given adapters.
func BuildDependencies(feed changefeed.Feed, storage services.IStorageService) Dependencies {
	notificationService := services.NewNotificationService(feed)
	return Dependencies{
		Feed:                feed,
		Storage:             storage,
		AuthService:         services.NewAuthService(),
		ProfileService:      services.NewProfileService(storage),
		EventService:        services.NewEventService(),
		RSVPService:         services.NewRSVPService(notificationService),
		PaymentService:      services.NewPaymentService(),
		TicketService:       services.NewTicketService(),
		FriendService:       services.NewFriendService(notificationService),
		PostService:         services.NewPostService(feed),
		ChatService:         services.NewChatService(feed),
		GalleryService:      services.NewGalleryService(storage),
		NotificationService: notificationService,
		DashboardService:    services.NewDashboardService(),
	}
}

// SetupRoutes installs the global middleware and every route group.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())

	registerAuthRoutes(app, deps)
	registerMemberRoutes(app, deps)
	registerDashboardRoutes(app, deps)
	registerRealtimeRoutes(app, deps)

	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "resource not found"})
}
