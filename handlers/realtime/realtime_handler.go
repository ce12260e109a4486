package handlers

import (
	"context"
	"strconv"

	"rendezvous.club/configs/configslog"
	"rendezvous.club/pkg/changefeed"
	"rendezvous.club/pkg/session"
	"rendezvous.club/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RealtimeHandler upgrades a connection to a websocket and relays one
// scoped change-feed subscription over it. The subscription lives exactly
// as long as the socket: its context is cancelled unconditionally when the
// connection closes, whichever side closed it.
type RealtimeHandler struct {
	feed        changefeed.Feed
	chatService services.IChatService
}

func NewRealtimeHandler(feed changefeed.Feed, chatService services.IChatService) *RealtimeHandler {
	return &RealtimeHandler{feed: feed, chatService: chatService}
}

// Upgrade gates the endpoint to websocket requests. The auth middleware has
// already attached the session; keep it in Locals for the socket handler,
// which runs outside the fiber request.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// Subscribe (GET /realtime/:table) streams changes for one table to the
// client. Optional ?filter= narrows the stream to one row group, e.g. a
// conversation id for the messages table.
func (h *RealtimeHandler) Subscribe() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		sess, ok := conn.Locals("session").(session.Context)
		if !ok || sess.IsZero() {
			_ = conn.WriteJSON(fiber.Map{"error": "unauthorized"})
			return
		}
		table := conn.Params("table")
		filter := conn.Query("filter")

		if err := h.authorize(sess, table, &filter); err != nil {
			_ = conn.WriteJSON(fiber.Map{"error": err.Error()})
			return
		}

		// The subscription context ends when this function returns, which
		// releases the consumer group even on abrupt disconnects.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := h.feed.Subscribe(ctx, table, filter)
		if err != nil {
			_ = conn.WriteJSON(fiber.Map{"error": err.Error()})
			return
		}

		// Reads are only needed to observe the close handshake.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		for change := range changes {
			if err := conn.WriteJSON(change); err != nil {
				configslog.Log.Debug("Realtime write failed, closing",
					zap.String("table", table), zap.Uint("user_id", sess.UserID), zap.Error(err))
				return
			}
		}
	})
}

// authorize scopes what each table subscription may see. Filters that
// reference another member's private rows are rejected; tables with
// per-user data get the caller's own filter forced.
func (h *RealtimeHandler) authorize(sess session.Context, table string, filter *string) error {
	switch table {
	case "posts", "events", "gallery_images":
		return nil
	case "notifications":
		// Notifications are always scoped to the caller.
		*filter = strconv.FormatUint(uint64(sess.UserID), 10)
		return nil
	case "messages":
		if *filter == "" {
			return errRealtimeFilterRequired
		}
		if sess.IsAdmin() {
			return nil
		}
		conversationID, err := strconv.ParseUint(*filter, 10, 32)
		if err != nil {
			return errRealtimeBadFilter
		}
		return h.authorizeConversation(sess, uint(conversationID))
	default:
		return errRealtimeUnknownTable
	}
}

func (h *RealtimeHandler) authorizeConversation(sess session.Context, conversationID uint) error {
	conversation, _, err := h.chatService.OpenConversation(context.Background(), sess)
	if err != nil {
		return err
	}
	if conversation.ID != conversationID {
		return errRealtimeForbidden
	}
	return nil
}

// RealtimeError is the typed error set for subscription authorization.
type RealtimeError string

func (e RealtimeError) Error() string { return string(e) }

const (
	errRealtimeUnknownTable   RealtimeError = "unknown table"
	errRealtimeFilterRequired RealtimeError = "filter is required for this table"
	errRealtimeBadFilter      RealtimeError = "invalid filter"
	errRealtimeForbidden      RealtimeError = "not allowed to subscribe to this stream"
)
