package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/queryparams"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventServiceError is the typed error set for event management.
type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound      EventServiceError = "event not found"
	ErrEventForbidden     EventServiceError = "not allowed to manage events"
	ErrEventInvalidInput  EventServiceError = "invalid event data"
	ErrEventTitleRequired EventServiceError = "event title is required"
	ErrEventTimeRequired  EventServiceError = "event start and end times are required"
)

// EventDetail is an event together with the caller's RSVP, if any.
type EventDetail struct {
	Event *models.Event     `json:"event"`
	RSVP  *models.EventRSVP `json:"rsvp,omitempty"`
}

// EventInput is the admin create/update payload.
type EventInput struct {
	Title           string    `json:"title" validate:"required,min=3,max=255"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	EndTime         time.Time `json:"end_time" validate:"required"`
	Timezone        string    `json:"timezone"`
	LocationName    string    `json:"location_name"`
	LocationAddress string    `json:"location_address"`
	PriceCents      int64     `json:"price_cents" validate:"gte=0"`
	Capacity        *int      `json:"capacity" validate:"omitempty,gt=0"`
	CoverImageURL   string    `json:"cover_image_url"`
	Category        string    `json:"category"`
	Tags            []string  `json:"tags"`
}

// IEventService serves the member event screens and the admin event
// management operations.
type IEventService interface {
	ListUpcoming(ctx context.Context, search string, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	GetDetail(ctx context.Context, sess session.Context, id uint) (*EventDetail, error)

	// Admin operations.
	CreateEvent(ctx context.Context, sess session.Context, input EventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, sess session.Context, id uint, input EventInput) (*models.Event, error)
	PublishEvent(ctx context.Context, sess session.Context, id uint) error
	ListAll(ctx context.Context, sess session.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
}

// EventService implements IEventService.
type EventService struct {
	repo     repositories.IEventRepository
	rsvpRepo repositories.IEventRSVPRepository
}

func NewEventService() IEventService {
	return NewEventServiceWithDB(configs.GetDB())
}

func NewEventServiceWithDB(db *gorm.DB) IEventService {
	return &EventService{
		repo:     repositories.NewEventRepositoryTx(db),
		rsvpRepo: repositories.NewEventRSVPRepositoryTx(db),
	}
}

func (s *EventService) ListUpcoming(ctx context.Context, search string, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Normalize()
	events, total, err := s.repo.ListUpcomingPublished(ctx, search, params)
	if err != nil {
		configslog.Log.Error("Event listing failed", zap.Error(err))
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: events,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

// GetDetail returns the event plus the caller's RSVP so the client can
// render the correct action buttons without a second round trip.
func (s *EventService) GetDetail(ctx context.Context, sess session.Context, id uint) (*EventDetail, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !event.Published && !sess.IsAdmin() {
		return nil, ErrEventNotFound
	}

	detail := &EventDetail{Event: event}
	rsvp, err := s.rsvpRepo.FindByEventAndUser(ctx, id, sess.UserID)
	if err == nil {
		detail.RSVP = rsvp
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	return detail, nil
}

func validateEventInput(input EventInput) error {
	if input.Title == "" {
		return ErrEventTitleRequired
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return ErrEventTimeRequired
	}
	if input.EndTime.Before(input.StartTime) {
		return fmt.Errorf("%w: end time precedes start time", ErrEventInvalidInput)
	}
	if input.PriceCents < 0 {
		return fmt.Errorf("%w: negative price", ErrEventInvalidInput)
	}
	return nil
}

func (s *EventService) CreateEvent(ctx context.Context, sess session.Context, input EventInput) (*models.Event, error) {
	if !sess.IsAdmin() {
		return nil, ErrEventForbidden
	}
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	currency := "eur"
	if configs.App != nil && configs.App.Currency != "" {
		currency = configs.App.Currency
	}
	event := &models.Event{
		Title:           input.Title,
		Description:     input.Description,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Timezone:        input.Timezone,
		LocationName:    input.LocationName,
		LocationAddress: input.LocationAddress,
		PriceCents:      input.PriceCents,
		Currency:        currency,
		Capacity:        input.Capacity,
		CoverImageURL:   input.CoverImageURL,
		Category:        input.Category,
		Tags:            input.Tags,
		Status:          models.EventStatusScheduled,
		CreatedByUserID: sess.UserID,
	}
	if err := s.repo.Create(models.ContextWithUserID(ctx, sess.UserID), event); err != nil {
		configslog.Log.Error("Event creation failed", zap.String("title", input.Title), zap.Error(err))
		return nil, err
	}
	return event, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, sess session.Context, id uint, input EventInput) (*models.Event, error) {
	if !sess.IsAdmin() {
		return nil, ErrEventForbidden
	}
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	// Repricing does not rewrite requires_payment on existing RSVPs; the
	// snapshot taken at RSVP time stands.
	fields := map[string]interface{}{
		"title":            input.Title,
		"description":      input.Description,
		"start_time":       input.StartTime,
		"end_time":         input.EndTime,
		"timezone":         input.Timezone,
		"location_name":    input.LocationName,
		"location_address": input.LocationAddress,
		"price_cents":      input.PriceCents,
		"capacity":         input.Capacity,
		"cover_image_url":  input.CoverImageURL,
		"category":         input.Category,
		"tags":             input.Tags,
	}
	if err := s.repo.Update(models.ContextWithUserID(ctx, sess.UserID), event, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *EventService) PublishEvent(ctx context.Context, sess session.Context, id uint) error {
	if !sess.IsAdmin() {
		return ErrEventForbidden
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if event.Published {
		return nil
	}
	now := time.Now().UTC()
	return s.repo.Update(models.ContextWithUserID(ctx, sess.UserID), event, map[string]interface{}{
		"published":    true,
		"published_at": &now,
	})
}

func (s *EventService) ListAll(ctx context.Context, sess session.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if !sess.IsAdmin() {
		return nil, ErrEventForbidden
	}
	params.Normalize()
	events, total, err := s.repo.ListAllPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: events,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  total,
			TotalPages:  queryparams.CalculateTotalPages(total, params.PerPage),
		},
	}, nil
}

var _ IEventService = (*EventService)(nil)
