package services

import (
	"context"
	"errors"
	"fmt"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RSVPServiceError is the typed error set of the RSVP lifecycle.
type RSVPServiceError string

func (e RSVPServiceError) Error() string { return string(e) }

const (
	ErrRSVPEventNotFound RSVPServiceError = "event not found"
	ErrRSVPEventNotOpen  RSVPServiceError = "event is not open for RSVPs"
	ErrRSVPEventFull     RSVPServiceError = "event is at capacity"
	ErrRSVPNotFound      RSVPServiceError = "no RSVP exists for this event"
	ErrRSVPInvalidIntent RSVPServiceError = "invalid RSVP intent"
	ErrRSVPFailed        RSVPServiceError = "could not save RSVP"
)

// RSVPIntent is what the member asked for, not the stored status: "attend"
// resolves to confirmed or pending-payment depending on the event price.
type RSVPIntent string

const (
	IntentInterested RSVPIntent = "interested"
	IntentAttend     RSVPIntent = "attend"
)

// RSVPResult is returned by SubmitRSVP so the handler knows whether a
// payment step must follow.
type RSVPResult struct {
	RSVP            *models.EventRSVP `json:"rsvp"`
	PaymentRequired bool              `json:"payment_required"`
}

// IRSVPService decides, for a member's requested intent on an event, which
// status to write and whether payment has to be interposed first.
type IRSVPService interface {
	SubmitRSVP(ctx context.Context, sess session.Context, eventID uint, intent RSVPIntent) (*RSVPResult, error)
	CancelRSVP(ctx context.Context, sess session.Context, eventID uint) error
	GetRSVP(ctx context.Context, sess session.Context, eventID uint) (*models.EventRSVP, error)
	ListMyRSVPs(ctx context.Context, sess session.Context) ([]models.EventRSVP, error)
}

// RSVPService implements IRSVPService.
type RSVPService struct {
	db           *gorm.DB
	rsvpRepo     repositories.IEventRSVPRepository
	eventRepo    repositories.IEventRepository
	profileRepo  repositories.IProfileRepository
	friendRepo   repositories.IFriendRequestRepository
	notifService INotificationService
}

// NewRSVPService builds the service on the shared database handle. The
// notification service is injected so friend-attendance notifications go
// out on the same change feed the websocket handler serves.
func NewRSVPService(notifService INotificationService) IRSVPService {
	return NewRSVPServiceWithDeps(configs.GetDB(), notifService)
}

// NewRSVPServiceWithDB binds the service to an explicit handle with a
// silent notification feed (tests).
func NewRSVPServiceWithDB(db *gorm.DB) IRSVPService {
	return NewRSVPServiceWithDeps(db, NewNotificationServiceWithDB(db))
}

func NewRSVPServiceWithDeps(db *gorm.DB, notifService INotificationService) IRSVPService {
	return &RSVPService{
		db:           db,
		rsvpRepo:     repositories.NewEventRSVPRepositoryTx(db),
		eventRepo:    repositories.NewEventRepositoryTx(db),
		profileRepo:  repositories.NewProfileRepositoryTx(db),
		friendRepo:   repositories.NewFriendRequestRepositoryTx(db),
		notifService: notifService,
	}
}

// SubmitRSVP upserts the member's RSVP for the event.
//
//   - interested        -> status interested, no payment step
//   - attend, free      -> status attending_confirmed
//   - attend, priced    -> status attending_pending_payment; the caller must
//     run the payment flow to reach attending_confirmed
//
// The (event, user) pair is unique: a second call overwrites the previous
// row. requires_payment snapshots the price at first creation and is never
// rewritten. Counters are adjusted in the same transaction.
func (s *RSVPService) SubmitRSVP(ctx context.Context, sess session.Context, eventID uint, intent RSVPIntent) (*RSVPResult, error) {
	if intent != IntentInterested && intent != IntentAttend {
		return nil, fmt.Errorf("%w: %q", ErrRSVPInvalidIntent, intent)
	}

	var result *RSVPResult
	var oldStatus models.RSVPStatus
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := models.ContextWithUserID(ctx, sess.UserID)
		eventRepo := repositories.NewEventRepositoryTx(tx)
		rsvpRepo := repositories.NewEventRSVPRepositoryTx(tx)
		profileRepo := repositories.NewProfileRepositoryTx(tx)

		event, err := eventRepo.FindByIDForUpdate(txCtx, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRSVPEventNotFound
			}
			return err
		}
		if !event.Published || event.Status != models.EventStatusScheduled {
			return ErrRSVPEventNotOpen
		}

		existing, err := rsvpRepo.FindByEventAndUser(txCtx, eventID, sess.UserID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if existing != nil {
			oldStatus = existing.Status
		}

		// A confirmed attendee re-submitting attend keeps their seat as-is.
		// On a priced event this must not fall back to pending-payment: the
		// member has paid, and reopening the payment step would charge again.
		if oldStatus == models.RSVPStatusConfirmed && intent == IntentAttend {
			result = &RSVPResult{RSVP: existing}
			return nil
		}

		newStatus := models.RSVPStatusInterested
		if intent == IntentAttend {
			if event.IsFree() {
				newStatus = models.RSVPStatusConfirmed
			} else {
				newStatus = models.RSVPStatusPendingPayment
			}
		}

		// Capacity applies to confirmed attendance only; a member who is
		// already confirmed re-submitting does not consume a second seat.
		if newStatus == models.RSVPStatusConfirmed &&
			oldStatus != models.RSVPStatusConfirmed &&
			event.Capacity != nil && event.RSVPAttendingCount >= *event.Capacity {
			return ErrRSVPEventFull
		}

		rsvp := existing
		if rsvp == nil {
			rsvp = &models.EventRSVP{
				EventID:         eventID,
				UserID:          sess.UserID,
				RequiresPayment: !event.IsFree(),
			}
		}
		rsvp.Status = newStatus
		rsvp.PaymentCompleted = event.IsFree()

		if err := rsvpRepo.Upsert(txCtx, rsvp); err != nil {
			configslog.Log.Error("RSVP upsert failed",
				zap.Uint("event_id", eventID), zap.Uint("user_id", sess.UserID), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrRSVPFailed, err)
		}

		interestedDelta, attendingDelta := counterDeltas(oldStatus, newStatus)
		if err := eventRepo.AdjustCounters(txCtx, eventID, interestedDelta, attendingDelta); err != nil {
			return err
		}
		if oldStatus != models.RSVPStatusConfirmed && newStatus == models.RSVPStatusConfirmed {
			if err := profileRepo.AdjustEventsAttendedCount(txCtx, sess.UserID, 1); err != nil {
				return err
			}
		}
		if oldStatus == models.RSVPStatusConfirmed && newStatus != models.RSVPStatusConfirmed {
			if err := profileRepo.AdjustEventsAttendedCount(txCtx, sess.UserID, -1); err != nil {
				return err
			}
		}

		result = &RSVPResult{
			RSVP:            rsvp,
			PaymentRequired: newStatus == models.RSVPStatusPendingPayment,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Friend notifications are best-effort and happen outside the
	// transaction; a failure here must not undo the RSVP. Only the
	// transition into confirmed notifies, so re-submits stay silent.
	if result.RSVP.Status == models.RSVPStatusConfirmed && oldStatus != models.RSVPStatusConfirmed {
		s.notifyFriendsOfAttendance(ctx, sess.UserID, eventID)
	}
	return result, nil
}

// CancelRSVP deletes the member's RSVP row for the event. Deletion is the
// cancellation convention; the cancelled status value is never written.
func (s *RSVPService) CancelRSVP(ctx context.Context, sess session.Context, eventID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := models.ContextWithUserID(ctx, sess.UserID)
		rsvpRepo := repositories.NewEventRSVPRepositoryTx(tx)
		eventRepo := repositories.NewEventRepositoryTx(tx)
		profileRepo := repositories.NewProfileRepositoryTx(tx)

		existing, err := rsvpRepo.FindByEventAndUser(txCtx, eventID, sess.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRSVPNotFound
			}
			return err
		}

		if err := rsvpRepo.DeleteByEventAndUser(txCtx, eventID, sess.UserID); err != nil {
			return err
		}

		interestedDelta, attendingDelta := counterDeltas(existing.Status, "")
		if err := eventRepo.AdjustCounters(txCtx, eventID, interestedDelta, attendingDelta); err != nil {
			return err
		}
		if existing.Status == models.RSVPStatusConfirmed {
			if err := profileRepo.AdjustEventsAttendedCount(txCtx, sess.UserID, -1); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *RSVPService) GetRSVP(ctx context.Context, sess session.Context, eventID uint) (*models.EventRSVP, error) {
	rsvp, err := s.rsvpRepo.FindByEventAndUser(ctx, eventID, sess.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRSVPNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

// ListMyRSVPs backs the calendar screen.
func (s *RSVPService) ListMyRSVPs(ctx context.Context, sess session.Context) ([]models.EventRSVP, error) {
	return s.rsvpRepo.ListByUser(ctx, sess.UserID)
}

// counterDeltas maps a status transition to (interested, attending) counter
// deltas. The empty status stands for row absence (no RSVP / deleted).
// Pending-payment RSVPs are counted in neither counter.
func counterDeltas(from, to models.RSVPStatus) (interested, attending int) {
	if from == to {
		return 0, 0
	}
	switch from {
	case models.RSVPStatusInterested:
		interested--
	case models.RSVPStatusConfirmed:
		attending--
	}
	switch to {
	case models.RSVPStatusInterested:
		interested++
	case models.RSVPStatusConfirmed:
		attending++
	}
	return interested, attending
}

// notifyFriendsOfAttendance tells the member's friends they are going, if
// the member shares attendance.
func (s *RSVPService) notifyFriendsOfAttendance(ctx context.Context, userID, eventID uint) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil || !profile.ShareAttendanceWithFriends {
		return
	}
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return
	}
	friendIDs, err := s.friendRepo.ListAcceptedFriendIDs(ctx, userID)
	if err != nil {
		configslog.Log.Warn("Friend attendance notification skipped", zap.Error(err))
		return
	}
	for _, friendID := range friendIDs {
		s.notifService.Notify(ctx, &models.Notification{
			UserID:         friendID,
			Type:           models.NotificationFriendAttends,
			Title:          profile.FullName + " is attending " + event.Title,
			Message:        "Your friend " + profile.Username + " confirmed attendance.",
			RelatedUserID:  &userID,
			RelatedEventID: &eventID,
		})
	}
}

var _ IRSVPService = (*RSVPService)(nil)
