package services

import (
	"context"

	"rendezvous.club/models"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"gorm.io/gorm"
)

// ITicketService serves the member's ticket wallet.
type ITicketService interface {
	ListMine(ctx context.Context, sess session.Context) ([]models.Ticket, error)
}

type TicketService struct {
	repo repositories.ITicketRepository
}

func NewTicketService() ITicketService {
	return &TicketService{repo: repositories.NewTicketRepository()}
}

func NewTicketServiceWithDB(db *gorm.DB) ITicketService {
	return &TicketService{repo: repositories.NewTicketRepositoryTx(db)}
}

func (s *TicketService) ListMine(ctx context.Context, sess session.Context) ([]models.Ticket, error) {
	return s.repo.ListByUser(ctx, sess.UserID)
}

var _ ITicketService = (*TicketService)(nil)
