package service

import (
	"context"
	"strings"

	"uniforum/internal/models"
	"uniforum/internal/repository"
)

// TicketService manages support tickets. Students see only their own
// tickets; staff see and manage the whole queue.
type TicketService struct {
	ticketRepo repository.TicketRepository
	isStaff    func(ctx context.Context, userID uint) (bool, error)
}

type CreateTicketInput struct {
	UserID   uint
	Title    string
	Message  string
	Priority string
}

type UpdateTicketInput struct {
	CallerID uint
	TicketID uint
	Status   string
	Priority string
}

func NewTicketService(
	ticketRepo repository.TicketRepository,
	isStaff func(ctx context.Context, userID uint) (bool, error),
) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		isStaff:    isStaff,
	}
}

func (s *TicketService) CreateTicket(ctx context.Context, in CreateTicketInput) (*models.Ticket, error) {
	const maxTitleLen = 200
	const maxMessageLen = 10000

	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(in.Message) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 10000 characters)")
	}

	priority := in.Priority
	if priority == "" {
		priority = models.TicketPriorityMedium
	}
	if !models.ValidTicketPriority(priority) {
		return nil, models.NewValidationError("Priority must be low, medium or high")
	}

	ticket := &models.Ticket{
		UserID:   in.UserID,
		Title:    in.Title,
		Message:  in.Message,
		Priority: priority,
		Status:   models.TicketStatusOpen,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetTicket returns one ticket. Students can only read their own.
func (s *TicketService) GetTicket(ctx context.Context, callerID, ticketID uint) (*models.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if ticket.UserID != callerID {
		staff, err := s.isStaff(ctx, callerID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, models.NewForbiddenError("You can only view your own tickets")
		}
	}
	return ticket, nil
}

func (s *TicketService) ListMyTickets(ctx context.Context, userID uint, limit, offset int) ([]*models.Ticket, error) {
	return s.ticketRepo.ListByUser(ctx, userID, limit, offset)
}

// ListAllTickets returns the staff queue, optionally filtered by status.
func (s *TicketService) ListAllTickets(ctx context.Context, callerID uint, status string, limit, offset int) ([]*models.Ticket, error) {
	staff, err := s.isStaff(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !staff {
		return nil, models.NewForbiddenError("Staff role required")
	}
	if status != "" && !models.ValidTicketStatus(status) {
		return nil, models.NewValidationError("Status must be open, in_progress or closed")
	}
	return s.ticketRepo.List(ctx, status, limit, offset)
}

// UpdateTicket changes status or priority. Staff only.
func (s *TicketService) UpdateTicket(ctx context.Context, in UpdateTicketInput) (*models.Ticket, error) {
	staff, err := s.isStaff(ctx, in.CallerID)
	if err != nil {
		return nil, err
	}
	if !staff {
		return nil, models.NewForbiddenError("Staff role required")
	}

	ticket, err := s.ticketRepo.GetByID(ctx, in.TicketID)
	if err != nil {
		return nil, err
	}

	if in.Status != "" {
		if !models.ValidTicketStatus(in.Status) {
			return nil, models.NewValidationError("Status must be open, in_progress or closed")
		}
		ticket.Status = in.Status
	}
	if in.Priority != "" {
		if !models.ValidTicketPriority(in.Priority) {
			return nil, models.NewValidationError("Priority must be low, medium or high")
		}
		ticket.Priority = in.Priority
	}

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, callerID, ticketID uint) error {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}

	if ticket.UserID != callerID {
		staff, err := s.isStaff(ctx, callerID)
		if err != nil {
			return err
		}
		if !staff {
			return models.NewForbiddenError("You can only delete your own tickets")
		}
	}

	return s.ticketRepo.Delete(ctx, ticketID)
}
