package repository

import (
	"context"
	"errors"

	"uniforum/internal/models"

	"gorm.io/gorm"
)

// TicketRepository defines persistence operations for support tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByID(ctx context.Context, id uint) (*models.Ticket, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Ticket, error)
	List(ctx context.Context, status string, limit, offset int) ([]*models.Ticket, error)
	Update(ctx context.Context, ticket *models.Ticket) error
	Delete(ctx context.Context, id uint) error
}

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository returns a new TicketRepository implementation.
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := readDB(r.db).WithContext(ctx).Preload("User").First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Ticket", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Ticket, error) {
	var tickets []*models.Ticket
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tickets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tickets, nil
}

// List returns tickets across all users, high priority first. Staff only.
func (r *ticketRepository) List(ctx context.Context, status string, limit, offset int) ([]*models.Ticket, error) {
	var tickets []*models.Ticket
	q := readDB(r.db).WithContext(ctx).Preload("User")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.
		Order("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&tickets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tickets, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *models.Ticket) error {
	if err := r.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Ticket{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
