package service

import (
	"context"
	"strings"
	"time"

	"uniforum/internal/models"
	"uniforum/internal/repository"
)

// AnnouncementService manages the official notice board. Writes are staff
// only; the active board is public.
type AnnouncementService struct {
	announcementRepo repository.AnnouncementRepository
	isStaff          func(ctx context.Context, userID uint) (bool, error)
}

type CreateAnnouncementInput struct {
	StaffID   uint
	Title     string
	Content   string
	Featured  bool
	ExpiresAt *time.Time
}

type UpdateAnnouncementInput struct {
	CallerID       uint
	AnnouncementID uint
	Title          string
	Content        string
	Featured       *bool
	Active         *bool
	ExpiresAt      *time.Time
}

func NewAnnouncementService(
	announcementRepo repository.AnnouncementRepository,
	isStaff func(ctx context.Context, userID uint) (bool, error),
) *AnnouncementService {
	return &AnnouncementService{
		announcementRepo: announcementRepo,
		isStaff:          isStaff,
	}
}

func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, in CreateAnnouncementInput) (*models.Announcement, error) {
	staff, err := s.isStaff(ctx, in.StaffID)
	if err != nil {
		return nil, err
	}
	if !staff {
		return nil, models.NewForbiddenError("Staff role required")
	}

	const maxTitleLen = 200

	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if in.ExpiresAt != nil && in.ExpiresAt.Before(time.Now()) {
		return nil, models.NewValidationError("Expiry must be in the future")
	}

	announcement := &models.Announcement{
		StaffID:   in.StaffID,
		Title:     in.Title,
		Content:   in.Content,
		Featured:  in.Featured,
		Active:    true,
		ExpiresAt: in.ExpiresAt,
	}
	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

// ListAnnouncements returns the public board.
func (s *AnnouncementService) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	return s.announcementRepo.ListActive(ctx)
}

// ListAllAnnouncements includes inactive and expired entries. Staff only.
func (s *AnnouncementService) ListAllAnnouncements(ctx context.Context, callerID uint, limit, offset int) ([]*models.Announcement, error) {
	staff, err := s.isStaff(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !staff {
		return nil, models.NewForbiddenError("Staff role required")
	}
	return s.announcementRepo.ListAll(ctx, limit, offset)
}

func (s *AnnouncementService) UpdateAnnouncement(ctx context.Context, in UpdateAnnouncementInput) (*models.Announcement, error) {
	staff, err := s.isStaff(ctx, in.CallerID)
	if err != nil {
		return nil, err
	}
	if !staff {
		return nil, models.NewForbiddenError("Staff role required")
	}

	announcement, err := s.announcementRepo.GetByID(ctx, in.AnnouncementID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		announcement.Title = in.Title
	}
	if in.Content != "" {
		announcement.Content = in.Content
	}
	if in.Featured != nil {
		announcement.Featured = *in.Featured
	}
	if in.Active != nil {
		announcement.Active = *in.Active
	}
	if in.ExpiresAt != nil {
		announcement.ExpiresAt = in.ExpiresAt
	}

	if err := s.announcementRepo.Update(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, callerID, announcementID uint) error {
	staff, err := s.isStaff(ctx, callerID)
	if err != nil {
		return err
	}
	if !staff {
		return models.NewForbiddenError("Staff role required")
	}
	return s.announcementRepo.Delete(ctx, announcementID)
}
