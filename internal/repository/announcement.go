package repository

import (
	"context"
	"errors"
	"time"

	"uniforum/internal/cache"
	"uniforum/internal/models"

	"gorm.io/gorm"
)

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	ListActive(ctx context.Context) ([]*models.Announcement, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Announcement, error)
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id uint) error
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository returns a new AnnouncementRepository implementation.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if err := r.db.WithContext(ctx).Create(announcement).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAnnouncements(ctx)
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := readDB(r.db).WithContext(ctx).Preload("Staff").First(&announcement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Announcement", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &announcement, nil
}

// ListActive returns the public board: active, unexpired announcements with
// featured ones first. Cached briefly since the board is read on every page
// load.
func (r *announcementRepository) ListActive(ctx context.Context) ([]*models.Announcement, error) {
	var announcements []*models.Announcement

	err := cache.Aside(ctx, cache.AnnouncementsKey, &announcements, cache.AnnouncementsTTL, func() error {
		err := readDB(r.db).WithContext(ctx).
			Preload("Staff").
			Where("active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", time.Now()).
			Order("featured DESC, created_at DESC").
			Find(&announcements).Error
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return announcements, nil
}

func (r *announcementRepository) ListAll(ctx context.Context, limit, offset int) ([]*models.Announcement, error) {
	var announcements []*models.Announcement
	err := readDB(r.db).WithContext(ctx).
		Preload("Staff").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&announcements).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return announcements, nil
}

func (r *announcementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	if err := r.db.WithContext(ctx).Save(announcement).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAnnouncements(ctx)
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Announcement{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAnnouncements(ctx)
	return nil
}
