package server

import (
	"time"

	"uniforum/internal/models"
	"uniforum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAnnouncements handles GET /api/announcements. Public board: active,
// unexpired, featured first.
func (s *Server) GetAnnouncements(c *fiber.Ctx) error {
	announcements, err := s.announcementService.ListAnnouncements(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(announcements)
}

// GetAllAnnouncements handles GET /api/announcements/all (staff)
func (s *Server) GetAllAnnouncements(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	announcements, err := s.announcementService.ListAllAnnouncements(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(announcements)
}

// CreateAnnouncement handles POST /api/announcements (staff)
func (s *Server) CreateAnnouncement(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title     string     `json:"title"`
		Content   string     `json:"content"`
		Featured  bool       `json:"featured"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	announcement, err := s.announcementService.CreateAnnouncement(c.Context(), service.CreateAnnouncementInput{
		StaffID:   userID,
		Title:     req.Title,
		Content:   req.Content,
		Featured:  req.Featured,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(announcement)
}

// UpdateAnnouncement handles PUT /api/announcements/:id (staff)
func (s *Server) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Title     string     `json:"title"`
		Content   string     `json:"content"`
		Featured  *bool      `json:"featured"`
		Active    *bool      `json:"active"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	announcement, updateErr := s.announcementService.UpdateAnnouncement(c.Context(), service.UpdateAnnouncementInput{
		CallerID:       userID,
		AnnouncementID: id,
		Title:          req.Title,
		Content:        req.Content,
		Featured:       req.Featured,
		Active:         req.Active,
		ExpiresAt:      req.ExpiresAt,
	})
	if updateErr != nil {
		return respondServiceError(c, updateErr)
	}

	return c.JSON(announcement)
}

// DeleteAnnouncement handles DELETE /api/announcements/:id (staff)
func (s *Server) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if deleteErr := s.announcementService.DeleteAnnouncement(c.Context(), userID, id); deleteErr != nil {
		return respondServiceError(c, deleteErr)
	}

	return c.JSON(fiber.Map{"message": "Announcement deleted"})
}
