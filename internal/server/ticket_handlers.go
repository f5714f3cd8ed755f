package server

import (
	"uniforum/internal/models"
	"uniforum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTicket handles POST /api/tickets
func (s *Server) CreateTicket(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title    string `json:"title"`
		Message  string `json:"message"`
		Priority string `json:"priority"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ticket, err := s.ticketService.CreateTicket(c.Context(), service.CreateTicketInput{
		UserID:   userID,
		Title:    req.Title,
		Message:  req.Message,
		Priority: req.Priority,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ticket)
}

// GetMyTickets handles GET /api/tickets/me
func (s *Server) GetMyTickets(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	tickets, err := s.ticketService.ListMyTickets(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tickets)
}

// GetAllTickets handles GET /api/tickets. Staff only; the service enforces it.
func (s *Server) GetAllTickets(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	tickets, err := s.ticketService.ListAllTickets(c.Context(), userID, c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tickets)
}

// GetTicket handles GET /api/tickets/:id
func (s *Server) GetTicket(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	ticket, getErr := s.ticketService.GetTicket(c.Context(), userID, id)
	if getErr != nil {
		return respondServiceError(c, getErr)
	}

	return c.JSON(ticket)
}

// UpdateTicket handles PUT /api/tickets/:id (staff: status/priority changes)
func (s *Server) UpdateTicket(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	var req struct {
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ticket, updateErr := s.ticketService.UpdateTicket(c.Context(), service.UpdateTicketInput{
		CallerID: userID,
		TicketID: id,
		Status:   req.Status,
		Priority: req.Priority,
	})
	if updateErr != nil {
		return respondServiceError(c, updateErr)
	}

	return c.JSON(ticket)
}

// DeleteTicket handles DELETE /api/tickets/:id
func (s *Server) DeleteTicket(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uint)

	if deleteErr := s.ticketService.DeleteTicket(c.Context(), userID, id); deleteErr != nil {
		return respondServiceError(c, deleteErr)
	}

	return c.JSON(fiber.Map{"message": "Ticket deleted"})
}
