package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/netdesk/internal/api/dto"
	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/service"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// TicketsHandler manages the ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	feedback *service.FeedbackService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, feedbackService *service.FeedbackService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, feedback: feedbackService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Create(c.Context(), p.User, service.CreateTicketInput{
		IssueDescription: req.IssueDescription,
		IssueCategoryID:  req.IssueCategoryID,
		AddressID:        req.AddressID,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "ticket created", dto.NewTicketResponse(ticket, h.tickets.Band(ticket)))
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	input, err := parseListQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.List(c.Context(), p.User, input)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i], h.tickets.Band(&tickets[i])))
	}
	return respond(c, http.StatusOK, "tickets", items)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Get(c.Context(), p.User, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "ticket", dto.NewTicketResponse(ticket, h.tickets.Band(ticket)))
}

// ClassifyTicket PATCH /tickets/:id/classify.
func (h *TicketsHandler) ClassifyTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ClassifyTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	severity, err := domain.ParseSeverity(req.Severity)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	ticket, err := h.tickets.Classify(c.Context(), p.User, id, severity, priority, req.SLAID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "ticket classified", dto.NewTicketResponse(ticket, h.tickets.Band(ticket)))
}

// AssignTicket PATCH /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EngineerID <= 0 {
		return apperrors.NewValidationError("engineer_id required", nil)
	}
	ticket, err := h.tickets.Assign(c.Context(), p.User, id, req.EngineerID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "ticket assigned", dto.NewTicketResponse(ticket, h.tickets.Band(ticket)))
}

// ChangeStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseTicketStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	ticket, err := h.tickets.ChangeStatus(c.Context(), p.User, id, status)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "status updated", dto.NewTicketResponse(ticket, h.tickets.Band(ticket)))
}

// StartWork PATCH /tickets/:id/start.
func (h *TicketsHandler) StartWork(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.StartWork(c.Context(), p.User, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "work started", dto.NewTicketResponse(ticket, h.tickets.Band(ticket)))
}

// ReopenTicket PATCH /tickets/:id/reopen.
func (h *TicketsHandler) ReopenTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Reopen(c.Context(), p.User, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "ticket reopened", dto.NewTicketResponse(ticket, h.tickets.Band(ticket)))
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.tickets.Delete(c.Context(), p.User, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "ticket deleted", nil)
}

// ListAssignments GET /tickets/:id/assignments.
func (h *TicketsHandler) ListAssignments(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.tickets.ListAssignments(c.Context(), p.User, id)
	if err != nil {
		return err
	}
	items := make([]dto.AssignmentResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewAssignmentResponse(entry))
	}
	return respond(c, http.StatusOK, "assignment history", items)
}

// SubmitFeedback POST /tickets/:id/feedback.
func (h *TicketsHandler) SubmitFeedback(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	feedback, err := h.feedback.Submit(c.Context(), p.User, id, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "feedback submitted", dto.NewFeedbackResponse(feedback))
}

// GetFeedback GET /tickets/:id/feedback.
func (h *TicketsHandler) GetFeedback(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	feedback, err := h.feedback.Get(c.Context(), p.User, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "feedback", dto.NewFeedbackResponse(feedback))
}

func parseListQuery(c *fiber.Ctx) (service.ListInput, error) {
	input := service.ListInput{
		AssignedToMe: c.Query("assigned_to_me") == "true",
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := domain.ParseTicketStatus(part)
			if err != nil {
				return input, apperrors.NewValidationError(err.Error(), nil)
			}
			input.Statuses = append(input.Statuses, status)
		}
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return input, apperrors.NewValidationError("invalid category_id", nil)
		}
		input.CategoryID = &id
	}
	input.Limit = c.QueryInt("limit", 0)
	input.Offset = c.QueryInt("offset", 0)
	return input, nil
}
