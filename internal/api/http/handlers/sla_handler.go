package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/netdesk/internal/api/dto"
	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/service"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// SLAHandler manages SLA definitions.
type SLAHandler struct {
	service *service.SLAService
}

// NewSLAHandler constructs handler.
func NewSLAHandler(slaService *service.SLAService) *SLAHandler {
	return &SLAHandler{service: slaService}
}

// CreateSLA POST /sla.
func (h *SLAHandler) CreateSLA(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	input, err := parseSLARequest(c)
	if err != nil {
		return err
	}
	sla, err := h.service.Create(c.Context(), p.User, input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "sla created", dto.NewSLAResponse(sla))
}

// UpdateSLA PUT /sla/:id.
func (h *SLAHandler) UpdateSLA(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	input, err := parseSLARequest(c)
	if err != nil {
		return err
	}
	sla, err := h.service.Update(c.Context(), p.User, id, input)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "sla updated", dto.NewSLAResponse(sla))
}

// DeleteSLA DELETE /sla/:id.
func (h *SLAHandler) DeleteSLA(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), p.User, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "sla deleted", nil)
}

// ListSLAs GET /sla.
func (h *SLAHandler) ListSLAs(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	slas, err := h.service.List(c.Context(), p.User)
	if err != nil {
		return err
	}
	items := make([]dto.SLAResponse, 0, len(slas))
	for i := range slas {
		items = append(items, dto.NewSLAResponse(&slas[i]))
	}
	return respond(c, http.StatusOK, "slas", items)
}

func parseSLARequest(c *fiber.Ctx) (service.SLAInput, error) {
	var req dto.SLARequest
	if err := c.BodyParser(&req); err != nil {
		return service.SLAInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	severity, err := domain.ParseSeverity(req.Severity)
	if err != nil {
		return service.SLAInput{}, apperrors.NewValidationError(err.Error(), nil)
	}
	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return service.SLAInput{}, apperrors.NewValidationError(err.Error(), nil)
	}
	return service.SLAInput{
		Severity:    severity,
		Priority:    priority,
		TimeLimitHr: req.TimeLimitHr,
	}, nil
}
