package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/netdesk/internal/api/dto"
	"github.com/spec-kit/netdesk/internal/service"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// AddressHandler manages customer service addresses.
type AddressHandler struct {
	service *service.AddressService
}

// NewAddressHandler constructs handler.
func NewAddressHandler(addressService *service.AddressService) *AddressHandler {
	return &AddressHandler{service: addressService}
}

// CreateAddress POST /address.
func (h *AddressHandler) CreateAddress(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ownerID := p.User.ID
	if req.UserID != 0 {
		ownerID = req.UserID
	}
	address, err := h.service.Create(c.Context(), p.User, ownerID, addressInput(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "address created", dto.NewAddressResponse(address))
}

// UpdateAddress PUT /address/:id.
func (h *AddressHandler) UpdateAddress(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	address, err := h.service.Update(c.Context(), p.User, id, addressInput(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "address updated", dto.NewAddressResponse(address))
}

// DeleteAddress DELETE /address/:id.
func (h *AddressHandler) DeleteAddress(c *fiber.Ctx) error {
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
	return respond(c, http.StatusOK, "address deleted", nil)
}

// ListAddresses GET /address.
func (h *AddressHandler) ListAddresses(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userID := p.User.ID
	if raw := c.Query("user_id"); raw != "" {
		id, perr := paramQueryID(raw)
		if perr != nil {
			return perr
		}
		userID = id
	}
	addresses, err := h.service.ListByUser(c.Context(), p.User, userID)
	if err != nil {
		return err
	}
	items := make([]dto.AddressResponse, 0, len(addresses))
	for i := range addresses {
		items = append(items, dto.NewAddressResponse(&addresses[i]))
	}
	return respond(c, http.StatusOK, "addresses", items)
}

func addressInput(req dto.AddressRequest) service.AddressInput {
	return service.AddressInput{
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
}
