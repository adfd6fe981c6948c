package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"salon-booking-server/internal/catalogue"
	"salon-booking-server/internal/utils"
)

// CatalogueHandler serves the salon's service list and price edits.
type CatalogueHandler struct {
	Catalogue *catalogue.Catalogue
}

func NewCatalogueHandler(cat *catalogue.Catalogue) *CatalogueHandler {
	return &CatalogueHandler{Catalogue: cat}
}

// ServiceView is a catalogue entry with its advertised price.
type ServiceView struct {
	catalogue.Service
	DisplayPrice string `json:"displayPrice,omitempty"`
}

// SetPriceRequest represents the request body for editing a price.
type SetPriceRequest struct {
	Price     *int64 `json:"price" validate:"required,gte=0"`
	PriceFrom bool   `json:"priceFrom"`
}

func (h *CatalogueHandler) GetServices(c *gin.Context) {
	services := h.Catalogue.List()
	out := make([]ServiceView, len(services))
	for i, s := range services {
		out[i] = ServiceView{Service: s, DisplayPrice: s.DisplayPrice()}
	}
	utils.Success(c, "Services retrieved successfully", out)
}

func (h *CatalogueHandler) SetServicePrice(c *gin.Context) {
	var req SetPriceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	svc, err := h.Catalogue.SetPrice(c.Param("id"), *req.Price, req.PriceFrom)
	if err != nil {
		if errors.Is(err, catalogue.ErrUnknownService) {
			utils.NotFound(c, err.Error())
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}
	utils.Success(c, "Price updated successfully", ServiceView{Service: svc, DisplayPrice: svc.DisplayPrice()})
}
