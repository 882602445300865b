package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cmdelgado/tip-distribution-service/dto"
	"github.com/cmdelgado/tip-distribution-service/service"
)

type TipHandler struct {
	tipService *service.TipService
}

func NewTipHandler(tipService *service.TipService) *TipHandler {
	return &TipHandler{
		tipService: tipService,
	}
}

// Calculate handles the POST /tips/calculate endpoint
func (h *TipHandler) Calculate(c *gin.Context) {
	var request dto.CalculateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sendError(c, http.StatusBadRequest, "invalid calculation request", err)
		return
	}

	response, err := h.tipService.Calculate(&request)
	if err != nil {
		sendError(c, statusFor(err), "calculation failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Reallocate handles the POST /tips/reallocate endpoint
func (h *TipHandler) Reallocate(c *gin.Context) {
	var request dto.ReallocateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sendError(c, http.StatusBadRequest, "invalid reallocation request", err)
		return
	}

	response, err := h.tipService.Reallocate(&request)
	if err != nil {
		sendError(c, statusFor(err), "reallocation failed", err)
		return
	}

	if len(response.ShortPartners) > 0 {
		log.Printf("Reallocation left %d partner(s) short", len(response.ShortPartners))
	}
	c.JSON(http.StatusOK, response)
}

// CalculateHoliday handles the POST /tips/holiday endpoint
func (h *TipHandler) CalculateHoliday(c *gin.Context) {
	var request dto.HolidayRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sendError(c, http.StatusBadRequest, "invalid holiday split request", err)
		return
	}

	response, err := h.tipService.CalculateHoliday(&request)
	if err != nil {
		sendError(c, statusFor(err), "holiday calculation failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// statusFor maps the known validation errors to 400s; anything else is a
// server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrInvalidTotalCash),
		errors.Is(err, dto.ErrInvalidTotalHours),
		errors.Is(err, dto.ErrNegativeBillCount):
		return http.StatusBadRequest
	case errors.Is(err, dto.ErrNoCalculation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
