package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cmdelgado/tip-distribution-service/dto"
	"github.com/cmdelgado/tip-distribution-service/service"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// ExtractReport handles the POST /reports/extract endpoint
func (h *ReportHandler) ExtractReport(c *gin.Context) {
	log.Println("Received report extraction request")

	fileHeader, err := c.FormFile("report")
	if err != nil {
		sendError(c, http.StatusBadRequest, "report file is required", err)
		return
	}

	response, err := h.reportService.ExtractFromUpload(c.Request.Context(), fileHeader)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			sendError(c, http.StatusRequestTimeout, "Report analysis timed out", err)
			return
		}
		sendError(c, http.StatusBadGateway, "Failed to extract report text", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// sendError sends a structured error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "REQUEST_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
