package http

import (
	"errors"
	"net/http"
	"strconv"

	"pure-price-press/internal/curator/service"
	"pure-price-press/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BatchHandler handles HTTP requests that trigger batch runs.
type BatchHandler struct {
	batchService *service.BatchService
	logger       *logger.Logger
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService *service.BatchService, logger *logger.Logger) *BatchHandler {
	return &BatchHandler{batchService: batchService, logger: logger}
}

// RegisterRoutes registers the batch routes to the Echo group.
func (h *BatchHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/run", h.RunBatch)
}

// RunBatch triggers one pipeline run and returns its summary. hours_back
// defaults to the configured collection window.
func (h *BatchHandler) RunBatch(c echo.Context) error {
	hoursBack := 0
	if raw := c.QueryParam("hours_back"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid hours_back"})
		}
		hoursBack = parsed
	}

	summary, err := h.batchService.Run(c.Request().Context(), hoursBack)
	if err != nil {
		if errors.Is(err, service.ErrBatchAlreadyRunning) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Batch run failed", logger.ErrorField(err))
		if summary != nil {
			return c.JSON(http.StatusInternalServerError, summary)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, summary)
}
