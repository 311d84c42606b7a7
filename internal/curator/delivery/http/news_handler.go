package http

import (
	"errors"
	"net/http"
	"time"

	"pure-price-press/internal/curator/dto"
	"pure-price-press/internal/curator/repository"
	"pure-price-press/internal/curator/service"
	"pure-price-press/pkg/logger"
	"pure-price-press/pkg/utils"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const displayQueryLimit = 200

// NewsHandler handles read requests for digests and curated news.
type NewsHandler struct {
	curatedRepo repository.CuratedNewsRepository
	digestRepo  repository.DailyDigestRepository
	logger      *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(curatedRepo repository.CuratedNewsRepository, digestRepo repository.DailyDigestRepository, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{curatedRepo: curatedRepo, digestRepo: digestRepo, logger: logger}
}

// RegisterRoutes registers the read routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/digests/:date", h.GetDigestByDate)
	g.GET("/news", h.GetDisplayableNews)
}

// GetDigestByDate returns the digest for one calendar date (YYYY-MM-DD).
func (h *NewsHandler) GetDigestByDate(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	digest, err := h.digestRepo.FindByDate(c.Request().Context(), date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "No digest for this date"})
		}
		h.logger.Error("Failed to get digest", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get digest"})
	}

	return c.JSON(http.StatusOK, digest)
}

// GetDisplayableNews returns curated items currently within their display
// window, highest effective score first.
func (h *NewsHandler) GetDisplayableNews(c echo.Context) error {
	items, err := h.curatedRepo.FindDisplayable(c.Request().Context(), displayQueryLimit)
	if err != nil {
		h.logger.Error("Failed to get displayable news", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get news"})
	}

	now := utils.TimeNowUTC()
	out := make([]dto.DisplayNewsItem, 0, len(items))
	for _, item := range items {
		if item.FirstSeenAt == nil {
			continue
		}
		if !service.ShouldDisplay(*item.FirstSeenAt, item.EffectiveScore, item.IsPinned, now) {
			continue
		}

		label, color := service.ScoreLabel(item.EffectiveScore)
		view := dto.DisplayNewsItem{
			ID:              item.ID,
			Title:           item.Title,
			URL:             item.URL,
			Source:          item.Source,
			Region:          item.Region,
			Category:        item.Category,
			PublishedAt:     item.PublishedAt,
			SourceCount:     item.SourceCount,
			AISummary:       item.AISummary,
			AffectedSymbols: item.AffectedSymbols,
			ImpactDirection: item.ImpactDirection,
			EffectiveScore:  item.EffectiveScore,
			ScoreLabel:      label,
			ScoreColor:      color,
			ReportingDays:   item.ReportingDays,
			IsPinned:        item.IsPinned,
		}
		if remaining, limited := service.RemainingDisplayTime(*item.FirstSeenAt, item.EffectiveScore, item.IsPinned, now); limited {
			seconds := int64(remaining.Seconds())
			view.RemainingSeconds = &seconds
		}
		out = append(out, view)
	}

	return c.JSON(http.StatusOK, out)
}
