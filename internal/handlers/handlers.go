package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stockfolio/internal/analytics"
	"stockfolio/internal/database"
	"stockfolio/internal/models"
	"stockfolio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store is the persistence the handlers need.
type Store interface {
	AddHolding(ctx context.Context, userID, symbol string, quantity int64) (int64, error)
	GetHoldings(ctx context.Context, userID string) ([]models.Holding, error)
	GetPortfolio(ctx context.Context, userID string) ([]database.PortfolioItem, decimal.Decimal, error)
	UpsertPrice(ctx context.Context, symbol string, price decimal.Decimal, ts time.Time) error
	UpsertSecurity(ctx context.Context, s models.Security) error
	GetSecurity(ctx context.Context, symbol string) (models.Security, error)
}

type Handler struct {
	repo       Store
	accessor   service.Accessor
	analytics  *service.AnalyticsService
	windowDays int
	log        *logrus.Logger
}

func NewHandler(r Store, a service.Accessor, svc *service.AnalyticsService, windowDays int, log *logrus.Logger) *Handler {
	return &Handler{repo: r, accessor: a, analytics: svc, windowDays: windowDays, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	r.POST("/holdings", h.PostHolding)
	r.GET("/portfolio/:userId", h.GetPortfolio)
	r.GET("/analytics/:userId", h.GetAnalytics)

	r.POST("/prices", h.PostPrice)
	r.PUT("/securities/:symbol", h.PutSecurity)
	r.GET("/stocks/:symbol", h.GetStock)
}

type HoldingRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Symbol   string `json:"symbol" binding:"required"`
	Quantity int64  `json:"quantity"`
}

func (h *Handler) PostHolding(c *gin.Context) {
	var req HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid holding body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// validated the same way the analytics portfolio validates holdings
	if _, err := (analytics.Portfolio{}).AddHolding(req.Symbol, req.Quantity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": analytics.Explain(err)})
		return
	}
	symbol := analytics.NormalizeTicker(req.Symbol)

	total, err := h.repo.AddHolding(c.Request.Context(), req.UserID, symbol, req.Quantity)
	if err != nil {
		h.log.Errorf("add holding failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "add holding failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": req.UserID, "symbol": symbol, "quantity": total})
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	userId := c.Param("userId")
	items, total, err := h.repo.GetPortfolio(c.Request.Context(), userId)
	if err != nil {
		h.log.Errorf("get portfolio failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total_value": total.StringFixed(4)})
}

type PriceRequest struct {
	Symbol    string    `json:"symbol" binding:"required"`
	Price     string    `json:"price" binding:"required"`
	Timestamp time.Time `json:"timestamp" binding:"required"`
}

func (h *Handler) PostPrice(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid price body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || !price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a positive number"})
		return
	}
	symbol := analytics.NormalizeTicker(req.Symbol)
	if err := h.repo.UpsertPrice(c.Request.Context(), symbol, price, req.Timestamp); err != nil {
		h.log.Errorf("record price failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "record failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"symbol": symbol, "price": price.StringFixed(4), "timestamp": req.Timestamp})
}

func (h *Handler) PutSecurity(c *gin.Context) {
	var sec models.Security
	if err := c.ShouldBindJSON(&sec); err != nil {
		h.log.Warnf("invalid security body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sec.Symbol = analytics.NormalizeTicker(c.Param("symbol"))
	if sec.Symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": analytics.Explain(analytics.ErrInvalidTicker)})
		return
	}
	if err := h.repo.UpsertSecurity(c.Request.Context(), sec); err != nil {
		h.log.Errorf("upsert security failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, sec)
}

// GetStock returns a security's description and its recent closes.
func (h *Handler) GetStock(c *gin.Context) {
	symbol := analytics.NormalizeTicker(c.Param("symbol"))
	ctx := c.Request.Context()

	sec, err := h.repo.GetSecurity(ctx, symbol)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol"})
		return
	}
	if err != nil {
		h.log.Errorf("get security failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	w := service.TrailingWindow(time.Now(), h.windowDays)
	history, err := h.accessor.FetchHistory(ctx, symbol, w)
	if err != nil {
		h.log.Warnf("history for %s unavailable: %v", symbol, err)
		history = analytics.PriceSeries{}
	}
	c.JSON(http.StatusOK, gin.H{"company": sec, "history": history})
}
