package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-pos/engine"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type SaleController struct {
	Engine *engine.Engine
}

func NewSaleController(eng *engine.Engine) *SaleController {
	return &SaleController{Engine: eng}
}

// Checkout -> finalize a table: archive the sale, record credit debt if
// applicable, clear the order and free the table, all atomically.
func (sc *SaleController) Checkout(c *gin.Context) {
	var req struct {
		TableID       uint              `json:"tableId" binding:"required"`
		Subtotal      float64           `json:"subtotal"`
		Discount      float64           `json:"discount"`
		Total         float64           `json:"total"`
		PaymentMethod string            `json:"paymentMethod" binding:"required"`
		CustomerID    *uint             `json:"customerId"`
		Items         []models.SaleItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sale, err := sc.Engine.Checkout(c.Request.Context(), engine.CheckoutInput{
		TableID:       req.TableID,
		Subtotal:      req.Subtotal,
		Discount:      req.Discount,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		CustomerID:    req.CustomerID,
		Lines:         req.Items,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	events.Broadcast(events.EventSaleCompleted, sale)
	if table, err := sc.Engine.GetTable(c.Request.Context(), req.TableID); err == nil {
		events.Broadcast(events.EventTableUpdate, table)
	}
	utils.InfoLogger.Printf("Checkout: table=%d total=%.2f method=%s receipt=%s",
		req.TableID, sale.TotalAmount, sale.PaymentMethod, sale.ReceiptNo)
	utils.RespondJSON(c, http.StatusCreated, "Checkout complete", sale)
}

// GetSales -> archived sales, newest first; optional inclusive date range
// via start/end query params (RFC 3339 or YYYY-MM-DD).
func (sc *SaleController) GetSales(c *gin.Context) {
	from, _, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	to, dateOnly, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	// A date-only end bound means "through that whole day". An explicit
	// RFC 3339 timestamp is honored as given.
	if to != nil && dateOnly {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	sales, err := sc.Engine.QuerySales(c.Request.Context(), from, to)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sales", sales)
}

func parseDateQuery(c *gin.Context, name string) (t *time.Time, dateOnly, ok bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false, true
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, false, true
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return &parsed, true, true
	}
	utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s date, expected RFC 3339 or YYYY-MM-DD", name))
	return nil, false, false
}
