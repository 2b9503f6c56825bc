package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-pos/engine"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type OrderController struct {
	Engine *engine.Engine
}

func NewOrderController(eng *engine.Engine) *OrderController {
	return &OrderController{Engine: eng}
}

// AddItem -> append one line to a table's open order. The body carries the
// product snapshot (name, price) so the line survives later menu edits.
func (oc *OrderController) AddItem(c *gin.Context) {
	var req struct {
		TableID     uint    `json:"tableId" binding:"required"`
		ProductID   uint    `json:"productId"`
		ProductName string  `json:"productName" binding:"required"`
		Price       float64 `json:"price"`
		Quantity    int     `json:"quantity" binding:"required"`
		Destination string  `json:"destination"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := oc.Engine.AddLine(c.Request.Context(), req.TableID, req.ProductName, req.Price, req.Quantity, req.Destination)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	table, err := oc.Engine.GetTable(c.Request.Context(), req.TableID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	events.Broadcast(events.EventOrderUpdate, gin.H{"item": item, "table": table})
	utils.InfoLogger.Printf("Order line added: table=%d product=%s qty=%d", req.TableID, req.ProductName, req.Quantity)
	utils.RespondJSON(c, http.StatusCreated, "Item added", item)
}

// GetTableItems -> the table's open order lines in insertion order
func (oc *OrderController) GetTableItems(c *gin.Context) {
	tableID, ok := parseUintParam(c, "table_id")
	if !ok {
		return
	}
	items, err := oc.Engine.ListLines(c.Request.Context(), tableID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table items", items)
}
