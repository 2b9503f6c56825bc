package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-pos/engine"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type TableController struct {
	Engine *engine.Engine
}

func NewTableController(eng *engine.Engine) *TableController {
	return &TableController{Engine: eng}
}

// GetAllHalls -> list every hall
func (tc *TableController) GetAllHalls(c *gin.Context) {
	halls, err := tc.Engine.ListHalls(c.Request.Context())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of halls", halls)
}

// CreateHall -> add a new hall
func (tc *TableController) CreateHall(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hall, err := tc.Engine.AddHall(c.Request.Context(), req.Name)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	utils.InfoLogger.Printf("Hall created: %s (id=%d)", hall.Name, hall.ID)
	utils.RespondJSON(c, http.StatusCreated, "Hall created", hall)
}

// DeleteHall -> remove a hall and its tables
func (tc *TableController) DeleteHall(c *gin.Context) {
	hallID, ok := parseUintParam(c, "hall_id")
	if !ok {
		return
	}
	if err := tc.Engine.DeleteHall(c.Request.Context(), hallID); err != nil {
		respondEngineError(c, err)
		return
	}

	events.Broadcast(events.EventTableUpdate, gin.H{"hall_id": hallID, "deleted": true})
	utils.RespondJSON(c, http.StatusOK, "Hall deleted", gin.H{"id": hallID})
}

// GetAllTables -> list every table across halls
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Engine.ListTables(c.Request.Context())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTablesByHall -> list the tables of one hall
func (tc *TableController) GetTablesByHall(c *gin.Context) {
	hallID, ok := parseUintParam(c, "hall_id")
	if !ok {
		return
	}
	tables, err := tc.Engine.ListTablesByHall(c.Request.Context(), hallID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable -> add a table to a hall
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		HallID uint   `json:"hall_id" binding:"required"`
		Name   string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Engine.AddTable(c.Request.Context(), req.HallID, req.Name)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table created: %s (hall=%d)", table.Name, table.HallID)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// DeleteTable -> remove a table without open order lines
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID, ok := parseUintParam(c, "table_id")
	if !ok {
		return
	}
	if err := tc.Engine.DeleteTable(c.Request.Context(), tableID); err != nil {
		respondEngineError(c, err)
		return
	}

	events.Broadcast(events.EventTableUpdate, gin.H{"table_id": tableID, "deleted": true})
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": tableID})
}

// UpdateGuests -> set the guest count; a nonzero count occupies the table
func (tc *TableController) UpdateGuests(c *gin.Context) {
	var req struct {
		TableID uint `json:"tableId" binding:"required"`
		Count   int  `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := tc.Engine.SetGuestCount(c.Request.Context(), req.TableID, req.Count); err != nil {
		respondEngineError(c, err)
		return
	}

	table, err := tc.Engine.GetTable(c.Request.Context(), req.TableID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	events.Broadcast(events.EventTableUpdate, table)
	utils.RespondJSON(c, http.StatusOK, "Guest count updated", table)
}

// CloseTable -> abandon the running order and free the table
func (tc *TableController) CloseTable(c *gin.Context) {
	tableID, ok := parseUintParam(c, "table_id")
	if !ok {
		return
	}
	if err := tc.Engine.CloseTable(c.Request.Context(), tableID); err != nil {
		respondEngineError(c, err)
		return
	}

	table, err := tc.Engine.GetTable(c.Request.Context(), tableID)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	events.Broadcast(events.EventTableUpdate, table)
	utils.InfoLogger.Printf("Table %d closed, order discarded", tableID)
	utils.RespondJSON(c, http.StatusOK, "Table closed", table)
}
