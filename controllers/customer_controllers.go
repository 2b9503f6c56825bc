package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/engine"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type CustomerController struct {
	DB     *gorm.DB
	Engine *engine.Engine
}

func NewCustomerController(db *gorm.DB, eng *engine.Engine) *CustomerController {
	return &CustomerController{DB: db, Engine: eng}
}

// GetAllCustomers -> list customers
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := cc.DB.Order("id ASC").Find(&customers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

// CreateCustomer -> add a customer; debt always starts at zero
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req struct {
		Name     string     `json:"name" binding:"required"`
		Phone    string     `json:"phone"`
		Type     string     `json:"type"`
		Value    int        `json:"value"`
		Birthday *time.Time `json:"birthday"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer := models.Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		Type:     "standard",
		Value:    req.Value,
		Birthday: req.Birthday,
	}
	if req.Type != "" {
		customer.Type = req.Type
	}

	if err := cc.DB.Create(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Customer created: %s (id=%d)", customer.Name, customer.ID)
	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

// UpdateCustomer -> edit contact and loyalty fields. Debt is not
// writable here; only the debt ledger mutates it.
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	customerID, ok := parseUintParam(c, "customer_id")
	if !ok {
		return
	}
	var req struct {
		Name     string     `json:"name" binding:"required"`
		Phone    string     `json:"phone"`
		Type     string     `json:"type"`
		Value    int        `json:"value"`
		Birthday *time.Time `json:"birthday"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{
		"name":     req.Name,
		"phone":    req.Phone,
		"value":    req.Value,
		"birthday": req.Birthday,
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	res := cc.DB.Model(&models.Customer{}).Where("id = ?", customerID).Updates(updates)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, gorm.ErrRecordNotFound)
		return
	}

	var customer models.Customer
	if err := cc.DB.First(&customer, customerID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer updated", customer)
}

// DeleteCustomer -> remove a customer
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	customerID, ok := parseUintParam(c, "customer_id")
	if !ok {
		return
	}

	res := cc.DB.Delete(&models.Customer{}, customerID)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, gorm.ErrRecordNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer deleted", gin.H{"id": customerID})
}

// GetDebtors -> customers with outstanding debt
func (cc *CustomerController) GetDebtors(c *gin.Context) {
	debtors, err := cc.Engine.ListDebtors(c.Request.Context())
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Debtors", debtors)
}

// GetDebtHistory -> a customer's debt ledger, newest first
func (cc *CustomerController) GetDebtHistory(c *gin.Context) {
	customerID, ok := parseUintParam(c, "customer_id")
	if !ok {
		return
	}
	entries, err := cc.Engine.ListHistory(c.Request.Context(), customerID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Debt history", entries)
}

// AddDebt -> record a manual debt against a customer
func (cc *CustomerController) AddDebt(c *gin.Context) {
	cc.recordDebtEntry(c, models.DebtEntryDebt)
}

// PayDebt -> record a repayment from a customer
func (cc *CustomerController) PayDebt(c *gin.Context) {
	cc.recordDebtEntry(c, models.DebtEntryPayment)
}

func (cc *CustomerController) recordDebtEntry(c *gin.Context, entryType string) {
	var req struct {
		CustomerID uint    `json:"customerId" binding:"required"`
		Amount     float64 `json:"amount"`
		Comment    string  `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var err error
	if entryType == models.DebtEntryDebt {
		err = cc.Engine.RecordDebt(c.Request.Context(), req.CustomerID, req.Amount, req.Comment)
	} else {
		err = cc.Engine.RecordPayment(c.Request.Context(), req.CustomerID, req.Amount, req.Comment)
	}
	if err != nil {
		respondEngineError(c, err)
		return
	}

	var customer models.Customer
	if err := cc.DB.First(&customer, req.CustomerID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.Broadcast(events.EventDebtUpdate, customer)
	utils.InfoLogger.Printf("Debt ledger: customer=%d type=%s amount=%.2f", req.CustomerID, entryType, req.Amount)
	utils.RespondJSON(c, http.StatusOK, "Debt ledger updated", customer)
}
