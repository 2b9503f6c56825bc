package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type KitchenController struct {
	DB *gorm.DB
}

func NewKitchenController(db *gorm.DB) *KitchenController {
	return &KitchenController{DB: db}
}

// GetAllKitchens -> list preparation stations
func (kc *KitchenController) GetAllKitchens(c *gin.Context) {
	var kitchens []models.Kitchen
	if err := kc.DB.Order("id ASC").Find(&kitchens).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of kitchens", kitchens)
}

// SaveKitchen -> create or update a preparation station
func (kc *KitchenController) SaveKitchen(c *gin.Context) {
	var req struct {
		ID          uint   `json:"id"`
		Name        string `json:"name" binding:"required"`
		PrinterIP   string `json:"printer_ip"`
		PrinterPort int    `json:"printer_port"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.PrinterPort == 0 {
		req.PrinterPort = 9100
	}

	kitchen := models.Kitchen{
		ID:          req.ID,
		Name:        req.Name,
		PrinterIP:   req.PrinterIP,
		PrinterPort: req.PrinterPort,
	}
	if err := kc.DB.Save(&kitchen).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen saved", kitchen)
}

// DeleteKitchen -> remove a station; products routed to it lose the tag
func (kc *KitchenController) DeleteKitchen(c *gin.Context) {
	kitchenID, ok := parseUintParam(c, "kitchen_id")
	if !ok {
		return
	}

	err := kc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("destination = ?", strconv.FormatUint(uint64(kitchenID), 10)).
			Update("destination", "").Error; err != nil {
			return err
		}
		return tx.Delete(&models.Kitchen{}, kitchenID).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen deleted", gin.H{"id": kitchenID})
}
