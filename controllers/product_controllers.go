package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

// GetAllProducts -> denormalized product listing with category and kitchen
// names resolved
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	pc.listProducts(c, false)
}

// GetActiveProducts -> orderable products only (the LAN menu view)
func (pc *ProductController) GetActiveProducts(c *gin.Context) {
	pc.listProducts(c, true)
}

func (pc *ProductController) listProducts(c *gin.Context, activeOnly bool) {
	q := pc.DB.Model(&models.Product{}).
		Select("products.*, categories.name AS category_name, kitchens.name AS kitchen_name").
		Joins("LEFT JOIN categories ON products.category_id = categories.id").
		Joins("LEFT JOIN kitchens ON products.destination = CAST(kitchens.id AS CHAR)").
		Order("products.id ASC")
	if activeOnly {
		q = q.Where("products.is_active = ?", true)
	}

	var products []models.ProductView
	if err := q.Scan(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}

// CreateProduct -> add a product to the menu
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req struct {
		CategoryID  *uint   `json:"category_id"`
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price"`
		Destination string  `json:"destination"`
		Image       string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrNegativePrice)
		return
	}

	product := models.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		Destination: req.Destination,
		Image:       req.Image,
		IsActive:    true,
	}
	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.Broadcast(events.EventCatalogUpdate, product)
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

// UpdateProduct -> edit a menu item. Running orders and archived sales hold
// snapshots, so price edits only affect future lines.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}
	var req struct {
		CategoryID  *uint   `json:"category_id"`
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price"`
		Destination string  `json:"destination"`
		Image       string  `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price < 0 {
		utils.RespondError(c, http.StatusBadRequest, ErrNegativePrice)
		return
	}

	res := pc.DB.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]interface{}{
		"category_id": req.CategoryID,
		"name":        req.Name,
		"price":       req.Price,
		"destination": req.Destination,
		"image":       req.Image,
	})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, gorm.ErrRecordNotFound)
		return
	}

	events.Broadcast(events.EventCatalogUpdate, gin.H{"product_id": productID})
	utils.RespondJSON(c, http.StatusOK, "Product updated", gin.H{"id": productID})
}

// ToggleProductStatus -> activate or deactivate a product on the menu
func (pc *ProductController) ToggleProductStatus(c *gin.Context) {
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := pc.DB.Model(&models.Product{}).Where("id = ?", productID).Update("is_active", *req.IsActive)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, gorm.ErrRecordNotFound)
		return
	}

	events.Broadcast(events.EventCatalogUpdate, gin.H{"product_id": productID, "is_active": *req.IsActive})
	utils.RespondJSON(c, http.StatusOK, "Product status updated", gin.H{"id": productID, "is_active": *req.IsActive})
}

// DeleteProduct -> remove a product from the menu. Order lines and sales
// keep their own snapshots, so history is unaffected.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	res := pc.DB.Delete(&models.Product{}, productID)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, gorm.ErrRecordNotFound)
		return
	}

	events.Broadcast(events.EventCatalogUpdate, gin.H{"product_id": productID, "deleted": true})
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"id": productID})
}
