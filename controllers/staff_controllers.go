package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

var errLastAdmin = errors.New("cannot delete the last admin")

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

// Login -> PIN login, returns a JWT. PINs are stored hashed, so the lookup
// compares against each user; staff counts are small enough for that.
func (sc *StaffController) Login(c *gin.Context) {
	var req struct {
		Pin string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var users []models.User
	if err := sc.DB.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for _, user := range users {
		if bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(req.Pin)) == nil {
			token, err := utils.GenerateToken(user.ID, user.Role)
			if err != nil {
				utils.RespondError(c, http.StatusInternalServerError, err)
				return
			}
			utils.InfoLogger.Printf("Staff login: %s (role=%s)", user.Name, user.Role)
			utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
				"token": token,
				"user":  user,
			})
			return
		}
	}

	utils.RespondError(c, http.StatusUnauthorized, errors.New("wrong PIN"))
}

// GetAllUsers -> list staff accounts
func (sc *StaffController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := sc.DB.Order("id ASC").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of users", users)
}

// SaveUser -> create or update a staff account. New PINs must not collide
// with an existing account.
func (sc *StaffController) SaveUser(c *gin.Context) {
	var req struct {
		ID   uint   `json:"id"`
		Name string `json:"name" binding:"required"`
		Pin  string `json:"pin" binding:"required"`
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Pin) < 4 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("PIN must have at least 4 digits"))
		return
	}

	var users []models.User
	if err := sc.DB.Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	for _, user := range users {
		if user.ID != req.ID && bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(req.Pin)) == nil {
			utils.RespondError(c, http.StatusConflict, errors.New("this PIN is already taken"))
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Pin), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		ID:      req.ID,
		Name:    req.Name,
		PinHash: string(hashed),
		Role:    req.Role,
	}
	if err := sc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Staff account saved: %s (role=%s)", user.Name, user.Role)
	utils.RespondJSON(c, http.StatusOK, "User saved", user)
}

// DeleteUser -> remove a staff account; the last admin cannot be deleted
func (sc *StaffController) DeleteUser(c *gin.Context) {
	userID, ok := parseUintParam(c, "user_id")
	if !ok {
		return
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
		if user.Role == models.RoleAdmin {
			var admins int64
			if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return errLastAdmin
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
		} else if errors.Is(err, errLastAdmin) {
			utils.RespondError(c, http.StatusConflict, err)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User deleted", gin.H{"id": userID})
}
