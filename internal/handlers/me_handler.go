package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/middleware"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
		return
	}

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_not_found"})
		return
	}

	var roles []string
	_ = h.db.Model(&models.UserRole{}).Where("user_id = ?", userID).Pluck("role", &roles).Error

	var permissions []string
	_ = h.db.Model(&models.UserPermission{}).Where("user_id = ?", userID).Pluck("permission", &permissions).Error

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
		},
		"profile": gin.H{
			"full_name": profile.FullName,
			"phone":     profile.Phone,
			"approved":  profile.IsApproved,
		},
		"roles":       roles,
		"permissions": permissions,
	})
}
