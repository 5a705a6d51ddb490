package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Igsankya24/krishna-tech-solutions/internal/audit"
	"github.com/Igsankya24/krishna-tech-solutions/internal/events"
	"github.com/Igsankya24/krishna-tech-solutions/internal/middleware"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

type CouponHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewCouponHandler(db *gorm.DB, auditor *audit.Dispatcher, publisher *events.Publisher) *CouponHandler {
	return &CouponHandler{db: db, audit: auditor, events: publisher}
}

// --------- Requests ---------

type CreateCouponRequest struct {
	Code            string `json:"code" binding:"required"`
	Description     string `json:"description"`
	DiscountPercent int    `json:"discount_percent" binding:"required,min=1,max=100"`
	ExpiresAt       string `json:"expires_at"`
}

type UpdateCouponRequest struct {
	Description     *string `json:"description,omitempty"`
	DiscountPercent *int    `json:"discount_percent,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
	ExpiresAt       *string `json:"expires_at,omitempty"`
}

// parseExpiry accepts RFC 3339 or a bare date; a bare date means end of that
// day so the coupon works for the whole day it names.
func parseExpiry(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	end := t.Add(24*time.Hour - time.Second)
	return &end, nil
}

// --------- Handlers ---------

func (h *CouponHandler) List(c *gin.Context) {
	var coupons []models.Coupon
	if err := h.db.Order("id ASC").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_coupons"})
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *CouponHandler) Create(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_code"})
		return
	}

	expiresAt, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_expiry"})
		return
	}

	var count int64
	h.db.Model(&models.Coupon{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code_already_exists"})
		return
	}

	coupon := models.Coupon{
		Code:            code,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		IsActive:        true,
		ExpiresAt:       expiresAt,
	}

	if err := h.db.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_coupon"})
		return
	}

	h.logChange(c, actorID, "coupon_created", coupon.ID, events.OpCreated)
	c.JSON(http.StatusCreated, coupon)
}

func (h *CouponHandler) Update(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	id := c.Param("id")

	var coupon models.Coupon
	if err := h.db.First(&coupon, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_coupon"})
		return
	}

	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Description != nil {
		coupon.Description = *req.Description
	}
	if req.DiscountPercent != nil {
		if *req.DiscountPercent < 1 || *req.DiscountPercent > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_discount"})
			return
		}
		coupon.DiscountPercent = *req.DiscountPercent
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		expiresAt, err := parseExpiry(*req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_expiry"})
			return
		}
		coupon.ExpiresAt = expiresAt
	}

	if err := h.db.Save(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_coupon"})
		return
	}

	h.logChange(c, actorID, "coupon_updated", coupon.ID, events.OpUpdated)
	c.JSON(http.StatusOK, coupon)
}

func (h *CouponHandler) Delete(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	id := c.Param("id")

	var coupon models.Coupon
	if err := h.db.First(&coupon, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_coupon"})
		return
	}

	if err := h.db.Delete(&coupon).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_coupon"})
		return
	}

	h.logChange(c, actorID, "coupon_deleted", coupon.ID, events.OpDeleted)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *CouponHandler) logChange(c *gin.Context, actorID uuid.UUID, action string, id uint, op string) {
	if h.audit != nil {
		h.audit.Dispatch(audit.Event{
			ActorID:  &actorID,
			Action:   action,
			Entity:   "coupon",
			EntityID: strconv.FormatUint(uint64(id), 10),
		})
	}
	h.events.Publish(c.Request.Context(), events.EntityCoupons, op, strconv.FormatUint(uint64(id), 10))
}
