package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/Igsankya24/krishna-tech-solutions/internal/domain/booking"
	"github.com/Igsankya24/krishna-tech-solutions/internal/domain/catalog"
	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
	"github.com/Igsankya24/krishna-tech-solutions/internal/timezone"
	usecase "github.com/Igsankya24/krishna-tech-solutions/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db      *gorm.DB
	reserve *usecase.ReserveSlot
	booked  *usecase.BookedTimes
}

func NewPublicHandler(
	db *gorm.DB,
	reserve *usecase.ReserveSlot,
	booked *usecase.BookedTimes,
) *PublicHandler {
	return &PublicHandler{
		db:      db,
		reserve: reserve,
		booked:  booked,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type ReserveRequest struct {
	AppointmentDate string `json:"appointment_date" binding:"required"` // YYYY-MM-DD
	AppointmentTime string `json:"appointment_time" binding:"required"` // HH:mm
	UserName        string `json:"user_name" binding:"required"`
	UserEmail       string `json:"user_email" binding:"required"`
	UserPhone       string `json:"user_phone"`
	ServiceType     string `json:"service_type"`
	Notes           string `json:"notes"`
}

type ValidateCouponRequest struct {
	Code  string  `json:"code" binding:"required"`
	Price float64 `json:"price"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.
		Where("is_active = true").
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not load services.")
		return
	}

	c.JSON(http.StatusOK, services)
}

////////////////////////////////////////////////////////
// COUPONS
////////////////////////////////////////////////////////

func (h *PublicHandler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Coupon code is required.")
		return
	}
	if req.Price < 0 {
		httperr.BadRequest(c, "invalid_price", "Price cannot be negative.")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var coupon models.Coupon
	if err := h.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.BadRequest(c, "coupon_not_found", "This coupon code does not exist.")
			return
		}
		httperr.Internal(c, "coupon_lookup_failed", "Could not validate the coupon.")
		return
	}

	if err := catalog.CouponUsable(&coupon, timezone.Now()); err != nil {
		switch {
		case httperr.IsBusiness(err, "coupon_inactive"):
			httperr.BadRequest(c, "coupon_inactive", "This coupon is no longer active.")
		case httperr.IsBusiness(err, "coupon_expired"):
			httperr.BadRequest(c, "coupon_expired", "This coupon has expired.")
		default:
			httperr.Internal(c, "coupon_validation_failed", "Could not validate the coupon.")
		}
		return
	}

	resp := gin.H{
		"valid":            true,
		"code":             coupon.Code,
		"discount_percent": coupon.DiscountPercent,
	}
	if req.Price > 0 {
		resp["original_price"] = req.Price
		resp["final_price"] = catalog.DiscountedPrice(req.Price, coupon.DiscountPercent)
	}
	c.JSON(http.StatusOK, resp)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) BookedTimes(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_params", "A date is required.")
		return
	}

	out, err := h.booked.Execute(c.Request.Context(), dateStr)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_date") {
			httperr.BadRequest(c, "invalid_date", "Use the YYYY-MM-DD format.")
			return
		}
		httperr.Internal(c, "availability_failed", "Could not load the day.")
		return
	}

	c.JSON(http.StatusOK, out)
}

////////////////////////////////////////////////////////
// RESERVE
////////////////////////////////////////////////////////

func (h *PublicHandler) Reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Booking details are incomplete.")
		return
	}

	ap, err := h.reserve.Execute(c.Request.Context(), usecase.ReserveSlotInput{
		Date:        req.AppointmentDate,
		Time:        req.AppointmentTime,
		Name:        req.UserName,
		Email:       req.UserEmail,
		Phone:       req.UserPhone,
		ServiceType: req.ServiceType,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "slot_taken"):
			httperr.Conflict(c, "slot_taken", "That time was just taken. Please pick another slot.")
		case httperr.IsBusiness(err, "missing_fields"):
			httperr.BadRequest(c, "missing_fields", "Name and email are required.")
		case httperr.IsBusiness(err, "invalid_date"):
			httperr.BadRequest(c, "invalid_date", "Use the YYYY-MM-DD format.")
		case httperr.IsBusiness(err, "invalid_time"):
			httperr.BadRequest(c, "invalid_time", "Pick one of the offered times.")
		case httperr.IsBusiness(err, "closed_day"):
			httperr.BadRequest(c, "closed_day", "We are closed on that day.")
		case httperr.IsBusiness(err, "past_date"):
			httperr.BadRequest(c, "past_date", "That date has already passed.")
		default:
			httperr.Internal(c, "booking_failed", "Could not complete the booking.")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment": ap,
		"reference":   domain.Reference(ap.ID),
	})
}
