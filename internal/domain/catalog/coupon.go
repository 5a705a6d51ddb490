package catalog

import (
	"math"
	"time"

	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
	"github.com/Igsankya24/krishna-tech-solutions/internal/models"
)

// CouponUsable reports whether a code can be applied right now. Inactive and
// expired coupons are business errors, not server faults.
func CouponUsable(cp *models.Coupon, now time.Time) error {
	if !cp.IsActive {
		return httperr.ErrBusiness("coupon_inactive")
	}
	if cp.ExpiresAt != nil && now.After(*cp.ExpiresAt) {
		return httperr.ErrBusiness("coupon_expired")
	}
	return nil
}

// DiscountedPrice applies a percentage discount and rounds to cents.
func DiscountedPrice(price float64, percent int) float64 {
	return math.Round(price*(1-float64(percent)/100)*100) / 100
}
