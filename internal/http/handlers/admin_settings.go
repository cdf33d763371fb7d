package handlers

import (
	"net/http"

	"earnhub/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.Settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type UpdateSettingsRequest struct {
	ReferralSignupBonus *int64 `json:"referral_signup_bonus"`
	MinWithdrawalAmount *int64 `json:"min_withdrawal_amount"`
	VideoRatePerMinute  *int64 `json:"video_rate_per_minute"`
}

// UpdateSettings partially updates the tenant settings row; omitted
// fields keep their current values.
func (h *Handler) UpdateSettings(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	settings, err := h.Settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if req.ReferralSignupBonus != nil {
		if *req.ReferralSignupBonus < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "referral_signup_bonus cannot be negative"})
			return
		}
		settings.ReferralSignupBonus = *req.ReferralSignupBonus
	}
	if req.MinWithdrawalAmount != nil {
		if *req.MinWithdrawalAmount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_withdrawal_amount cannot be negative"})
			return
		}
		settings.MinWithdrawalAmount = *req.MinWithdrawalAmount
	}
	if req.VideoRatePerMinute != nil {
		settings.VideoRatePerMinute = *req.VideoRatePerMinute
	}
	settings.UpdatedBy = &adminID

	if err := h.Settings.Update(c.Request.Context(), domain.AppSettings{
		ReferralSignupBonus: settings.ReferralSignupBonus,
		MinWithdrawalAmount: settings.MinWithdrawalAmount,
		VideoRatePerMinute:  settings.VideoRatePerMinute,
		UpdatedBy:           settings.UpdatedBy,
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
