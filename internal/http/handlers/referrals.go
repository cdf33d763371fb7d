package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// ReferralStats returns the user's code, per-level referral counts and
// per-level commission totals.
func (h *Handler) ReferralStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.Referrals.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	base := os.Getenv("APP_URL")
	if base == "" {
		base = "https://" + c.Request.Host
	}
	stats.Link = base + "/register?ref=" + stats.Code

	c.JSON(http.StatusOK, stats)
}

// MyEarnings returns the user's earning history, optionally filtered by
// type via ?type=referral|task|blog|shop.
func (h *Handler) MyEarnings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	earnings, err := h.Earnings.GetByUserID(c.Request.Context(), userID, c.Query("type"), 100)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, earnings)
}
