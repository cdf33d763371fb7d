package handlers

import (
	"net/http"
	"strconv"

	"earnhub/internal/domain"

	"github.com/gin-gonic/gin"
)

type WithdrawalRequest struct {
	Amount         int64                 `json:"amount" binding:"required"`
	PaymentMethod  string                `json:"payment_method" binding:"required"`
	AccountDetails domain.AccountDetails `json:"account_details"`
}

func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and payment method are required"})
		return
	}

	withdrawal, err := h.Withdrawals.Request(c.Request.Context(), userID, req.Amount, req.PaymentMethod, req.AccountDetails)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

func (h *Handler) MyWithdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	withdrawals, err := h.Withdrawals.MyWithdrawals(c.Request.Context(), userID, 100)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

func (h *Handler) AllWithdrawals(c *gin.Context) {
	withdrawals, err := h.Withdrawals.AllWithdrawals(c.Request.Context(), c.Query("status"), 200)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawals)
}

func (h *Handler) ApproveWithdrawal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	withdrawal, err := h.Withdrawals.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}

func (h *Handler) RejectWithdrawal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	withdrawal, err := h.Withdrawals.Reject(c.Request.Context(), id, req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, withdrawal)
}
