package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CreateBlogRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateBlog registers a blog shell so revenue can be tracked against it.
// Content itself is managed elsewhere.
func (h *Handler) CreateBlog(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	blog, err := h.Revenue.CreateBlog(c.Request.Context(), userID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blog)
}

type WatchTimeRequest struct {
	Minutes int64 `json:"minutes" binding:"required"`
}

// RecordWatchTime credits the caller for watched video minutes at the
// configured per-minute rate.
func (h *Handler) RecordWatchTime(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req WatchTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minutes is required"})
		return
	}

	amount, err := h.Revenue.RecordWatchTime(c.Request.Context(), userID, req.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"minutes": req.Minutes, "amount": amount})
}

type BlogRevenueRequest struct {
	AdRevenue int64 `json:"ad_revenue" binding:"required"`
}

// UpdateBlogRevenue records a new cumulative ad revenue figure for a blog
// and credits the author the difference.
func (h *Handler) UpdateBlogRevenue(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blog id"})
		return
	}

	var req BlogRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ad_revenue is required"})
		return
	}

	blog, err := h.Revenue.UpdateBlogRevenue(c.Request.Context(), id, req.AdRevenue)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

// MarkOrderDelivered finalizes a paid order and credits the vendor's
// commission.
func (h *Handler) MarkOrderDelivered(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.Revenue.MarkOrderDelivered(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
