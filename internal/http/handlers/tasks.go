package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CreateTaskRequest struct {
	PostLink string `json:"post_link" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Cost     int64  `json:"cost" binding:"required"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post link, quantity and cost are required"})
		return
	}

	task, err := h.Tasks.CreateTask(c.Request.Context(), userID, req.PostLink, req.Quantity, req.Cost)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.Tasks.ActiveTasks(c.Request.Context(), 100)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

type SubmitTaskRequest struct {
	Proof string `json:"proof" binding:"required"`
}

func (h *Handler) SubmitTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req SubmitTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proof is required"})
		return
	}

	submission, err := h.Tasks.Submit(c.Request.Context(), userID, taskID, req.Proof)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

func (h *Handler) MySubmissions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	submissions, err := h.Tasks.MySubmissions(c.Request.Context(), userID, 100)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissions)
}

func (h *Handler) PendingSubmissions(c *gin.Context) {
	submissions, err := h.Tasks.PendingSubmissions(c.Request.Context(), 100)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissions)
}

func (h *Handler) ApproveSubmission(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	submission, err := h.Tasks.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

type RejectRequest struct {
	AdminNotes string `json:"admin_notes"`
}

func (h *Handler) RejectSubmission(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	submission, err := h.Tasks.Reject(c.Request.Context(), id, req.AdminNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}
