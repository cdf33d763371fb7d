package handlers

import (
	"errors"
	"net/http"

	"earnhub/internal/repository"
	"earnhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	Auth        *service.AuthService
	Referrals   *service.ReferralService
	Tasks       *service.TaskService
	Withdrawals *service.WithdrawalService
	Revenue     *service.RevenueService
	Earnings    *repository.EarningRepository
	Settings    *repository.SettingsRepository
}

func NewHandler(db *pgxpool.Pool, auth *service.AuthService, referrals *service.ReferralService,
	tasks *service.TaskService, withdrawals *service.WithdrawalService, revenue *service.RevenueService,
	settings *repository.SettingsRepository) *Handler {
	return &Handler{
		DB:          db,
		Auth:        auth,
		Referrals:   referrals,
		Tasks:       tasks,
		Withdrawals: withdrawals,
		Revenue:     revenue,
		Earnings:    repository.NewEarningRepository(db),
		Settings:    settings,
	}
}

func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// respondError maps the service failure taxonomy onto HTTP statuses.
// Unknown errors become a generic 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
