package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"earnhub/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: amount too small", service.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: task not found", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: already processed", service.ErrConflict), http.StatusConflict},
		{errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)
		if w.Code != tc.want {
			t.Errorf("respondError(%v) = %d, want %d", tc.err, w.Code, tc.want)
		}
	}

	// internal errors must not leak detail
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("dsn=postgres://secret"))
	if strings.Contains(w.Body.String(), "secret") {
		t.Error("internal error detail leaked to client")
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := getUserID(c); ok {
		t.Error("expected missing user_id to report false")
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", int64(9))
	if id, ok := getUserID(c); !ok || id != 9 {
		t.Errorf("got (%d, %v), want (9, true)", id, ok)
	}
}
