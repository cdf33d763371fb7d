package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"earnhub/internal/service"

	"github.com/gin-gonic/gin"
)

type fakeBlockChecker struct {
	blocked map[int64]bool
	err     error
}

func (f *fakeBlockChecker) IsBlocked(_ context.Context, userID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.blocked[userID], nil
}

func authRouter(t *testing.T, blocks BlockChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(blocks), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/feed", JWTFromQuery(blocks), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func TestJWTRejectsBlockedUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	service.InitJWT()

	activeToken, err := service.GenerateJWT(1, false)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	blockedToken, err := service.GenerateJWT(2, false)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := authRouter(t, &fakeBlockChecker{blocked: map[int64]bool{2: true}})

	do := func(token string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(activeToken); code != http.StatusOK {
		t.Fatalf("active user: got %d, want 200", code)
	}
	if code := do(blockedToken); code != http.StatusForbidden {
		t.Fatalf("blocked user: got %d, want 403", code)
	}
}

func TestJWTFromQueryRejectsBlockedUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	service.InitJWT()

	blockedToken, err := service.GenerateJWT(7, true)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := authRouter(t, &fakeBlockChecker{blocked: map[int64]bool{7: true}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/feed?token="+blockedToken, nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("blocked user via query token: got %d, want 403", w.Code)
	}
}

func TestJWTBlockCheckFailureAllowsRequest(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	service.InitJWT()

	token, err := service.GenerateJWT(3, false)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := authRouter(t, &fakeBlockChecker{err: errors.New("db down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("checker failure: got %d, want 200", w.Code)
	}
}

func TestJWTRejectsMissingAndGarbageTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	service.InitJWT()

	r := authRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: got %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d, want 401", w.Code)
	}
}
