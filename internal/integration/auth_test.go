package integration

import (
	"context"
	"errors"
	"testing"

	"earnhub/internal/repository"
	"earnhub/internal/service"
)

func TestBlockedAccountLifecycle(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	users := repository.NewUserRepository(pool)

	u := registerUser(t, auth, "blockee", "")

	if _, _, err := auth.Login(ctx, u.Username, "secret123"); err != nil {
		t.Fatalf("login before block: %v", err)
	}

	if err := auth.SetUserBlocked(ctx, u.ID, true); err != nil {
		t.Fatalf("block user: %v", err)
	}

	blocked, err := users.IsBlocked(ctx, u.ID)
	if err != nil {
		t.Fatalf("is blocked: %v", err)
	}
	if !blocked {
		t.Fatal("user not marked blocked after SetUserBlocked")
	}

	if _, _, err := auth.Login(ctx, u.Username, "secret123"); !errors.Is(err, service.ErrConflict) {
		t.Fatalf("login while blocked: got %v, want ErrConflict", err)
	}

	if err := auth.SetUserBlocked(ctx, u.ID, false); err != nil {
		t.Fatalf("unblock user: %v", err)
	}
	if _, _, err := auth.Login(ctx, u.Username, "secret123"); err != nil {
		t.Fatalf("login after unblock: %v", err)
	}

	if err := auth.SetUserBlocked(ctx, -1, true); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("block unknown user: got %v, want ErrNotFound", err)
	}
}
