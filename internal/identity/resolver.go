package identity

import (
	"context"
	"net/http"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

// SessionStore issues and checks anonymous session keys.
type SessionStore interface {
	Create(ctx context.Context) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type Resolver struct {
	store      SessionStore
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewResolver(store SessionStore, cookieName string, ttl time.Duration, secure bool) *Resolver {
	return &Resolver{
		store:      store,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
	}
}

// Resolve returns the owner key for r. Authenticated requests resolve to the
// user. Anonymous requests reuse a known session cookie or get a freshly
// minted session key, which is written back to w as a cookie.
func (res *Resolver) Resolve(w http.ResponseWriter, r *http.Request) (OwnerKey, error) {
	ctx := r.Context()
	if key, ok := res.Peek(r); ok {
		return key, nil
	}

	key, err := res.store.Create(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to mint session key", zap.Error(err))
		return OwnerKey{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     res.cookieName,
		Value:    key,
		Path:     "/",
		MaxAge:   int(res.ttl.Seconds()),
		HttpOnly: true,
		Secure:   res.secure,
		SameSite: http.SameSiteLaxMode,
	})

	logger.FromCtx(ctx).Debug("minted session key")
	return Session(key), nil
}

// Peek resolves the owner key without minting a session.
func (res *Resolver) Peek(r *http.Request) (OwnerKey, bool) {
	ctx := r.Context()
	if userID, ok := utils.GetUserIDFromContext(ctx); ok {
		return User(userID), true
	}

	cookie, err := r.Cookie(res.cookieName)
	if err != nil || cookie.Value == "" {
		return OwnerKey{}, false
	}

	ok, err := res.store.Exists(ctx, cookie.Value)
	if err != nil {
		logger.FromCtx(ctx).Warn("session lookup failed", zap.Error(err))
		return OwnerKey{}, false
	}
	if !ok {
		return OwnerKey{}, false
	}

	return Session(cookie.Value), true
}
