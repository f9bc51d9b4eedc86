package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/booknook-app/booknook/pkg/logger"
	"github.com/booknook-app/booknook/pkg/sessions"
	"github.com/booknook-app/booknook/pkg/user"
)

type (
	IUserRepo interface {
		GetByID(context.Context, int) (*user.User, error)
	}
	ISessionManager interface {
		UserFromToken(string) (*user.User, string, error)
	}
	Auth struct {
		UserRepo       IUserRepo
		SessionManager ISessionManager
		noAuthUrls     map[string]struct{}
	}
)

func NewAuthMiddleware(sm ISessionManager, ur IUserRepo, noAuthUrls map[string]struct{}) *Auth {
	return &Auth{
		UserRepo:       ur,
		SessionManager: sm,
		noAuthUrls:     noAuthUrls,
	}
}

func (auth Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.noAuthUrls[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		userFromToken, _, err := auth.SessionManager.UserFromToken(r.Header.Get("Authorization"))
		if err != nil {
			logger.Log(r.Context()).Errorf("can't get user from token: %v", err)
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		repoCtx, repoCtxCancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer repoCtxCancel()
		usr, err := auth.UserRepo.GetByID(repoCtx, userFromToken.ID)
		if err != nil {
			logger.Log(r.Context()).Errorf("auth: can't get the user from repo: %v", err)
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), sessions.SessionKey, usr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
