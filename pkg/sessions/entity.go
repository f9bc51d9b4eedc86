package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/booknook-app/booknook/pkg/user"
)

type sessionKey string

const SessionKey sessionKey = "authenticatedUser"

var ErrNoAuth = errors.New("sessions: no session found")

type Session struct {
	ID         string
	UserID     int
	Expiration time.Time
}

func GetAuthUser(ctx context.Context) (*user.User, error) {
	usr, ok := ctx.Value(SessionKey).(*user.User)
	if !ok || usr == nil {
		return nil, ErrNoAuth
	}
	return usr, nil
}
