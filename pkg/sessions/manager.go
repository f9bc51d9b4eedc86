package sessions

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/booknook-app/booknook/pkg/common"
	"github.com/booknook-app/booknook/pkg/user"
)

const sessionTTL = 90 * 24 * time.Hour

type iSessionRepo interface {
	Add(userID int, sessionID string, exp time.Time) error
	GetUserSession(sessionID string, userID int) (*Session, error)
	Destroy(sessionID string) error
	DestroyAll(userID int) error
}

type SessionManager struct {
	secret []byte
	repo   iSessionRepo
}

type jwtClaims struct {
	User user.User `json:"user"`
	jwt.RegisteredClaims
}

func NewSessionManager(secret string, sr iSessionRepo) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		repo:   sr,
	}
}

func (sm *SessionManager) CreateToken(usr *user.User) (string, error) {
	sessionID := common.RandStringRunes(10)
	now := time.Now()
	data := jwtClaims{
		User: *usr,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        sessionID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, data).SignedString(sm.secret)
	if err != nil {
		return ``, err
	}

	if err := sm.repo.Add(usr.ID, sessionID, data.ExpiresAt.Time); err != nil {
		return ``, fmt.Errorf("sessions/manager: can't add session to repo, %w", err)
	}

	return token, nil
}

// UserFromToken returns the logged in user if both the JWT and the
// stored session behind it are valid. The second return value is the
// session id, for handlers that destroy it.
func (sm *SessionManager) UserFromToken(authHeader string) (*user.User, string, error) {
	if authHeader == `` {
		return nil, ``, errors.New("sessions: auth header not found")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := sm.parse(tokenString)
	if err != nil {
		return nil, ``, err
	}

	if _, err := sm.Check(claims.User.ID, claims.ID); err != nil {
		return nil, ``, fmt.Errorf("sessions/manager: session is not valid: %v", err)
	}

	return &claims.User, claims.ID, nil
}

// Validate answers whether a raw token string still maps to a live
// session. Used by the validate-token endpoint; never returns details.
func (sm *SessionManager) Validate(tokenString string) bool {
	claims, err := sm.parse(tokenString)
	if err != nil {
		return false
	}
	ok, err := sm.Check(claims.User.ID, claims.ID)
	return err == nil && ok
}

func (sm *SessionManager) Check(userID int, sessionID string) (bool, error) {
	session, err := sm.repo.GetUserSession(sessionID, userID)
	if err != nil {
		return false, fmt.Errorf("sessions/manager: failed get user session, %w", err)
	}

	now := time.Now()
	if now.After(session.Expiration) {
		return false, errors.New("session has been expired")
	}

	// Prolong sessions expiring in less than 24 hours; we don't want
	// to kick off an active user.
	if session.Expiration.Sub(now) < 24*time.Hour {
		if err := sm.repo.Add(userID, sessionID, now.Add(sessionTTL)); err != nil {
			log.Println("sessions/manager: can't save session to repo", err)
			return false, err
		}
	}

	return true, nil
}

func (sm *SessionManager) Destroy(sessionID string) error {
	return sm.repo.Destroy(sessionID)
}

func (sm *SessionManager) DestroyAll(userID int) error {
	if err := sm.repo.DestroyAll(userID); err != nil {
		return fmt.Errorf("sessions/manager: failed destroying user sessions, %w", err)
	}
	return nil
}

func (sm *SessionManager) parse(tokenString string) (*jwtClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return sm.secret, nil
		})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return nil, errors.New("sessions: can't cast token to claim")
	}
	if !token.Valid {
		return nil, errors.New("sessions: token is not valid")
	}
	return claims, nil
}
