package sessions

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booknook-app/booknook/pkg/user"
)

type memSessionRepo struct {
	sessions map[string]*Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*Session)}
}

func (r *memSessionRepo) Add(userID int, sessionID string, exp time.Time) error {
	r.sessions[sessionID] = &Session{ID: sessionID, UserID: userID, Expiration: exp}
	return nil
}

func (r *memSessionRepo) GetUserSession(sessionID string, userID int) (*Session, error) {
	s, ok := r.sessions[sessionID]
	if !ok || s.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (r *memSessionRepo) Destroy(sessionID string) error {
	delete(r.sessions, sessionID)
	return nil
}

func (r *memSessionRepo) DestroyAll(userID int) error {
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func TestCreateTokenRoundTrip(t *testing.T) {
	repo := newMemSessionRepo()
	sm := NewSessionManager("secret", repo)
	usr := &user.User{ID: 7, Name: "Alice", Username: "alice", Role: user.RoleUser}

	token, err := sm.CreateToken(usr)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, repo.sessions, 1)

	got, sessionID, err := sm.UserFromToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.Equal(t, usr.Username, got.Username)
	assert.Contains(t, repo.sessions, sessionID)

	assert.True(t, sm.Validate(token))
}

func TestValidateAfterDestroy(t *testing.T) {
	repo := newMemSessionRepo()
	sm := NewSessionManager("secret", repo)

	token, err := sm.CreateToken(&user.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, sessionID, err := sm.UserFromToken("Bearer " + token)
	require.NoError(t, err)
	require.NoError(t, sm.Destroy(sessionID))

	assert.False(t, sm.Validate(token))
	_, _, err = sm.UserFromToken("Bearer " + token)
	assert.Error(t, err)
}

func TestUserFromTokenRejectsGarbage(t *testing.T) {
	sm := NewSessionManager("secret", newMemSessionRepo())

	_, _, err := sm.UserFromToken("")
	assert.Error(t, err)
	_, _, err = sm.UserFromToken("Bearer not-a-jwt")
	assert.Error(t, err)
	assert.False(t, sm.Validate("not-a-jwt"))
}

func TestUserFromTokenRejectsForeignSignature(t *testing.T) {
	repo := newMemSessionRepo()
	token, err := NewSessionManager("other-secret", repo).CreateToken(&user.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	sm := NewSessionManager("secret", repo)
	_, _, err = sm.UserFromToken("Bearer " + token)
	assert.Error(t, err)
}

func TestCheckExpiredSession(t *testing.T) {
	repo := newMemSessionRepo()
	sm := NewSessionManager("secret", repo)
	require.NoError(t, repo.Add(1, "stale", time.Now().Add(-time.Hour)))

	ok, err := sm.Check(1, "stale")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestCheckProlongsExpiringSession(t *testing.T) {
	repo := newMemSessionRepo()
	sm := NewSessionManager("secret", repo)
	require.NoError(t, repo.Add(1, "soon", time.Now().Add(time.Hour)))

	ok, err := sm.Check(1, "soon")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, repo.sessions["soon"].Expiration.After(time.Now().Add(48*time.Hour)))
}
