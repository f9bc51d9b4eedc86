package session

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/booknook-app/booknook/pkg/logger"
	"github.com/booknook-app/booknook/pkg/storage"
)

// Event is a session state transition. The manager only reports
// transitions; redirects are performed by whoever listens (pkg/gate).
type Event int

const (
	EventSignedIn Event = iota
	EventSignedOut
)

// Manager owns the client's authentication state: it acquires tokens
// from the remote API, mirrors them into local storage and invalidates
// them on sign-out. It is the only writer of the `session` and `userId`
// keys.
type Manager struct {
	client *resty.Client

	session *storage.State
	userID  *storage.State

	mu         sync.Mutex
	role       Role
	authBusy   bool
	userIDBusy bool

	events chan Event
}

func NewManager(baseURL string, store storage.Store) (*Manager, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("session: can't create cookie jar, %w", err)
	}
	client := resty.New().SetBaseURL(baseURL).SetCookieJar(jar)

	return &Manager{
		client:  client,
		session: storage.NewState(store, storage.KeySession),
		userID:  storage.NewState(store, storage.KeyUserID),
		events:  make(chan Event, 8),
	}, nil
}

// Init starts the one-time load of the persisted session. Loading
// reports true until the read completes; navigation must wait for it.
func (m *Manager) Init(ctx context.Context) {
	go func() {
		m.session.Load(ctx)
		m.userID.Load(ctx)
	}()
}

func (m *Manager) Events() <-chan Event {
	return m.events
}

func (m *Manager) Session() (string, bool) {
	return m.session.Value()
}

func (m *Manager) UserID() (string, bool) {
	return m.userID.Value()
}

// Role of the current token. Known only for sessions established in
// this process; a session restored from storage has no role.
func (m *Manager) Role() Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.role
}

// IsLoading is true while the initial storage read is outstanding or
// an auth operation is in flight.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	busy := m.authBusy
	m.mu.Unlock()
	return busy || m.session.Loading()
}

func (m *Manager) UserIDLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userIDBusy
}

// Watch exposes the change tick of the underlying session state, so
// render loops can react to sign-in/out and to the initial load.
func (m *Manager) Watch() <-chan struct{} {
	return m.session.Watch()
}

// SignIn exchanges credentials for a token and persists it together
// with the user id from the login payload. Failures are reported to
// the caller as *AuthError for display.
func (m *Manager) SignIn(ctx context.Context, username, password string) error {
	if !m.beginAuth() {
		return ErrAuthInFlight
	}
	defer m.endAuth()

	return m.signIn(ctx, username, password)
}

func (m *Manager) signIn(ctx context.Context, username, password string) error {
	body := new(loginResponse)
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(body).
		SetError(&apiError{}).
		Post("/login")
	if err != nil {
		logger.Log(ctx).Errorf("session: failed sending login request, %v", err)
		return &AuthError{Message: "failed to sign in"}
	}
	if resp.IsError() {
		return authError(resp, "failed to sign in")
	}

	token, ok := body.token()
	if !ok {
		return &AuthError{Message: "no valid token found in the response"}
	}

	m.mu.Lock()
	m.role = token.Role
	m.mu.Unlock()

	// State is written only after the response is fully validated. A
	// payload without a user id also drops any id left over from a
	// previous session; the fresh token must not inherit it.
	m.session.Set(&token.Value)
	if id := body.User.ID.String(); id != `` {
		m.userID.Set(&id)
	} else {
		m.userID.Set(nil)
	}

	m.emit(EventSignedIn)
	return nil
}

// SignUp registers an account and, on success, chains into SignIn so
// that registration ends in an authenticated session. A password
// mismatch fails locally with *ValidationError before any network call.
func (m *Manager) SignUp(ctx context.Context, name, username, email, password, confirmPassword string) error {
	if password != confirmPassword {
		return &ValidationError{Message: "passwords do not match"}
	}

	if !m.beginAuth() {
		return ErrAuthInFlight
	}
	defer m.endAuth()

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"name":                  name,
			"username":              username,
			"email":                 email,
			"password":              password,
			"password_confirmation": confirmPassword,
		}).
		SetError(&apiError{}).
		Post("/register")
	if err != nil {
		logger.Log(ctx).Errorf("session: failed sending register request, %v", err)
		return &AuthError{Message: "failed to register"}
	}
	if resp.IsError() {
		return authError(resp, "failed to register")
	}

	return m.signIn(ctx, username, password)
}

// SignOut notifies the server and unconditionally drops the local
// session: ending the local session matters more than the logout call
// succeeding, so its failure is logged and swallowed.
func (m *Manager) SignOut(ctx context.Context) {
	if !m.beginAuth() {
		return
	}
	defer m.endAuth()

	if token, ok := m.session.Value(); ok {
		_, err := m.client.R().
			SetContext(ctx).
			SetAuthToken(token).
			Post("/logout")
		if err != nil {
			logger.Log(ctx).Errorf("session: logout request failed, %v", err)
		}
	}

	m.clearSession()
	m.emit(EventSignedOut)
}

// ValidateToken asks the server whether the held token is still valid.
// With no token held it answers false without a network call; any
// failure also degrades to false.
func (m *Manager) ValidateToken(ctx context.Context) bool {
	token, ok := m.session.Value()
	if !ok {
		return false
	}

	result := struct {
		Valid bool `json:"valid"`
	}{}
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"token": token}).
		SetResult(&result).
		Post("/validate-token")
	if err != nil {
		logger.Log(ctx).Errorf("session: token validation failed, %v", err)
		return false
	}
	if resp.IsError() {
		return false
	}
	return result.Valid
}

// GetUserID resolves the user id for the held token via introspection
// and persists it. No-op without a session; on failure the previous
// value is kept and the error is only logged.
func (m *Manager) GetUserID(ctx context.Context) (string, bool) {
	token, ok := m.session.Value()
	if !ok {
		return ``, false
	}

	m.mu.Lock()
	m.userIDBusy = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.userIDBusy = false
		m.mu.Unlock()
	}()

	body := new(loginResponse)
	resp, err := m.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(body).
		Get("/validate-token")
	if err != nil {
		logger.Log(ctx).Errorf("session: failed fetching user id, %v", err)
		return m.userID.Value()
	}
	if resp.IsError() {
		logger.Log(ctx).Errorf("session: user id lookup rejected with status %d", resp.StatusCode())
		return m.userID.Value()
	}

	id := body.User.ID.String()
	if id == `` {
		logger.Log(ctx).Errorf("session: user id missing in introspection response")
		return m.userID.Value()
	}

	m.userID.Set(&id)
	return id, true
}

// clearSession drops the token and the user id together; one is never
// cleared without the other.
func (m *Manager) clearSession() {
	m.mu.Lock()
	m.role = ``
	m.mu.Unlock()
	m.session.Set(nil)
	m.userID.Set(nil)
}

func (m *Manager) beginAuth() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.authBusy {
		return false
	}
	m.authBusy = true
	return true
}

func (m *Manager) endAuth() {
	m.mu.Lock()
	m.authBusy = false
	m.mu.Unlock()
}

func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

func authError(resp *resty.Response, fallback string) *AuthError {
	if e, ok := resp.Error().(*apiError); ok && e != nil && e.Error != `` {
		return &AuthError{Message: e.Error}
	}
	return &AuthError{Message: fallback}
}
