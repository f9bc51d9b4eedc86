package sessions

import (
	"net/http"

	"github.com/booknook-app/booknook/pkg/common"
	"github.com/booknook-app/booknook/pkg/logger"
	"github.com/booknook-app/booknook/pkg/user"
)

type iManager interface {
	UserFromToken(authHeader string) (*user.User, string, error)
	Validate(tokenString string) bool
	Destroy(sessionID string) error
}

type Handler struct {
	manager iManager
}

func NewHandler(m iManager) *Handler {
	return &Handler{
		manager: m,
	}
}

// LogOut destroys the session behind the bearer token. The client
// drops its local session either way, so a missing or dead token is
// still a 200.
func (h Handler) LogOut(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	_, sessionID, err := h.manager.UserFromToken(r.Header.Get("Authorization"))
	if err != nil {
		logger.Log(r.Context()).Errorf("sessions: logout with invalid token, %v", err)
		common.WriteMsg(w, "logged out", http.StatusOK)
		return
	}

	if err := h.manager.Destroy(sessionID); err != nil {
		logger.Log(r.Context()).Errorf("sessions: can't destroy session, %v", err)
		common.WriteMsg(w, "user logout failed", http.StatusInternalServerError)
		return
	}

	common.WriteMsg(w, "logged out", http.StatusOK)
}

// ValidateToken checks the token passed in the request body.
func (h Handler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	req := struct {
		Token string `json:"token"`
	}{}
	if err := common.ParseReqBody(r.Body, &req); err != nil {
		logger.Log(r.Context()).Errorf("sessions: can't parse validate request, %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	common.WriteRespJSON(w, map[string]bool{"valid": h.manager.Validate(req.Token)})
}

// Introspect resolves the bearer token to its user, for clients that
// hold a session but lost the user id.
func (h Handler) Introspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	usr, _, err := h.manager.UserFromToken(r.Header.Get("Authorization"))
	if err != nil {
		logger.Log(r.Context()).Errorf("sessions: introspection failed, %v", err)
		common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
		return
	}

	common.WriteRespJSON(w, map[string]*user.User{"user": usr})
}
