package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/booknook-app/booknook/pkg/common"
	"github.com/booknook-app/booknook/pkg/logger"
)

type iService interface {
	RegUser(ctx context.Context, name, username, email, password, confirmation string) error
	LoginUser(ctx context.Context, username, password string) (token string, usr *User, err error)
}

type Handler struct {
	service iService
}

func NewHandler(s iService) *Handler {
	return &Handler{
		service: s,
	}
}

type registerRequest struct {
	Name                 string `json:"name"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (uh Handler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	req := new(registerRequest)
	if err := common.ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as user: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	err := uh.service.RegUser(r.Context(), req.Name, req.Username, req.Email, req.Password, req.PasswordConfirmation)
	if errors.Is(err, ErrPasswordsDontMatch) {
		common.WriteMsg(w, "passwords do not match", http.StatusUnprocessableEntity)
		return
	}
	if errors.Is(err, ErrUserAlreadyExists) {
		msg := fmt.Sprintf(`user "%s" already exists`, req.Username)
		common.WriteMsg(w, msg, http.StatusConflict)
		return
	}
	if err != nil {
		common.WriteMsg(w, "can't add user", http.StatusInternalServerError)
		return
	}

	common.WriteMsg(w, "registered", http.StatusCreated)
}

func (uh Handler) LogIn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	req := new(loginRequest)
	if err := common.ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as user: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	token, usr, err := uh.service.LoginUser(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrUserNotFound) {
		common.WriteMsg(w, "invalid username or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		common.WriteMsg(w, "user authentication failed", http.StatusInternalServerError)
		return
	}

	// The token field is role-specific: admins get admin_token,
	// everyone else user_token.
	resp := map[string]interface{}{"user": usr}
	if usr.Role == RoleAdmin {
		resp["admin_token"] = token
	} else {
		resp["user_token"] = token
	}

	w.Header().Set("Authorization", `Bearer `+token)
	common.WriteRespJSON(w, resp)
}
