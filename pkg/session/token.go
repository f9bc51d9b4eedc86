package session

import "encoding/json"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Token is the bearer credential issued on login, tagged with the role
// the server issued it for.
type Token struct {
	Role  Role
	Value string
}

type loginResponse struct {
	AdminToken string `json:"admin_token"`
	UserToken  string `json:"user_token"`
	User       struct {
		ID json.Number `json:"id"`
	} `json:"user"`
}

// token picks the credential from a login response. The role-specific
// admin token wins over the generic user token when both are present.
func (r *loginResponse) token() (Token, bool) {
	if r.AdminToken != `` {
		return Token{Role: RoleAdmin, Value: r.AdminToken}, true
	}
	if r.UserToken != `` {
		return Token{Role: RoleUser, Value: r.UserToken}, true
	}
	return Token{}, false
}

type apiError struct {
	Error string `json:"error"`
}
