package library

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/theplant/luhn"

	"github.com/booknook-app/booknook/pkg/common"
	"github.com/booknook-app/booknook/pkg/logger"
	"github.com/booknook-app/booknook/pkg/sessions"
	"github.com/booknook-app/booknook/pkg/user"
)

type iLibraryService interface {
	SearchBooks(ctx context.Context, titleLike string) ([]*Book, error)
	GetBook(ctx context.Context, id int) (*Book, error)
	UserLoans(ctx context.Context, userID int, currentOnly bool) ([]*Loan, error)
	AddLoan(ctx context.Context, usr *user.User, bookID int) (*Loan, error)
}

type iUserRepo interface {
	GetByID(ctx context.Context, id int) (*user.User, error)
}

type Handler struct {
	service iLibraryService
	users   iUserRepo
}

func NewHandler(s iLibraryService, ur iUserRepo) *Handler {
	return &Handler{
		service: s,
		users:   ur,
	}
}

func (h Handler) GetBooks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	books, err := h.service.SearchBooks(r.Context(), r.URL.Query().Get("title[like]"))
	if err != nil {
		common.WriteMsg(w, "can't get books", http.StatusInternalServerError)
		return
	}
	common.WriteRespJSON(w, map[string]interface{}{"data": books})
}

func (h Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		common.WriteMsg(w, "book id must be a number", http.StatusBadRequest)
		return
	}

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		common.WriteMsg(w, "book not found", http.StatusNotFound)
		return
	}
	common.WriteRespJSON(w, map[string]interface{}{"data": book})
}

type userResponse struct {
	*user.User
	Loans []*Loan `json:"loans,omitempty"`
}

// GetUser returns a profile; ?includeCurrentLoans or ?includeLoans
// attaches the user's open or full loan history.
func (h Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		common.WriteMsg(w, "user id must be a number", http.StatusBadRequest)
		return
	}

	usr, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		logger.Log(r.Context()).Errorf("library: can't get user `%d`, %v", id, err)
		common.WriteMsg(w, "user not found", http.StatusNotFound)
		return
	}

	resp := userResponse{User: usr}
	query := r.URL.Query()
	_, includeCurrent := query["includeCurrentLoans"]
	_, includeAll := query["includeLoans"]
	if includeCurrent || includeAll {
		loans, err := h.service.UserLoans(r.Context(), id, includeCurrent)
		if err != nil {
			common.WriteMsg(w, "can't get user loans", http.StatusInternalServerError)
			return
		}
		resp.Loans = loans
	}

	common.WriteRespJSON(w, map[string]interface{}{"data": resp})
}

type loanRequest struct {
	BookID     int    `json:"book_id"`
	CardNumber string `json:"card_number"`
}

// AddLoan checks out a book for the authenticated user. The member
// card number must pass the Luhn checksum before anything is written.
func (h Handler) AddLoan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	usr, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("library: can't get authorized user, %v", err)
		common.WriteMsg(w, "authorization required", http.StatusUnauthorized)
		return
	}

	req := new(loanRequest)
	if err := common.ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Errorf("library: can't parse request body as loan: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	cardNum, err := strconv.Atoi(req.CardNumber)
	if err != nil || !luhn.Valid(cardNum) {
		logger.Log(r.Context()).Errorf("library: card number `%s` validation failed", req.CardNumber)
		common.WriteMsg(w, "card number is not valid", http.StatusUnprocessableEntity)
		return
	}

	loan, err := h.service.AddLoan(r.Context(), usr, req.BookID)
	if errors.Is(err, ErrNoCopiesLeft) {
		common.WriteMsg(w, "no copies of the book left", http.StatusConflict)
		return
	}
	if err != nil {
		common.WriteMsg(w, "can't add loan", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	common.WriteRespJSON(w, map[string]interface{}{"data": loan})
}
