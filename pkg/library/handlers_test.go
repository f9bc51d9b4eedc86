package library

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booknook-app/booknook/pkg/sessions"
	"github.com/booknook-app/booknook/pkg/user"
)

type fakeLibraryService struct {
	loans int
	book  *Book
}

func (s *fakeLibraryService) SearchBooks(context.Context, string) ([]*Book, error) {
	return []*Book{s.book}, nil
}

func (s *fakeLibraryService) GetBook(context.Context, int) (*Book, error) {
	return s.book, nil
}

func (s *fakeLibraryService) UserLoans(context.Context, int, bool) ([]*Loan, error) {
	return []*Loan{{UserID: 7, Book: s.book, LoanedAt: time.Now()}}, nil
}

func (s *fakeLibraryService) AddLoan(_ context.Context, usr *user.User, bookID int) (*Loan, error) {
	s.loans++
	now := time.Now()
	return &Loan{UserID: usr.ID, Book: s.book, LoanedAt: now, DueDate: now.Add(24 * time.Hour)}, nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) GetByID(_ context.Context, id int) (*user.User, error) {
	return &user.User{ID: id, Name: "Alice", Username: "alice"}, nil
}

func authedRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	usr := &user.User{ID: 7, Username: "alice"}
	return r.WithContext(context.WithValue(r.Context(), sessions.SessionKey, usr))
}

func TestAddLoanRejectsBadCardNumber(t *testing.T) {
	svc := &fakeLibraryService{book: &Book{ID: 1, Title: "Dune"}}
	h := NewHandler(svc, fakeUserRepo{})

	// 79927398710 fails the Luhn checksum.
	w := httptest.NewRecorder()
	h.AddLoan(w, authedRequest(http.MethodPost, "/api/v1/loans",
		`{"book_id": 1, "card_number": "79927398710"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, svc.loans)
}

func TestAddLoanAcceptsValidCardNumber(t *testing.T) {
	svc := &fakeLibraryService{book: &Book{ID: 1, Title: "Dune"}}
	h := NewHandler(svc, fakeUserRepo{})

	w := httptest.NewRecorder()
	h.AddLoan(w, authedRequest(http.MethodPost, "/api/v1/loans",
		`{"book_id": 1, "card_number": "79927398713"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, svc.loans)
}

func TestAddLoanRequiresAuth(t *testing.T) {
	svc := &fakeLibraryService{book: &Book{ID: 1}}
	h := NewHandler(svc, fakeUserRepo{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(`{}`))
	h.AddLoan(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, svc.loans)
}

func TestGetUserIncludesLoans(t *testing.T) {
	svc := &fakeLibraryService{book: &Book{ID: 1}}
	h := NewHandler(svc, fakeUserRepo{})

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodGet, "/api/v1/users/7?includeCurrentLoans", "")
	r = withMuxVars(r, map[string]string{"id": "7"})
	h.GetUser(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	resp := struct {
		Data struct {
			ID    int     `json:"id"`
			Loans []*Loan `json:"loans"`
		} `json:"data"`
	}{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 7, resp.Data.ID)
	assert.Len(t, resp.Data.Loans, 1)
}

func withMuxVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}
