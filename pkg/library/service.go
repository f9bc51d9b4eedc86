package library

import (
	"context"
	"errors"
	"time"

	"github.com/booknook-app/booknook/pkg/logger"
	"github.com/booknook-app/booknook/pkg/user"
)

const loanPeriod = 21 * 24 * time.Hour

var ErrNoCopiesLeft = errors.New("no copies of the book left")

type iLibraryRepo interface {
	GetBooks(titleLike string) ([]*Book, error)
	GetBook(id int) (*Book, error)
	GetLoans(userID int, currentOnly bool) ([]*Loan, error)
	AddLoan(*Loan) error
}

type service struct {
	repo iLibraryRepo
}

func NewService(r iLibraryRepo) *service {
	return &service{
		repo: r,
	}
}

func (s *service) SearchBooks(ctx context.Context, titleLike string) ([]*Book, error) {
	books, err := s.repo.GetBooks(titleLike)
	if err != nil {
		logger.Log(ctx).Errorf("library: can't get books, %v", err)
		return nil, err
	}
	return books, nil
}

func (s *service) GetBook(ctx context.Context, id int) (*Book, error) {
	book, err := s.repo.GetBook(id)
	if err != nil {
		logger.Log(ctx).Errorf("library: can't get book `%d`, %v", id, err)
		return nil, err
	}
	return book, nil
}

func (s *service) UserLoans(ctx context.Context, userID int, currentOnly bool) ([]*Loan, error) {
	loans, err := s.repo.GetLoans(userID, currentOnly)
	if err != nil {
		logger.Log(ctx).Errorf("library: can't get loans of user `%d`, %v", userID, err)
		return nil, err
	}
	return loans, nil
}

func (s *service) AddLoan(ctx context.Context, usr *user.User, bookID int) (*Loan, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		logger.Log(ctx).Errorf("library: can't get book `%d` for loan, %v", bookID, err)
		return nil, err
	}

	now := time.Now()
	loan := &Loan{
		UserID:   usr.ID,
		Book:     book,
		LoanedAt: now,
		DueDate:  now.Add(loanPeriod),
	}
	if err := s.repo.AddLoan(loan); err != nil {
		if !errors.Is(err, ErrNoCopiesLeft) {
			logger.Log(ctx).Errorf("library: failed adding loan, %v", err)
		}
		return nil, err
	}
	return loan, nil
}
