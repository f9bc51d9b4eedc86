package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/booknook-app/booknook/pkg/logger"
)

type IRepo interface {
	UserExists(username string) bool
	GetByUsername(username string) (*User, error)
	Add(*User) (int, error)
}

type ISessionManager interface {
	CreateToken(*User) (string, error)
}

type service struct {
	repo IRepo
	sm   ISessionManager
}

var (
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrPasswordsDontMatch  = errors.New("passwords do not match")
	errPasswordHashTooLong = errors.New("password is too long")
)

func NewService(r IRepo, sm ISessionManager) *service {
	return &service{
		repo: r,
		sm:   sm,
	}
}

func (s *service) LoginUser(ctx context.Context, username, password string) (token string, usr *User, err error) {
	usr, err = s.repo.GetByUsername(username)
	if err != nil {
		logger.Log(ctx).Errorf("user: can't get the user by username `%s`, %v", username, err)
		return ``, nil, fmt.Errorf("can't get the user `%s`, %w", username, ErrUserNotFound)
	}

	if err := bcrypt.CompareHashAndPassword(usr.Password, []byte(password)); err != nil {
		logger.Log(ctx).Errorf("user: password check failed for `%s`, %v", username, err)
		return ``, nil, ErrUserNotFound
	}

	token, err = s.sm.CreateToken(usr)
	if err != nil {
		logger.Log(ctx).Errorf("user: can't create token for user `%s`: %v", username, err)
		return ``, nil, err
	}

	return token, usr, nil
}

func (s *service) RegUser(ctx context.Context, name, username, email, password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordsDontMatch
	}

	if s.repo.UserExists(username) {
		logger.Log(ctx).Errorf("user `%s` already exists", username)
		return fmt.Errorf("can't add `%s`, %w", username, ErrUserAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log(ctx).Errorf("user: can't hash password: %v", err)
		return errPasswordHashTooLong
	}

	usr := &User{
		Name:     name,
		Username: username,
		Email:    email,
		Role:     RoleUser,
		Password: hash,
	}
	id, err := s.repo.Add(usr)
	if err != nil {
		logger.Log(ctx).Errorf("user: can't add user to DB: %v", err)
		return err
	}
	usr.ID = id

	return nil
}
