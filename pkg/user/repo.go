package user

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

type Repo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(u *User) (int, error) {
	userID := 0
	err := r.db.QueryRow(
		"INSERT INTO users(name, username, email, role, password) VALUES($1, $2, $3, $4, $5) RETURNING id",
		u.Name, u.Username, u.Email, u.Role, u.Password).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("user/repo: failed insert user, %w", err)
	}
	return userID, nil
}

func (r *Repo) GetByUsername(username string) (*User, error) {
	row := r.db.QueryRow(
		"SELECT id, name, username, email, role, password FROM users WHERE username=$1", username)
	u := new(User)
	if err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.Password); err != nil {
		return nil, fmt.Errorf("user/repo: row scan failed: %w", err)
	}
	return u, nil
}

func (r *Repo) UserExists(username string) bool {
	row := r.db.QueryRow("SELECT id FROM users WHERE username=$1", username)
	var id int
	if err := row.Scan(&id); err != nil {
		if err != sql.ErrNoRows {
			log.Printf("user/repo.UserExists: could not scan row for `%s`: %v", username, err)
		}
		return false
	}
	return true
}

func (r *Repo) GetByID(ctx context.Context, id int) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, username, email, role FROM users WHERE id=$1", id)
	u := new(User)
	if err := row.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role); err != nil {
		return nil, fmt.Errorf("user/repo: could not scan row: %w", err)
	}
	return u, nil
}
