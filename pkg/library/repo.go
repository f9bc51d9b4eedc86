package library

import (
	"database/sql"
	"fmt"
)

type Repo struct {
	db *sql.DB
}

func NewLibraryRepo(db *sql.DB) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetBooks(titleLike string) ([]*Book, error) {
	rows, err := r.db.Query(
		"SELECT id, title, author, publication_date, total_amount, current_amount "+
			"FROM books WHERE title ILIKE '%' || $1 || '%' ORDER BY publication_date DESC",
		titleLike)
	if err != nil {
		return nil, fmt.Errorf("library/repo: failed querying books, %w", err)
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		b := new(Book)
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationDate,
			&b.TotalAmount, &b.CurrentAmount); err != nil {
			return nil, fmt.Errorf("library/repo: scan book row failed: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range books {
		genres, err := r.getGenres(b.ID)
		if err != nil {
			return nil, err
		}
		b.Genres = genres
	}
	return books, nil
}

func (r *Repo) GetBook(id int) (*Book, error) {
	row := r.db.QueryRow(
		"SELECT id, title, author, publication_date, total_amount, current_amount FROM books WHERE id=$1", id)
	b := new(Book)
	if err := row.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationDate,
		&b.TotalAmount, &b.CurrentAmount); err != nil {
		return nil, fmt.Errorf("library/repo: can't get book with id `%d`, %w", id, err)
	}

	genres, err := r.getGenres(id)
	if err != nil {
		return nil, err
	}
	b.Genres = genres
	return b, nil
}

func (r *Repo) getGenres(bookID int) ([]Genre, error) {
	rows, err := r.db.Query(
		"SELECT g.id, g.name FROM genres g JOIN book_genres bg ON bg.genre_id = g.id WHERE bg.book_id=$1", bookID)
	if err != nil {
		return nil, fmt.Errorf("library/repo: failed querying genres, %w", err)
	}
	defer rows.Close()

	genres := []Genre{}
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("library/repo: scan genre row failed: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// GetLoans lists a user's loans, newest first. With currentOnly only
// loans not yet returned are included.
func (r *Repo) GetLoans(userID int, currentOnly bool) ([]*Loan, error) {
	q := "SELECT id, book_id, due_date, loaned_at, returned_at FROM loans WHERE user_id=$1"
	if currentOnly {
		q += " AND returned_at IS NULL"
	}
	q += " ORDER BY loaned_at DESC"

	rows, err := r.db.Query(q, userID)
	if err != nil {
		return nil, fmt.Errorf("library/repo: failed querying loans, %w", err)
	}
	defer rows.Close()

	loans := []*Loan{}
	for rows.Next() {
		l := &Loan{UserID: userID}
		var bookID int
		var returnedAt sql.NullTime
		if err := rows.Scan(&l.ID, &bookID, &l.DueDate, &l.LoanedAt, &returnedAt); err != nil {
			return nil, fmt.Errorf("library/repo: scan loan row failed: %w", err)
		}
		if returnedAt.Valid {
			t := returnedAt.Time
			l.ReturnedAt = &t
		}
		book, err := r.GetBook(bookID)
		if err != nil {
			return nil, err
		}
		l.Book = book
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (r *Repo) AddLoan(l *Loan) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("library/repo: can't begin loan tx, %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(
		"UPDATE books SET current_amount = current_amount - 1 WHERE id=$1 AND current_amount > 0", l.Book.ID)
	if err != nil {
		return fmt.Errorf("library/repo: failed reserving book copy, %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoCopiesLeft
	}

	err = tx.QueryRow(
		"INSERT INTO loans(book_id, user_id, due_date, loaned_at) VALUES($1, $2, $3, $4) RETURNING id",
		l.Book.ID, l.UserID, l.DueDate, l.LoanedAt).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("library/repo: failed inserting loan, %w", err)
	}

	return tx.Commit()
}
