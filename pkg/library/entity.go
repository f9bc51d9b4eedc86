package library

import "time"

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Book struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	PublicationDate string  `json:"publicationDate"`
	TotalAmount     int     `json:"totalAmount"`
	CurrentAmount   int     `json:"currentAmount"`
	Genres          []Genre `json:"genres"`
}

type Loan struct {
	ID         int        `json:"-"`
	UserID     int        `json:"-"`
	Book       *Book      `json:"book"`
	DueDate    time.Time  `json:"dueDate"`
	LoanedAt   time.Time  `json:"loanedAt"`
	ReturnedAt *time.Time `json:"returnedAt"`
}
