package catalog

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
	Book       Book    `json:"book"`
	DueDate    string  `json:"dueDate"`
	LoanedAt   string  `json:"loanedAt"`
	ReturnedAt *string `json:"returnedAt"`
}

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Loans    []Loan `json:"loans"`
}
