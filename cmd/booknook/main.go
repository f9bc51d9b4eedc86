package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/booknook-app/booknook/pkg/catalog"
	"github.com/booknook-app/booknook/pkg/config"
	"github.com/booknook-app/booknook/pkg/gate"
	"github.com/booknook-app/booknook/pkg/logger"
	"github.com/booknook-app/booknook/pkg/session"
	"github.com/booknook-app/booknook/pkg/storage"
)

// termNav is the terminal stand-in for the mobile navigation stack.
type termNav struct {
	mu    sync.Mutex
	route gate.Route
}

func (n *termNav) Replace(r gate.Route) {
	n.mu.Lock()
	n.route = r
	n.mu.Unlock()
	fmt.Printf("-> %s\n", r)
}

func (n *termNav) Push(r gate.Route) {
	n.Replace(r)
}

func (n *termNav) Current() gate.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

func main() {
	cfg := config.Parse()
	logger.Run(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	manager, err := session.NewManager(cfg.APIBaseURL, store)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	books, err := catalog.NewClient(cfg.APIBaseURL)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	nav := &termNav{}
	listener := gate.NewListener(manager, nav)
	go listener.Run(ctx)

	manager.Init(ctx)
	waitForSession(manager)

	_, hasSession := manager.Session()
	nav.Replace(gate.Resolve(manager.IsLoading(), hasSession))

	runShell(ctx, manager, books, nav)
}

// waitForSession blocks until the initial storage read settles; no
// screen is chosen while the session is still loading.
func waitForSession(m *session.Manager) {
	watch := m.Watch()
	for m.IsLoading() {
		select {
		case <-watch:
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func runShell(ctx context.Context, m *session.Manager, books *catalog.Client, nav *termNav) {
	fmt.Println(`BookNook. Type "help" for commands.`)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("[%s] > ", nav.Current())
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			fmt.Println("sign-in <username> <password>")
			fmt.Println("sign-up <name> <username> <email> <password> <confirm>")
			fmt.Println("sign-out | validate | whoami")
			fmt.Println("search <title> | book <id> | profile | quit")
		case "sign-in":
			if len(args) != 3 {
				fmt.Println("usage: sign-in <username> <password>")
				continue
			}
			reportAuthErr(m.SignIn(ctx, args[1], args[2]))
		case "sign-up":
			if len(args) != 6 {
				fmt.Println("usage: sign-up <name> <username> <email> <password> <confirm>")
				continue
			}
			reportAuthErr(m.SignUp(ctx, args[1], args[2], args[3], args[4], args[5]))
		case "sign-out":
			m.SignOut(ctx)
		case "validate":
			fmt.Println("valid:", m.ValidateToken(ctx))
		case "whoami":
			if id, ok := m.GetUserID(ctx); ok {
				fmt.Println("user id:", id)
			} else {
				fmt.Println("not signed in")
			}
		case "search":
			token, ok := m.Session()
			if !ok {
				fmt.Println("sign in first")
				continue
			}
			found, err := books.SearchBooks(ctx, token, strings.Join(args[1:], " "))
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			if len(found) == 0 {
				fmt.Println("No books found.")
			}
			for _, b := range found {
				fmt.Printf("#%d %s — %s (%d/%d available)\n",
					b.ID, b.Title, b.Author, b.CurrentAmount, b.TotalAmount)
			}
		case "book":
			token, ok := m.Session()
			if !ok {
				fmt.Println("sign in first")
				continue
			}
			if len(args) != 2 {
				fmt.Println("usage: book <id>")
				continue
			}
			id, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Println("book id must be a number")
				continue
			}
			b, err := books.GetBook(ctx, token, id)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("%s — %s (%s)\n", b.Title, b.Author, b.PublicationDate)
			for _, g := range b.Genres {
				fmt.Println("  genre:", g.Name)
			}
		case "profile":
			token, ok := m.Session()
			if !ok {
				fmt.Println("sign in first")
				continue
			}
			id, ok := m.UserID()
			if !ok {
				id, ok = m.GetUserID(ctx)
			}
			if !ok {
				fmt.Println("can't resolve user id")
				continue
			}
			usr, err := books.GetUser(ctx, token, id, catalog.IncludeCurrentLoans)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("%s (@%s), %s\n", usr.Name, usr.Username, usr.Email)
			for _, l := range usr.Loans {
				fmt.Printf("  loan: %s, due %s\n", l.Book.Title, l.DueDate)
			}
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command")
		}
	}
}

func reportAuthErr(err error) {
	var vErr *session.ValidationError
	var aErr *session.AuthError
	switch {
	case err == nil:
	case errors.As(err, &vErr):
		fmt.Println("Invalid input:", vErr.Message)
	case errors.As(err, &aErr):
		fmt.Println("Error:", aErr.Message)
	default:
		fmt.Println("Error:", err)
	}
}
