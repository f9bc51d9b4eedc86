package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/booknook-app/booknook/pkg/config"
	"github.com/booknook-app/booknook/pkg/library"
	"github.com/booknook-app/booknook/pkg/logger"
	"github.com/booknook-app/booknook/pkg/middleware"
	"github.com/booknook-app/booknook/pkg/sessions"
	"github.com/booknook-app/booknook/pkg/user"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	password BYTEA NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	expiration_date TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS books (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	publication_date TEXT NOT NULL DEFAULT '',
	total_amount INTEGER NOT NULL DEFAULT 1,
	current_amount INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS genres (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS book_genres (
	book_id INTEGER NOT NULL REFERENCES books(id),
	genre_id INTEGER NOT NULL REFERENCES genres(id),
	PRIMARY KEY (book_id, genre_id)
);
CREATE TABLE IF NOT EXISTS loans (
	id SERIAL PRIMARY KEY,
	book_id INTEGER NOT NULL REFERENCES books(id),
	user_id INTEGER NOT NULL REFERENCES users(id),
	due_date TIMESTAMPTZ NOT NULL,
	loaned_at TIMESTAMPTZ NOT NULL,
	returned_at TIMESTAMPTZ
);
`

func main() {
	cfg := config.Parse()

	db, err := sql.Open("pgx", cfg.DatabaseURI)
	if err != nil {
		log.Printf("Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("unable to reach PostgreSQL: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("unable to apply schema: %v", err)
	}

	sessionRepo := sessions.NewSessionRepo(db)
	sessionManager := sessions.NewSessionManager(cfg.SecretKey, sessionRepo)
	sessionHandler := sessions.NewHandler(sessionManager)

	userRepo := user.NewUserRepo(db)
	userHandler := user.NewHandler(user.NewService(userRepo, sessionManager))

	libraryRepo := library.NewLibraryRepo(db)
	libraryHandler := library.NewHandler(library.NewService(libraryRepo), userRepo)

	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	// Auth
	api.HandleFunc("/register", userHandler.Register).Methods("POST")
	api.HandleFunc("/login", userHandler.LogIn).Methods("POST")
	api.HandleFunc("/logout", sessionHandler.LogOut).Methods("POST")
	api.HandleFunc("/validate-token", sessionHandler.ValidateToken).Methods("POST")
	api.HandleFunc("/validate-token", sessionHandler.Introspect).Methods("GET")

	// Library
	api.HandleFunc("/books", libraryHandler.GetBooks).Methods("GET")
	api.HandleFunc("/books/{id:[0-9]+}", libraryHandler.GetBook).Methods("GET")
	api.HandleFunc("/users/{id:[0-9]+}", libraryHandler.GetUser).Methods("GET")
	api.HandleFunc("/loans", libraryHandler.AddLoan).Methods("POST")

	// logout and validate-token resolve the bearer token themselves:
	// both must answer politely for dead tokens.
	noAuthUrls := map[string]struct{}{
		"/api/v1/login":          {},
		"/api/v1/register":       {},
		"/api/v1/logout":         {},
		"/api/v1/validate-token": {},
	}
	auth := middleware.NewAuthMiddleware(sessionManager, userRepo, noAuthUrls)
	api.Use(auth.Middleware)

	logMiddleware := middleware.NewLoggingMiddleware(logger.Run(cfg.LogLevel))
	r.Use(logMiddleware.SetupTracing)
	r.Use(logMiddleware.SetupLogging)
	r.Use(logMiddleware.AccessLog)

	log.Printf("Serving at http://%s/", cfg.RunAddress)
	log.Fatalln(http.ListenAndServe(cfg.RunAddress, r))
}
