package routes

import (
	"todoapp/internal/handlers"
	"todoapp/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
	todoHandler *handlers.TodoHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	// --- Public routes ---
	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/", authHandler.Register).Methods("POST")
	auth.HandleFunc("/token", authHandler.Login).Methods("POST")
	auth.HandleFunc("/forgot-password", passwordHandler.Forgot).Methods("POST")
	auth.HandleFunc("/reset-password", passwordHandler.Reset).Methods("POST")

	// --- JWT protected ---
	protected := router.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))

	protected.HandleFunc("/auth/me", authHandler.Profile).Methods("GET")
	protected.HandleFunc("/auth/change-password", passwordHandler.Change).Methods("POST")

	protected.HandleFunc("/todos", todoHandler.List).Methods("GET")
	protected.HandleFunc("/todos", todoHandler.Create).Methods("POST")
	protected.HandleFunc("/todos/{id:[0-9]+}", todoHandler.Get).Methods("GET")
	protected.HandleFunc("/todos/{id:[0-9]+}", todoHandler.Update).Methods("PUT")
	protected.HandleFunc("/todos/{id:[0-9]+}", todoHandler.Delete).Methods("DELETE")

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OnlyRole("admin"))
	admin.HandleFunc("/todos", todoHandler.AdminList).Methods("GET")
	admin.HandleFunc("/todos/{id:[0-9]+}", todoHandler.AdminDelete).Methods("DELETE")
}
