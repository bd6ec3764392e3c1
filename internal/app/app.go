package app

import (
	"context"
	"time"

	"todoapp/internal/config"
	"todoapp/internal/db"
	"todoapp/internal/handlers"
	"todoapp/internal/repository"
	"todoapp/internal/routes"
	"todoapp/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	if err := db.RunMigrations(context.Background(), cfg); err != nil {
		return nil, err
	}

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	resetTTL, err := time.ParseDuration(cfg.ResetTokenTTL)
	if err != nil {
		return nil, err
	}

	// Repositories
	userRepo := repository.NewUserRepository(conn)
	resetRepo := repository.NewPasswordResetRepository(conn)
	todoRepo := repository.NewTodoRepository(conn)

	// Services
	authService := services.NewAuthService(userRepo)
	emailService := services.NewEmailService(cfg)
	passwordService := services.NewPasswordService(userRepo, resetRepo, emailService, cfg.AppURL, resetTTL)
	todoService := services.NewTodoService(todoRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecret, accessTTL)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	todoHandler := handlers.NewTodoHandler(todoService)

	// Routes
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret, authHandler, passwordHandler, todoHandler)

	return router, nil
}
