package main

import (
	"net/http"

	_ "todoapp/docs"
	"todoapp/internal/app"
	"todoapp/internal/config"
	"todoapp/internal/logger"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title Todoapp API
// @version 1.0
// @description To-do list service: registration, login, password reset and per-user todos.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @BasePath /
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Log.Fatal("invalid config", zap.Error(err))
	}
	for _, warning := range warnings {
		logger.Log.Warn("config warning", zap.String("warning", warning))
	}

	router, err := app.InitApp(cfg)
	if err != nil {
		logger.Log.Fatal("application init failed", zap.Error(err))
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	})

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	logger.Log.Info("server started", zap.String("port", cfg.Port), zap.String("db", cfg.GetDSNSafe()))

	if err := http.ListenAndServe(":"+cfg.Port, corsMiddleware.Handler(router)); err != nil {
		logger.Log.Fatal("server failed", zap.Error(err))
	}
}
