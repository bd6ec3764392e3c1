package db

import (
	"context"
	"database/sql"

	"todoapp/internal/config"
	"todoapp/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func NewPostgresConnection(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.GetDSN()
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}

	err = pool.Ping(context.Background())
	if err != nil {
		return nil, err
	}

	return pool, nil
}

// RunMigrations applies the embedded goose migrations. Goose needs a
// database/sql handle, so it opens a short-lived one next to the pool.
func RunMigrations(ctx context.Context, cfg *config.Config) error {
	conn, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer conn.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, conn, ".")
}
