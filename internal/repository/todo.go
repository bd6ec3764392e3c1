package repository

import (
	"context"

	"todoapp/internal/logger"
	"todoapp/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TodoRepository struct {
	db *pgxpool.Pool
}

func NewTodoRepository(db *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = `id, title, description, priority, complete, owner_id, created_at, updated_at`

func scanTodo(row interface{ Scan(dest ...any) error }) (*models.Todo, error) {
	var t models.Todo
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Complete,
		&t.OwnerID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int) ([]*models.Todo, error) {
	logger.Log.Debug("listing todos (repo)", zap.Int("owner_id", ownerID))
	query := `SELECT ` + todoColumns + ` FROM todos WHERE owner_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		logger.Log.Error("listing todos failed (repo)", zap.Error(err), zap.Int("owner_id", ownerID))
		return nil, err
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Log.Error("scanning todo failed (repo)", zap.Error(err))
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) ListAll(ctx context.Context) ([]*models.Todo, error) {
	logger.Log.Debug("listing all todos (repo)")
	query := `SELECT ` + todoColumns + ` FROM todos ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("listing all todos failed (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Log.Error("scanning todo failed (repo)", zap.Error(err))
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) GetByIDForOwner(ctx context.Context, id, ownerID int) (*models.Todo, error) {
	logger.Log.Debug("fetching todo (repo)", zap.Int("todo_id", id), zap.Int("owner_id", ownerID))
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND owner_id = $2`
	return scanTodo(r.db.QueryRow(ctx, query, id, ownerID))
}

func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	logger.Log.Info("creating todo (repo)", zap.Int("owner_id", todo.OwnerID))
	query := `
	INSERT INTO todos (title, description, priority, complete, owner_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Complete,
		todo.OwnerID,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		logger.Log.Error("creating todo failed (repo)", zap.Error(err))
	}
	return err
}

func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	logger.Log.Info("updating todo (repo)", zap.Int("todo_id", todo.ID), zap.Int("owner_id", todo.OwnerID))
	query := `
	UPDATE todos
	SET title = $1, description = $2, priority = $3, complete = $4, updated_at = now()
	WHERE id = $5 AND owner_id = $6`
	_, err := r.db.Exec(ctx, query,
		todo.Title,
		todo.Description,
		todo.Priority,
		todo.Complete,
		todo.ID,
		todo.OwnerID,
	)
	if err != nil {
		logger.Log.Error("updating todo failed (repo)", zap.Error(err), zap.Int("todo_id", todo.ID))
	}
	return err
}

func (r *TodoRepository) DeleteForOwner(ctx context.Context, id, ownerID int) (bool, error) {
	logger.Log.Info("deleting todo (repo)", zap.Int("todo_id", id), zap.Int("owner_id", ownerID))
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		logger.Log.Error("deleting todo failed (repo)", zap.Error(err), zap.Int("todo_id", id))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TodoRepository) DeleteByID(ctx context.Context, id int) (bool, error) {
	logger.Log.Info("deleting todo by id (repo)", zap.Int("todo_id", id))
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("deleting todo by id failed (repo)", zap.Error(err), zap.Int("todo_id", id))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
