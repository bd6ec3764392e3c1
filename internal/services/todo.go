package services

import (
	"context"
	"errors"

	"todoapp/internal/logger"
	"todoapp/internal/models"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ErrTodoNotFound = errors.New("todo not found")

type TodoService struct {
	repo TodoRepo
}

func NewTodoService(repo TodoRepo) *TodoService {
	return &TodoService{repo: repo}
}

type TodoRepo interface {
	ListByOwner(ctx context.Context, ownerID int) ([]*models.Todo, error)
	ListAll(ctx context.Context) ([]*models.Todo, error)
	GetByIDForOwner(ctx context.Context, id, ownerID int) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, todo *models.Todo) error
	DeleteForOwner(ctx context.Context, id, ownerID int) (bool, error)
	DeleteByID(ctx context.Context, id int) (bool, error)
}

func (s *TodoService) ListForOwner(ctx context.Context, ownerID int) ([]*models.Todo, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *TodoService) ListAll(ctx context.Context) ([]*models.Todo, error) {
	return s.repo.ListAll(ctx)
}

func (s *TodoService) GetForOwner(ctx context.Context, id, ownerID int) (*models.Todo, error) {
	todo, err := s.repo.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Create(ctx context.Context, todo *models.Todo) error {
	logger.Log.Info("creating todo (service)", zap.Int("owner_id", todo.OwnerID))
	return s.repo.Create(ctx, todo)
}

// Update overwrites an existing todo owned by the caller.
func (s *TodoService) Update(ctx context.Context, todo *models.Todo) error {
	if _, err := s.GetForOwner(ctx, todo.ID, todo.OwnerID); err != nil {
		return err
	}
	return s.repo.Update(ctx, todo)
}

func (s *TodoService) DeleteForOwner(ctx context.Context, id, ownerID int) error {
	deleted, err := s.repo.DeleteForOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}

func (s *TodoService) Delete(ctx context.Context, id int) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}
