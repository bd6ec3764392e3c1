package services

import (
	"context"
	"testing"

	"todoapp/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTodoRepo struct {
	todos  map[int]*models.Todo
	nextID int
}

func newMockTodoRepo() *mockTodoRepo {
	return &mockTodoRepo{todos: make(map[int]*models.Todo)}
}

func (m *mockTodoRepo) ListByOwner(_ context.Context, ownerID int) ([]*models.Todo, error) {
	var out []*models.Todo
	for _, t := range m.todos {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTodoRepo) ListAll(_ context.Context) ([]*models.Todo, error) {
	var out []*models.Todo
	for _, t := range m.todos {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTodoRepo) GetByIDForOwner(_ context.Context, id, ownerID int) (*models.Todo, error) {
	t, ok := m.todos[id]
	if !ok || t.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (m *mockTodoRepo) Create(_ context.Context, todo *models.Todo) error {
	m.nextID++
	todo.ID = m.nextID
	m.todos[todo.ID] = todo
	return nil
}

func (m *mockTodoRepo) Update(_ context.Context, todo *models.Todo) error {
	existing, ok := m.todos[todo.ID]
	if !ok || existing.OwnerID != todo.OwnerID {
		return nil
	}
	m.todos[todo.ID] = todo
	return nil
}

func (m *mockTodoRepo) DeleteForOwner(_ context.Context, id, ownerID int) (bool, error) {
	t, ok := m.todos[id]
	if !ok || t.OwnerID != ownerID {
		return false, nil
	}
	delete(m.todos, id)
	return true, nil
}

func (m *mockTodoRepo) DeleteByID(_ context.Context, id int) (bool, error) {
	if _, ok := m.todos[id]; !ok {
		return false, nil
	}
	delete(m.todos, id)
	return true, nil
}

func TestTodoService_OwnerIsolation(t *testing.T) {
	repo := newMockTodoRepo()
	svc := NewTodoService(repo)

	mine := &models.Todo{Title: "buy milk", Priority: 2, OwnerID: 1}
	theirs := &models.Todo{Title: "walk dog", Priority: 1, OwnerID: 2}
	require.NoError(t, svc.Create(context.Background(), mine))
	require.NoError(t, svc.Create(context.Background(), theirs))

	list, err := svc.ListForOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "buy milk", list[0].Title)

	// someone else's todo reads as missing
	_, err = svc.GetForOwner(context.Background(), theirs.ID, 1)
	assert.ErrorIs(t, err, ErrTodoNotFound)

	err = svc.DeleteForOwner(context.Background(), theirs.ID, 1)
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoService_UpdateMissing(t *testing.T) {
	repo := newMockTodoRepo()
	svc := NewTodoService(repo)

	err := svc.Update(context.Background(), &models.Todo{ID: 99, Title: "ghost", Priority: 1, OwnerID: 1})
	assert.ErrorIs(t, err, ErrTodoNotFound)
}

func TestTodoService_AdminSeesAndDeletesAll(t *testing.T) {
	repo := newMockTodoRepo()
	svc := NewTodoService(repo)

	require.NoError(t, svc.Create(context.Background(), &models.Todo{Title: "a", Priority: 1, OwnerID: 1}))
	require.NoError(t, svc.Create(context.Background(), &models.Todo{Title: "b", Priority: 1, OwnerID: 2}))

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrTodoNotFound)
}
