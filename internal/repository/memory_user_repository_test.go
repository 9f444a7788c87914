package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registre-medical/registry-api/internal/domain"
)

func TestMemoryUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{Email: " Doc@Example.com ", LastName: "Diallo", Role: domain.RoleDoctor, Active: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "doc@example.com", user.Email)

	byEmail, err := repo.GetByEmail(ctx, "DOC@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	exists, err := repo.ExistsByEmail(ctx, "doc@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctx, &domain.User{Email: "doc@example.com", Role: domain.RoleEmployer})
	assert.True(t, IsDuplicateEmail(err))

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemoryUserRepository_UpdateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	for _, u := range []*domain.User{
		{Email: "a@example.com", Role: domain.RoleEmployer, Active: true},
		{Email: "b@example.com", Role: domain.RoleDoctor, Active: true},
		{Email: "c@example.com", Role: domain.RoleDoctor, Active: true},
	} {
		require.NoError(t, repo.Create(ctx, u))
	}

	c, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	c.Active = false
	require.NoError(t, repo.Update(ctx, c))

	doctor := domain.RoleDoctor
	active := true
	got, err := repo.List(ctx, UserFilter{Role: &doctor, Active: &active})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b@example.com", got[0].Email)

	all, err := repo.List(ctx, UserFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ID)

	err = repo.Update(ctx, &domain.User{ID: 99, Email: "x@example.com"})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
