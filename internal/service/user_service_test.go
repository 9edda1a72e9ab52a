package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frutolandia/internal/auth"
	"frutolandia/internal/domain"
)

func TestUserService_UpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, env.logger)
	ctx := context.Background()
	ana := env.addUser(t, "ana@example.com", domain.RoleUser)
	env.addUser(t, "bea@example.com", domain.RoleUser)

	name := "Ana Lucia"
	updated, err := svc.Update(ctx, ana.ID, UpdateUserInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lucia", updated.Name)
	assert.Equal(t, "ana@example.com", updated.Email)

	taken := "bea@example.com"
	_, err = svc.Update(ctx, ana.ID, UpdateUserInput{Email: &taken})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	password := "newsecret"
	admin := domain.RoleAdmin
	_, err = svc.Update(ctx, ana.ID, UpdateUserInput{Password: &password, Role: &admin})
	require.NoError(t, err)

	stored, err := env.users.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
	assert.NoError(t, auth.CheckPassword(stored.PasswordHash, "newsecret"))

	bogus := domain.Role("ROOT")
	_, err = svc.Update(ctx, ana.ID, UpdateUserInput{Role: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, 999, UpdateUserInput{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_LookupsHideHashes(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, env.logger)
	ctx := context.Background()
	ana := env.addUser(t, "ana@example.com", domain.RoleUser)

	byEmail, err := svc.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, byEmail.ID)
	assert.Empty(t, byEmail.PasswordHash)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].PasswordHash)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Delete(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, env.logger)
	ctx := context.Background()
	ana := env.addUser(t, "ana@example.com", domain.RoleUser)

	require.NoError(t, svc.Delete(ctx, ana.ID))
	assert.ErrorIs(t, svc.Delete(ctx, ana.ID), ErrUserNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users, env.logger)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "Admin", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "Admin", "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := svc.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NotEmpty(t, env.logs.AllEntries())
}
