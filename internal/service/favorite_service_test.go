package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frutolandia/internal/domain"
)

func TestFavoriteService_AddRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFavoriteService(env.favorites, env.users, env.products)
	ctx := context.Background()
	env.addUser(t, "ana@example.com", domain.RoleUser)
	papaya := env.addProduct(t, "Papaya")

	product, err := svc.Add(ctx, "ana@example.com", papaya.ID)
	require.NoError(t, err)
	assert.Equal(t, "Papaya", product.Name)

	_, err = svc.Add(ctx, "ana@example.com", papaya.ID)
	assert.ErrorIs(t, err, ErrDuplicateFavorite)

	favs, err := svc.List(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Len(t, favs, 1)
}

func TestFavoriteService_RemoveMissing(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFavoriteService(env.favorites, env.users, env.products)
	ctx := context.Background()
	env.addUser(t, "ana@example.com", domain.RoleUser)
	papaya := env.addProduct(t, "Papaya")

	err := svc.Remove(ctx, "ana@example.com", papaya.ID)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)

	_, err = svc.Add(ctx, "ana@example.com", papaya.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, "ana@example.com", papaya.ID))

	favs, err := svc.List(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Empty(t, favs)

	assert.ErrorIs(t, svc.Remove(ctx, "ana@example.com", papaya.ID), ErrFavoriteNotFound)
}

func TestFavoriteService_UnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFavoriteService(env.favorites, env.users, env.products)
	ctx := context.Background()
	env.addUser(t, "ana@example.com", domain.RoleUser)
	papaya := env.addProduct(t, "Papaya")

	_, err := svc.Add(ctx, "ana@example.com", 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = svc.Add(ctx, "ghost@example.com", papaya.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.List(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFavoriteService_AddRaceMapsConstraintToDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "ana@example.com", domain.RoleUser)
	papaya := env.addProduct(t, "Papaya")

	_, err := NewFavoriteService(env.favorites, env.users, env.products).Add(ctx, "ana@example.com", papaya.ID)
	require.NoError(t, err)

	svc := NewFavoriteService(staleFavoriteCheck{env.favorites}, env.users, env.products)
	_, err = svc.Add(ctx, "ana@example.com", papaya.ID)
	assert.ErrorIs(t, err, ErrDuplicateFavorite)
	assert.NotErrorIs(t, err, ErrInternal)
}
