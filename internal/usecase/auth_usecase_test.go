package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/pkg/errors"
)

func TestAuthUseCase_RegisterAndLogin(t *testing.T) {
	s := newStores(t)
	uc := NewAuthUseCase(s.users, fakeTokens{})
	ctx := context.Background()

	result, err := uc.Register(ctx, RegisterInput{Name: "Alice", Email: " Alice@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Empty(t, result.User.PasswordHash)
	assert.Equal(t, "token-"+result.User.ID, result.Token)

	login, err := uc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	me, err := uc.Me(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Name)
}

func TestAuthUseCase_DuplicateEmail(t *testing.T) {
	s := newStores(t)
	uc := NewAuthUseCase(s.users, fakeTokens{})
	ctx := context.Background()

	_, err := uc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, RegisterInput{Name: "Impostor", Email: "ALICE@example.com", Password: "secret2"})
	assert.True(t, errors.Is(err, errors.CodeConflict), "got %v", err)
}

func TestAuthUseCase_LoginFailures(t *testing.T) {
	s := newStores(t)
	uc := NewAuthUseCase(s.users, fakeTokens{})
	ctx := context.Background()

	_, err := uc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, "alice@example.com", "wrong")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	_, err = uc.Login(ctx, "nobody@example.com", "secret1")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}

func TestAuthUseCase_ChangePassword(t *testing.T) {
	s := newStores(t)
	uc := NewAuthUseCase(s.users, fakeTokens{})
	ctx := context.Background()

	result, err := uc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	err = uc.ChangePassword(ctx, result.User.ID, "wrong", "secret2")
	assert.True(t, errors.Is(err, errors.CodeValidation), "got %v", err)

	require.NoError(t, uc.ChangePassword(ctx, result.User.ID, "secret1", "secret2"))

	_, err = uc.Login(ctx, "alice@example.com", "secret1")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))

	_, err = uc.Login(ctx, "alice@example.com", "secret2")
	assert.NoError(t, err)
}
