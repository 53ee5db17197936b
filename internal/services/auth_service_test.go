package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zozo-Cat/trading-tracker-sub002/internal/repository"
)

func TestAuthService_SignupAndLogin(t *testing.T) {
	env := setupServiceTestEnv(t)
	auth := NewAuthService(repository.NewUserRepository(env.db))

	user, err := auth.Signup(SignupInput{Username: "trader", Password: "supersecret"})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "supersecret", user.PasswordHash)

	loggedIn, err := auth.Login(LoginInput{Username: "trader", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	_, err = auth.Login(LoginInput{Username: "trader", Password: "wrongpassword"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(LoginInput{Username: "nobody", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	env := setupServiceTestEnv(t)
	auth := NewAuthService(repository.NewUserRepository(env.db))

	_, err := auth.Signup(SignupInput{Username: "short", Password: "tiny"})
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = auth.Signup(SignupInput{Username: "dupe", Password: "supersecret"})
	require.NoError(t, err)
	_, err = auth.Signup(SignupInput{Username: "dupe", Password: "supersecret"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_GetUser(t *testing.T) {
	env := setupServiceTestEnv(t)
	auth := NewAuthService(repository.NewUserRepository(env.db))

	user, err := auth.Signup(SignupInput{Username: "lookup", Password: "supersecret"})
	require.NoError(t, err)

	found, err := auth.GetUser(user.ID)
	require.NoError(t, err)
	require.Equal(t, "lookup", found.Username)

	_, err = auth.GetUser(user.ID + 100)
	require.ErrorIs(t, err, ErrUserNotFound)
}
