package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/internal/db"
)

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(
		userRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	return authService, userRepo
}

func TestAuthService_Register(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{
			name:     "Valid registration",
			email:    "contador@example.com",
			password: "senha123",
			userName: "Contador Teste",
			wantErr:  nil,
		},
		{
			name:     "Duplicate email",
			email:    "contador@example.com",
			password: "outra-senha",
			userName: "Outro Usuário",
			wantErr:  ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(tt.email, tt.password, tt.userName)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				require.NotNil(t, tokens)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.True(t, user.IsActive)
				assert.NotEmpty(t, user.ID)
				assert.NotEmpty(t, tokens.AccessToken)
				assert.NotEmpty(t, tokens.RefreshToken)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, userRepo := setupAuthServiceTest(t)

	_, _, err := authService.Register("contador@example.com", "senha123", "Contador Teste")
	require.NoError(t, err)

	t.Run("Valid credentials", func(t *testing.T) {
		user, tokens, err := authService.Login("contador@example.com", "senha123")
		require.NoError(t, err)
		assert.Equal(t, "contador@example.com", user.Email)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := authService.Login("contador@example.com", "senha-errada")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, _, err := authService.Login("desconhecido@example.com", "senha123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Deactivated account", func(t *testing.T) {
		user, err := userRepo.FindByEmail("contador@example.com")
		require.NoError(t, err)
		user.IsActive = false
		require.NoError(t, userRepo.Update(user))

		_, _, err = authService.Login("contador@example.com", "senha123")
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestAuthService_RefreshTokens(t *testing.T) {
	authService, userRepo := setupAuthServiceTest(t)

	_, tokens, err := authService.Register("contador@example.com", "senha123", "Contador Teste")
	require.NoError(t, err)

	t.Run("Valid refresh token", func(t *testing.T) {
		renewed, err := authService.RefreshTokens(tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, renewed.AccessToken)
		assert.NotEmpty(t, renewed.RefreshToken)
	})

	t.Run("Garbage token", func(t *testing.T) {
		_, err := authService.RefreshTokens("nem-um-token")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Deactivated account", func(t *testing.T) {
		user, err := userRepo.FindByEmail("contador@example.com")
		require.NoError(t, err)
		user.IsActive = false
		require.NoError(t, userRepo.Update(user))

		_, err = authService.RefreshTokens(tokens.RefreshToken)
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}
