package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/internal/db"
	"github.com/abrefacil/briefing-backend/pkg/util"
)

func setupUserServiceTest(t *testing.T) (UserService, repository.UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	return NewUserService(userRepo), userRepo
}

func createTestUser(t *testing.T, userRepo repository.UserRepository, email string, role model.UserRole) *model.User {
	t.Helper()

	hash, err := util.HashPassword("senha123")
	require.NoError(t, err)

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Usuário de Teste",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, userRepo.Create(user))
	return user
}

func TestUserService_ListUsers(t *testing.T) {
	service, userRepo := setupUserServiceTest(t)

	createTestUser(t, userRepo, "admin@example.com", model.RoleAdmin)
	createTestUser(t, userRepo, "maria@example.com", model.RoleUser)

	users, err := service.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserService_UpdateUser_PromoteToAdmin(t *testing.T) {
	service, userRepo := setupUserServiceTest(t)

	admin := createTestUser(t, userRepo, "admin@example.com", model.RoleAdmin)
	user := createTestUser(t, userRepo, "maria@example.com", model.RoleUser)

	role := model.RoleAdmin
	updated, err := service.UpdateUser(user.ID, UpdateUserInput{Role: &role}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
}

func TestUserService_UpdateUser_InvalidRole(t *testing.T) {
	service, userRepo := setupUserServiceTest(t)

	admin := createTestUser(t, userRepo, "admin@example.com", model.RoleAdmin)
	user := createTestUser(t, userRepo, "maria@example.com", model.RoleUser)

	role := model.UserRole("superuser")
	_, err := service.UpdateUser(user.ID, UpdateUserInput{Role: &role}, admin.ID)

	var validation ValidationErrors
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation, "role")
}

func TestUserService_UpdateUser_SelfDemotionBlocked(t *testing.T) {
	service, userRepo := setupUserServiceTest(t)

	admin := createTestUser(t, userRepo, "admin@example.com", model.RoleAdmin)

	role := model.RoleUser
	_, err := service.UpdateUser(admin.ID, UpdateUserInput{Role: &role}, admin.ID)
	assert.ErrorIs(t, err, ErrCannotDemoteSelf)

	inactive := false
	_, err = service.UpdateUser(admin.ID, UpdateUserInput{IsActive: &inactive}, admin.ID)
	assert.ErrorIs(t, err, ErrCannotDemoteSelf)
}

func TestUserService_UpdateUser_SelfRenameAllowed(t *testing.T) {
	service, userRepo := setupUserServiceTest(t)

	admin := createTestUser(t, userRepo, "admin@example.com", model.RoleAdmin)

	name := "Novo Nome"
	updated, err := service.UpdateUser(admin.ID, UpdateUserInput{Name: &name}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novo Nome", updated.Name)
}

func TestUserService_DeleteUser(t *testing.T) {
	service, userRepo := setupUserServiceTest(t)

	admin := createTestUser(t, userRepo, "admin@example.com", model.RoleAdmin)
	user := createTestUser(t, userRepo, "maria@example.com", model.RoleUser)

	// Self-deletion would orphan the panel
	err := service.DeleteUser(admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrCannotDemoteSelf)

	require.NoError(t, service.DeleteUser(user.ID, admin.ID))

	_, err = service.GetUser(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	service, _ := setupUserServiceTest(t)

	_, err := service.GetUser("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
